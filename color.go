package beadpattern

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB color. A defaults to 255 and never takes part in
// distance math.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Colorful returns the color as normalized RGB in [0,1].
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

func (c Color) key() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ColorFrom converts any color.Color to Color, un-premultiplying alpha.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// PaletteEntry is one bead: a color with an identifier, a display name and a
// brand label.
type PaletteEntry struct {
	ID    int
	Color Color
	Name  string
	Brand string
}

// Label is the name printed on the legend.
func (e PaletteEntry) Label() string {
	if e.Brand == "" {
		return e.Name
	}
	return e.Name + " (" + e.Brand + ")"
}

// Palette is an ordered set of entries. Order decides ties during
// quantization, so it is never re-sorted internally.
type Palette []PaletteEntry

// Validate reports an empty palette or duplicate identifiers.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	seen := make(map[int]struct{}, len(p))
	for _, e := range p {
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("beadpattern: duplicate palette id %d", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// Index returns the position of the entry with the given id.
func (p Palette) Index(id int) (int, bool) {
	for i := range p {
		if p[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (p Palette) Entry(id int) (PaletteEntry, bool) {
	i, ok := p.Index(id)
	if !ok {
		return PaletteEntry{}, false
	}
	return p[i], true
}

// Select returns the entries whose ids are listed, keeping palette order.
// An empty id list selects the whole palette.
func (p Palette) Select(ids []int) Palette {
	if len(ids) == 0 {
		return slices.Clone(p)
	}
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make(Palette, 0, len(ids))
	for _, e := range p {
		if _, ok := want[e.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Brands lists brand labels in order of first appearance.
func (p Palette) Brands() []string {
	var brands []string
	for _, e := range p {
		if !slices.Contains(brands, e.Brand) {
			brands = append(brands, e.Brand)
		}
	}
	return brands
}

func (p Palette) ByBrand(brand string) Palette {
	var out Palette
	for _, e := range p {
		if e.Brand == brand {
			out = append(out, e)
		}
	}
	return out
}

// ColorPalette converts to the standard library palette type.
func (p Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p))
	for i, e := range p {
		out[i] = e.Color.NRGBA()
	}
	return out
}

// Grid is a row-major pixel buffer, len(Pix) == W*H.
type Grid struct {
	W, H int
	Pix  []Color
}

func NewGrid(w, h int) Grid {
	return Grid{W: w, H: h, Pix: make([]Color, w*h)}
}

func (g Grid) At(x, y int) Color {
	return g.Pix[y*g.W+x]
}

func (g Grid) validate() error {
	if g.W <= 0 || g.H <= 0 || len(g.Pix) != g.W*g.H {
		return &InvalidDimensionError{Op: "grid", Width: g.W, Height: g.H}
	}
	return nil
}

// GridFromImage samples img into a Grid anchored at the image origin.
func GridFromImage(img image.Image) Grid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := NewGrid(w, h)
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < w; x++ {
				off := x * 4
				g.Pix[y*w+x] = Color{row[off], row[off+1], row[off+2], row[off+3]}
			}
		}
		return g
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Pix[y*w+x] = ColorFrom(img.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return g
}

// Image returns the grid as an NRGBA image.
func (g Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := g.Pix[y*g.W+x]
			off := y*img.Stride + x*4
			img.Pix[off] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = c.A
		}
	}
	return img
}

// IDGrid holds the palette identifier chosen for every cell, row-major.
type IDGrid struct {
	W, H int
	IDs  []int
}

func (g IDGrid) At(x, y int) int {
	return g.IDs[y*g.W+x]
}

// IdentifyGrid maps every pixel of an already quantized grid back to the
// palette entry with the exact same RGB. When two entries share a color the
// first one wins.
func IdentifyGrid(g Grid, p Palette) (IDGrid, error) {
	if err := g.validate(); err != nil {
		return IDGrid{}, err
	}
	if len(p) == 0 {
		return IDGrid{}, ErrEmptyPalette
	}
	lookup := make(map[uint32]int, len(p))
	for _, e := range p {
		k := e.Color.key()
		if _, ok := lookup[k]; !ok {
			lookup[k] = e.ID
		}
	}
	out := IDGrid{W: g.W, H: g.H, IDs: make([]int, len(g.Pix))}
	for i, c := range g.Pix {
		id, ok := lookup[c.key()]
		if !ok {
			return IDGrid{}, &MissingCodeError{Index: i, Color: c.String()}
		}
		out.IDs[i] = id
	}
	return out, nil
}
