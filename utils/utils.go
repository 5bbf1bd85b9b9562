package utils

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"slices"

	bp "github.com/setanarut/beadpattern"
)

// SortByBrightness orders entries from darkest to brightest by relative
// luminance. Sorting changes quantizer tie-breaks, so use it on a copy meant
// for display.
func SortByBrightness(palette bp.Palette) {
	slices.SortStableFunc(palette, func(a, b bp.PaletteEntry) int {
		ri, gi, bi := a.Color.Colorful().LinearRgb()
		rj, gj, bj := b.Color.Colorful().LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

func ReadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := bp.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func SaveImage(img image.Image, filename string) error {
	data, err := bp.EncodePNG(img)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// PaletteImage draws one square tile per entry, left to right.
func PaletteImage(palette bp.Palette, tileSize int) *image.RGBA {
	if tileSize <= 0 {
		tileSize = 64
	}
	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, e := range palette {
		c := color.RGBA{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: 255}
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := 0; y < h; y++ {
			for x := x0; x < x1; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

func SavePalette(palette bp.Palette, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	return SaveImage(PaletteImage(palette, tileSize), filename)
}
