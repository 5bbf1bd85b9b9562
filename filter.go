package beadpattern

import (
	"image"

	"github.com/disintegration/gift"
)

// Filter is the optional smoothing/sharpening pass applied to the preview
// before it is reduced to the bead grid.
type Filter int

const (
	FilterNone Filter = iota
	FilterBlur
	FilterSharpen
)

func (f Filter) String() string {
	switch f {
	case FilterBlur:
		return "blur"
	case FilterSharpen:
		return "sharpen"
	default:
		return "none"
	}
}

// 5x5 ring average; the center 3x3 is left out.
var blurKernel = []float32{
	1, 1, 1, 1, 1,
	1, 0, 0, 0, 1,
	1, 0, 0, 0, 1,
	1, 0, 0, 0, 1,
	1, 1, 1, 1, 1,
}

var sharpenKernel = []float32{
	-2, -2, -2,
	-2, 32, -2,
	-2, -2, -2,
}

// Apply runs the filter. FilterNone returns img unchanged.
func (f Filter) Apply(img image.Image) image.Image {
	var g *gift.GIFT
	switch f {
	case FilterBlur:
		g = gift.New(gift.Convolution(blurKernel, true, false, false, 0))
	case FilterSharpen:
		g = gift.New(gift.Convolution(sharpenKernel, true, false, false, 0))
	default:
		return img
	}
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// FilterFor picks the filter from the two toggles. Blur wins when both are
// set.
func FilterFor(blur, sharpen bool) Filter {
	switch {
	case blur:
		return FilterBlur
	case sharpen:
		return FilterSharpen
	}
	return FilterNone
}
