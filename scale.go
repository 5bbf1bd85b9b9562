package beadpattern

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// PreserveAspectRatio clamps the requested size so it does not exceed the
// size implied by the source aspect ratio. Only one axis is ever clamped:
// width is checked first, height only when width was left alone.
func PreserveAspectRatio(oldWidth, oldHeight, newWidth, newHeight int) (int, int) {
	aspect := float64(oldWidth) / float64(oldHeight)
	expectedWidth := int(math.RoundToEven(float64(newHeight) * aspect))
	expectedHeight := int(math.RoundToEven(float64(newWidth) / aspect))

	if newWidth > expectedWidth {
		newWidth = expectedWidth
	} else if newHeight > expectedHeight {
		newHeight = expectedHeight
	}
	return newWidth, newHeight
}

func targetSize(op string, src image.Rectangle, w, h int, keepAspect bool) (int, int, error) {
	if src.Dx() <= 0 || src.Dy() <= 0 {
		return 0, 0, &InvalidDimensionError{Op: op, Width: src.Dx(), Height: src.Dy()}
	}
	if w <= 0 || h <= 0 {
		return 0, 0, &InvalidDimensionError{Op: op, Width: w, Height: h}
	}
	if keepAspect {
		w, h = PreserveAspectRatio(src.Dx(), src.Dy(), w, h)
		if w <= 0 || h <= 0 {
			return 0, 0, &InvalidDimensionError{Op: op, Width: w, Height: h}
		}
	}
	return w, h, nil
}

// Downsample shrinks img with the Hamming filter, which smooths before
// reduction.
func Downsample(img image.Image, width, height int, keepAspect bool) (*image.NRGBA, error) {
	w, h, err := targetSize("downsample", img.Bounds(), width, height, keepAspect)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, w, h, imaging.Hamming), nil
}

// Upsample enlarges img by replicating pixels, so quantized cells keep hard
// edges.
func Upsample(img image.Image, width, height int, keepAspect bool) (*image.NRGBA, error) {
	w, h, err := targetSize("upsample", img.Bounds(), width, height, keepAspect)
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}
