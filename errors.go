package beadpattern

import (
	"errors"
	"fmt"
)

// ErrEmptyPalette is returned when quantization is requested against zero
// colors.
var ErrEmptyPalette = errors.New("beadpattern: palette is empty")

// InvalidDimensionError reports a non-positive width or height, or a buffer
// whose length does not match its dimensions.
type InvalidDimensionError struct {
	Op            string
	Width, Height int
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("beadpattern: %s: invalid dimensions %dx%d", e.Op, e.Width, e.Height)
}

// PaletteTooLargeError is returned when more distinct colors are in use than
// there are printable codes.
type PaletteTooLargeError struct {
	Colors int
	Max    int
}

func (e *PaletteTooLargeError) Error() string {
	return fmt.Sprintf("beadpattern: %d colors in use, only %d codes available", e.Colors, e.Max)
}

// MissingCodeError signals that the quantizer output and the encoder input
// disagree: a cell refers to something that has no code or palette entry.
type MissingCodeError struct {
	Index int
	ID    int
	Code  rune
	Color string
}

func (e *MissingCodeError) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("beadpattern: cell %d: code %q has no assignment", e.Index, e.Code)
	case e.Color != "":
		return fmt.Sprintf("beadpattern: cell %d: color %s is not in the palette", e.Index, e.Color)
	default:
		return fmt.Sprintf("beadpattern: cell %d: palette id %d is unknown", e.Index, e.ID)
	}
}

// UnsupportedImageFormatError wraps the decoder failure for input bytes that
// are not a raster image.
type UnsupportedImageFormatError struct {
	Err error
}

func (e *UnsupportedImageFormatError) Error() string {
	return "beadpattern: unsupported image format: " + e.Err.Error()
}

func (e *UnsupportedImageFormatError) Unwrap() error {
	return e.Err
}
