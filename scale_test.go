package beadpattern

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestPreserveAspectRatio(t *testing.T) {
	tests := []struct {
		name           string
		ow, oh, nw, nh int
		wantW, wantH   int
	}{
		{"landscape into square", 100, 50, 60, 60, 60, 30},
		{"portrait into square", 50, 100, 60, 60, 30, 60},
		{"same ratio", 200, 100, 40, 20, 40, 20},
		{"square source", 100, 100, 64, 64, 64, 64},
		{"tall request clamped", 100, 50, 20, 60, 20, 10},
		{"round half to even", 3, 2, 5, 1, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := PreserveAspectRatio(tt.ow, tt.oh, tt.nw, tt.nh)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("PreserveAspectRatio(%d, %d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.ow, tt.oh, tt.nw, tt.nh, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPreserveAspectRatioClampsOneAxis(t *testing.T) {
	for ow := 1; ow <= 40; ow += 3 {
		for oh := 1; oh <= 40; oh += 5 {
			w, h := PreserveAspectRatio(ow, oh, 17, 23)
			if w != 17 && h != 23 {
				t.Fatalf("(%d, %d): both axes changed to (%d, %d)", ow, oh, w, h)
			}
		}
	}
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsample(t *testing.T) {
	src := solid(100, 50, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	got, err := Downsample(src, 60, 60, true)
	if err != nil {
		t.Fatal(err)
	}
	if s := got.Bounds().Size(); s != image.Pt(60, 30) {
		t.Errorf("keep aspect size = %v, want (60,30)", s)
	}

	got, err = Downsample(src, 60, 60, false)
	if err != nil {
		t.Fatal(err)
	}
	if s := got.Bounds().Size(); s != image.Pt(60, 60) {
		t.Errorf("stretched size = %v, want (60,60)", s)
	}
	if c := got.NRGBAAt(30, 30); c != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("flat image changed color: %v", c)
	}
}

func TestUpsampleKeepsHardEdges(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	colors := [4]color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
	}
	src.SetNRGBA(0, 0, colors[0])
	src.SetNRGBA(1, 0, colors[1])
	src.SetNRGBA(0, 1, colors[2])
	src.SetNRGBA(1, 1, colors[3])

	dst, err := Upsample(src, 4, 4, true)
	if err != nil {
		t.Fatal(err)
	}
	if s := dst.Bounds().Size(); s != image.Pt(4, 4) {
		t.Fatalf("size = %v", s)
	}
	for y := range 4 {
		for x := range 4 {
			want := colors[(y/2)*2+x/2]
			if got := dst.NRGBAAt(x, y); got != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestScaleInvalidDimensions(t *testing.T) {
	src := solid(10, 10, color.NRGBA{A: 255})
	var dimErr *InvalidDimensionError
	if _, err := Downsample(src, 0, 5, true); !errors.As(err, &dimErr) {
		t.Errorf("Downsample zero width: %v", err)
	}
	if _, err := Upsample(src, 5, -1, false); !errors.As(err, &dimErr) {
		t.Errorf("Upsample negative height: %v", err)
	}
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Downsample(empty, 5, 5, true); !errors.As(err, &dimErr) {
		t.Errorf("Downsample empty source: %v", err)
	}
}
