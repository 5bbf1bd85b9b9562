package beadpattern

import (
	"bytes"
	"errors"
	"testing"
)

func TestLayoutBands(t *testing.T) {
	bands, err := LayoutBands(65, 4, 30)
	if err != nil {
		t.Fatal(err)
	}
	want := []PatternPage{
		{Index: 0, StartCol: 0, EndCol: 30, BreakAfter: true},
		{Index: 1, StartCol: 30, EndCol: 60, BreakAfter: true},
		{Index: 2, StartCol: 60, EndCol: 65, BreakAfter: false},
	}
	if len(bands) != len(want) {
		t.Fatalf("got %d bands, want %d", len(bands), len(want))
	}
	for i := range want {
		if bands[i] != want[i] {
			t.Errorf("band %d = %+v, want %+v", i, bands[i], want[i])
		}
	}
	if bands[2].Cols() != 5 {
		t.Errorf("last band cols = %d", bands[2].Cols())
	}

	bands, err = LayoutBands(30, 1, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(bands) != 1 || bands[0].BreakAfter {
		t.Errorf("single band = %+v", bands)
	}

	var dimErr *InvalidDimensionError
	for _, args := range [][3]int{{0, 1, 30}, {10, 0, 30}, {10, 1, 0}} {
		if _, err := LayoutBands(args[0], args[1], args[2]); !errors.As(err, &dimErr) {
			t.Errorf("LayoutBands%v: got %v", args, err)
		}
	}
}

func encodedGrid(t *testing.T, w, h int) (*CodeAssignment, []rune) {
	t.Helper()
	p := codePalette(4)
	ids := IDGrid{W: w, H: h, IDs: make([]int, w*h)}
	for i := range ids.IDs {
		ids.IDs[i] = i%3 + 1
	}
	ca, codes, err := EncodePattern(ids, p)
	if err != nil {
		t.Fatal(err)
	}
	return ca, codes
}

func TestRenderSheetPages(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		wantPages int
	}{
		// cover + one page per band
		{"three bands", 65, 2, 4},
		{"single band", 20, 10, 2},
		// 80 rows of 5mm need two Letter pages
		{"tall band", 30, 80, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ca, codes := encodedGrid(t, tt.w, tt.h)
			pdf, err := renderSheet(ca, codes, tt.w, DefaultSheetConfig())
			if err != nil {
				t.Fatal(err)
			}
			if got := pdf.PageNo(); got != tt.wantPages {
				t.Errorf("pages = %d, want %d", got, tt.wantPages)
			}
		})
	}
}

func TestGenerateSheet(t *testing.T) {
	ca, codes := encodedGrid(t, 65, 2)
	data, err := GenerateSheet(ca, codes, 65, DefaultSheetConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(len(data), 8)])
	}

	// Zero values fall back to the defaults.
	if _, err := GenerateSheet(ca, codes, 65, SheetConfig{}); err != nil {
		t.Errorf("zero config: %v", err)
	}
}

func TestGenerateSheetErrors(t *testing.T) {
	ca, codes := encodedGrid(t, 4, 2)

	var dimErr *InvalidDimensionError
	if _, err := GenerateSheet(ca, codes, 0, DefaultSheetConfig()); !errors.As(err, &dimErr) {
		t.Errorf("zero width: got %v", err)
	}
	if _, err := GenerateSheet(ca, nil, 4, DefaultSheetConfig()); !errors.As(err, &dimErr) {
		t.Errorf("empty grid: got %v", err)
	}
	if _, err := GenerateSheet(ca, codes, 3, DefaultSheetConfig()); !errors.As(err, &dimErr) {
		t.Errorf("ragged grid: got %v", err)
	}

	bad := append([]rune(nil), codes...)
	bad[5] = 'z'
	var missing *MissingCodeError
	if _, err := GenerateSheet(ca, bad, 4, DefaultSheetConfig()); !errors.As(err, &missing) || missing.Code != 'z' || missing.Index != 5 {
		t.Errorf("unknown code: got %v", err)
	}
}
