package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	bp "github.com/setanarut/beadpattern"
)

const beadsJSON = `[
	{"id": 1, "red": 0, "green": 0, "blue": 0, "name": "Black", "brand": "Perler"},
	{"id": 2, "hex": "#FFFFFF", "name": "White", "brand": "Perler"},
	{"id": 7, "red": 200, "green": 30, "blue": 30, "name": "Red", "brand": "Hama"}
]`

func wantPalette() bp.Palette {
	return bp.Palette{
		{ID: 1, Color: bp.RGB(0, 0, 0), Name: "Black", Brand: "Perler"},
		{ID: 2, Color: bp.RGB(255, 255, 255), Name: "White", Brand: "Perler"},
		{ID: 7, Color: bp.RGB(200, 30, 30), Name: "Red", Brand: "Hama"},
	}
}

func equalPalettes(t *testing.T, got, want bp.Palette) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadJSON(t *testing.T) {
	p, err := LoadJSON(strings.NewReader(beadsJSON))
	if err != nil {
		t.Fatal(err)
	}
	equalPalettes(t, p, wantPalette())
}

func TestLoadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", `[{"id": 1,`},
		{"channel range", `[{"id": 1, "red": 300, "green": 0, "blue": 0}]`},
		{"bad hex", `[{"id": 1, "hex": "#zzzzzz"}]`},
		{"duplicate id", `[{"id": 1}, {"id": 1, "red": 5}]`},
		{"empty", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadJSON(strings.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := LoadJSON(strings.NewReader(`[]`)); !errors.Is(err, bp.ErrEmptyPalette) {
		t.Errorf("empty: got %v", err)
	}
}

func TestParseHexList(t *testing.T) {
	for _, in := range []string{"#000000 #FFFFFF", "#000000#ffffff", "000000,ffffff\n"} {
		p, err := ParseHexList(in, "Perler")
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		want := bp.Palette{
			{ID: 1, Color: bp.RGB(0, 0, 0), Name: "#000000", Brand: "Perler"},
			{ID: 2, Color: bp.RGB(255, 255, 255), Name: "#ffffff", Brand: "Perler"},
		}
		equalPalettes(t, p, want)
	}
	if _, err := ParseHexList("#gg0000", ""); err == nil {
		t.Error("bad hex accepted")
	}
	if _, err := ParseHexList("  ", ""); !errors.Is(err, bp.ErrEmptyPalette) {
		t.Errorf("blank list: got %v", err)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := CreateSchema(ctx, db); err != nil {
		t.Fatal(err)
	}
	if err := InsertEntries(ctx, db, wantPalette()); err != nil {
		t.Fatal(err)
	}

	p, err := LoadSQLite(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	equalPalettes(t, p, wantPalette())

	var brands int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bead_brand").Scan(&brands); err != nil {
		t.Fatal(err)
	}
	if brands != 2 {
		t.Errorf("brands = %d, want 2", brands)
	}

	err = InsertEntries(ctx, db, bp.Palette{{ID: 7, Color: bp.RGB(1, 1, 1), Name: "Again"}})
	if !errors.Is(err, ErrConstraint) {
		t.Errorf("duplicate id: got %v", err)
	}
	// The failed transaction leaves the table untouched.
	p, err = LoadSQLite(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	equalPalettes(t, p, wantPalette())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "beads.json")
	if err := os.WriteFile(jsonPath, []byte(beadsJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	hexPath := filepath.Join(dir, "beads.txt")
	if err := os.WriteFile(hexPath, []byte("#000000 #ffffff"), 0o644); err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(dir, "beads.db")
	ctx := context.Background()
	db, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := CreateSchema(ctx, db); err != nil {
		t.Fatal(err)
	}
	if err := InsertEntries(ctx, db, wantPalette()); err != nil {
		t.Fatal(err)
	}
	db.Close()

	tests := []struct {
		path string
		want int
	}{
		{jsonPath, 3},
		{hexPath, 2},
		{dbPath, 3},
	}
	for _, tt := range tests {
		t.Run(filepath.Ext(tt.path), func(t *testing.T) {
			p, err := LoadFile(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if len(p) != tt.want {
				t.Errorf("got %d entries, want %d", len(p), tt.want)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file loaded")
	}
}
