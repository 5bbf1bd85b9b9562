// Package catalog loads bead palettes from JSON, hex lists and SQLite. A
// loaded palette is meant to be read once at startup and shared read-only.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	bp "github.com/setanarut/beadpattern"
)

// Record is the JSON shape of one bead color. Hex, when set, overrides the
// channel fields.
type Record struct {
	ID    int    `json:"id"`
	Red   int    `json:"red"`
	Green int    `json:"green"`
	Blue  int    `json:"blue"`
	Hex   string `json:"hex,omitempty"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
}

func (r Record) entry() (bp.PaletteEntry, error) {
	e := bp.PaletteEntry{ID: r.ID, Name: r.Name, Brand: r.Brand}
	if r.Hex != "" {
		c, err := parseHex(r.Hex)
		if err != nil {
			return e, fmt.Errorf("color %d: %w", r.ID, err)
		}
		e.Color = c
		return e, nil
	}
	for _, v := range [...]int{r.Red, r.Green, r.Blue} {
		if v < 0 || v > 255 {
			return e, fmt.Errorf("color %d: channel %d out of range", r.ID, v)
		}
	}
	e.Color = bp.RGB(uint8(r.Red), uint8(r.Green), uint8(r.Blue))
	return e, nil
}

func parseHex(s string) (bp.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return bp.Color{}, err
	}
	r, g, b := c.RGB255()
	return bp.RGB(r, g, b), nil
}

// LoadJSON reads an array of Records, keeping file order.
func LoadJSON(r io.Reader) (bp.Palette, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("catalog: decode json: %w", err)
	}
	p := make(bp.Palette, 0, len(recs))
	for _, rec := range recs {
		e, err := rec.entry()
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		p = append(p, e)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseHexList reads colors like "#000000 #ffffff" or "#000000#ffffff".
// Ids are assigned 1..n in order and the hex string doubles as the name.
func ParseHexList(s, brand string) (bp.Palette, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '#' || r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	p := make(bp.Palette, 0, len(fields))
	for i, f := range fields {
		c, err := parseHex(f)
		if err != nil {
			return nil, fmt.Errorf("catalog: %q: %w", f, err)
		}
		p = append(p, bp.PaletteEntry{
			ID:    i + 1,
			Color: c,
			Name:  "#" + strings.ToLower(f),
			Brand: brand,
		})
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFile picks the loader from the extension: .json, .db/.sqlite/.sqlite3,
// anything else is read as a hex list.
func LoadFile(path string) (bp.Palette, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLiteFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseHexList(string(data), "")
}
