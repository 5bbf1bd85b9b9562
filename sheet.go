package beadpattern

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	SheetFilename    = "bead_template.pdf"
	SheetContentType = "application/pdf"

	legendDescription = "The table below contains the color codes that you will find in the grid, " +
		"along with the number of each color required."
)

var DefaultCoverText = []string{
	"Thank you for using the bead pattern generator!",
	"Each page after this one shows a band of the pattern, left to right. " +
		"Every square is one bead; find its code in the table below to pick the color.",
}

// SheetConfig carries the print layout. It is passed per call; nothing here
// is shared between sheets.
type SheetConfig struct {
	// Widest band in columns. Bands are full height.
	MaxColsPerPage int
	// Edge of one grid cell in mm. Shrunk if a band would not fit the page.
	CellSize       float64
	GridFontSize   float64
	LegendFontSize float64
	// fpdf page size name: "Letter", "A4", ...
	PageSize  string
	Margin    float64
	Title     string
	CoverText []string
	Creator   string
}

func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		MaxColsPerPage: 30,
		CellSize:       5,
		GridFontSize:   9,
		LegendFontSize: 12,
		PageSize:       "Letter",
		Margin:         15,
		Title:          "Bead Pattern",
		CoverText:      DefaultCoverText,
		Creator:        "beadpattern",
	}
}

// PatternPage is one vertical band of the grid, columns [StartCol, EndCol).
type PatternPage struct {
	Index      int
	StartCol   int
	EndCol     int
	BreakAfter bool
}

func (p PatternPage) Cols() int {
	return p.EndCol - p.StartCol
}

// LayoutBands splits a grid into ceil(gridWidth/maxCols) bands. Every band
// but the last is followed by a page break.
func LayoutBands(gridWidth, gridHeight, maxCols int) ([]PatternPage, error) {
	if gridWidth <= 0 || gridHeight <= 0 {
		return nil, &InvalidDimensionError{Op: "layout", Width: gridWidth, Height: gridHeight}
	}
	if maxCols <= 0 {
		return nil, &InvalidDimensionError{Op: "layout", Width: maxCols, Height: gridHeight}
	}
	n := (gridWidth + maxCols - 1) / maxCols
	bands := make([]PatternPage, n)
	for i := 0; i < n; i++ {
		start := i * maxCols
		bands[i] = PatternPage{
			Index:      i,
			StartCol:   start,
			EndCol:     min(start+maxCols, gridWidth),
			BreakAfter: i < n-1,
		}
	}
	return bands, nil
}

// GenerateSheet renders the cover legend and the code grid bands to PDF.
// codes is row-major with gridWidth columns.
func GenerateSheet(ca *CodeAssignment, codes []rune, gridWidth int, cfg SheetConfig) ([]byte, error) {
	pdf, err := renderSheet(ca, codes, gridWidth, cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderSheet(ca *CodeAssignment, codes []rune, gridWidth int, cfg SheetConfig) (*fpdf.Fpdf, error) {
	if gridWidth <= 0 || len(codes) == 0 || len(codes)%gridWidth != 0 {
		return nil, &InvalidDimensionError{Op: "sheet", Width: gridWidth, Height: len(codes)}
	}
	for i, c := range codes {
		if _, ok := ca.Lookup(c); !ok {
			return nil, &MissingCodeError{Index: i, Code: c}
		}
	}
	def := DefaultSheetConfig()
	if cfg.MaxColsPerPage <= 0 {
		cfg.MaxColsPerPage = def.MaxColsPerPage
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = def.CellSize
	}
	if cfg.GridFontSize <= 0 {
		cfg.GridFontSize = def.GridFontSize
	}
	if cfg.LegendFontSize <= 0 {
		cfg.LegendFontSize = def.LegendFontSize
	}
	if cfg.PageSize == "" {
		cfg.PageSize = def.PageSize
	}
	if cfg.Margin <= 0 {
		cfg.Margin = def.Margin
	}

	height := len(codes) / gridWidth
	bands, err := LayoutBands(gridWidth, height, cfg.MaxColsPerPage)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", cfg.PageSize, "")
	pdf.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	pdf.SetAutoPageBreak(true, cfg.Margin)
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}
	if cfg.Creator != "" {
		pdf.SetCreator(cfg.Creator, true)
	}
	s := &sheet{pdf: pdf, cfg: cfg, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	s.cover(ca)
	pdf.AddPage()
	for _, band := range bands {
		s.band(codes, gridWidth, height, band)
		if band.BreakAfter {
			pdf.AddPage()
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

type sheet struct {
	pdf *fpdf.Fpdf
	cfg SheetConfig
	tr  func(string) string
}

func (s *sheet) rowFill(row int) {
	if row%2 == 0 {
		s.pdf.SetFillColor(255, 255, 255)
	} else {
		s.pdf.SetFillColor(211, 211, 211)
	}
}

func (s *sheet) contentWidth() float64 {
	w, _ := s.pdf.GetPageSize()
	left, _, right, _ := s.pdf.GetMargins()
	return w - left - right
}

func (s *sheet) cover(ca *CodeAssignment) {
	pdf := s.pdf
	pdf.AddPage()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.25 * 25.4 / 72)

	if s.cfg.Title != "" {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, s.tr(s.cfg.Title), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, p := range s.cfg.CoverText {
		pdf.MultiCell(0, 5, s.tr(p), "", "L", false)
		pdf.Ln(5)
	}
	pdf.MultiCell(0, 5, legendDescription, "", "L", false)
	pdf.Ln(5)

	const codeW, countW, swatchW = 28.0, 40.0, 14.0
	nameW := s.contentWidth() - codeW - countW - swatchW
	rowH := s.cfg.LegendFontSize * 0.6

	pdf.SetFont("Helvetica", "B", s.cfg.LegendFontSize)
	s.rowFill(0)
	pdf.CellFormat(codeW, rowH, "Color Code", "1", 0, "CM", true, 0, "")
	pdf.CellFormat(nameW, rowH, "Color Name", "1", 0, "CM", true, 0, "")
	pdf.CellFormat(countW, rowH, "Number of Beads", "1", 0, "CM", true, 0, "")
	pdf.CellFormat(swatchW, rowH, "", "1", 1, "CM", true, 0, "")

	pdf.SetFont("Helvetica", "", s.cfg.LegendFontSize)
	for i, e := range ca.Entries {
		s.rowFill(i + 1)
		pdf.CellFormat(codeW, rowH, string(e.Code), "1", 0, "CM", true, 0, "")
		pdf.CellFormat(nameW, rowH, s.tr(e.Name), "1", 0, "LM", true, 0, "")
		pdf.CellFormat(countW, rowH, strconv.Itoa(e.Count), "1", 0, "CM", true, 0, "")
		pdf.SetFillColor(int(e.Color.R), int(e.Color.G), int(e.Color.B))
		pdf.CellFormat(swatchW, rowH, "", "1", 1, "", true, 0, "")
	}
}

// band draws one column range at full height. Rows that would cross the
// bottom margin continue on a fresh page.
func (s *sheet) band(codes []rune, gridWidth, height int, band PatternPage) {
	pdf := s.pdf
	cell := min(s.cfg.CellSize, s.contentWidth()/float64(band.Cols()))
	_, pageH := pdf.GetPageSize()
	left, _, _, bottom := pdf.GetMargins()

	pdf.SetFont("Helvetica", "", s.cfg.GridFontSize)
	for y := 0; y < height; y++ {
		if pdf.GetY()+cell > pageH-bottom {
			pdf.AddPage()
		}
		s.rowFill(y)
		pdf.SetX(left)
		row := codes[y*gridWidth:]
		for x := band.StartCol; x < band.EndCol; x++ {
			pdf.CellFormat(cell, cell, string(row[x]), "1", 0, "CM", true, 0, "")
		}
		pdf.Ln(cell)
	}
}
