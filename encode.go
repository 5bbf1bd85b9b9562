package beadpattern

import (
	"cmp"
	"slices"
)

// CodeAlphabet lists the printable codes in assignment order. I and l are
// left out because they read like 1 on a printed grid.
var CodeAlphabet = buildAlphabet()

func buildAlphabet() []rune {
	var out []rune
	for r := '0'; r <= '9'; r++ {
		out = append(out, r)
	}
	for r := 'A'; r <= 'Z'; r++ {
		if r != 'I' {
			out = append(out, r)
		}
	}
	for r := 'a'; r <= 'z'; r++ {
		if r != 'l' {
			out = append(out, r)
		}
	}
	return out
}

type CodeEntry struct {
	ID    int
	Code  rune
	Name  string
	Color Color
	Count int
}

// CodeAssignment maps palette ids to codes. Entries are ordered by
// descending count, which is also the code order.
type CodeAssignment struct {
	Entries []CodeEntry
	byID    map[int]int
	byCode  map[rune]int
}

func newCodeAssignment(entries []CodeEntry) *CodeAssignment {
	ca := &CodeAssignment{
		Entries: entries,
		byID:    make(map[int]int, len(entries)),
		byCode:  make(map[rune]int, len(entries)),
	}
	for i, e := range entries {
		ca.byID[e.ID] = i
		ca.byCode[e.Code] = i
	}
	return ca
}

func (ca *CodeAssignment) Len() int {
	return len(ca.Entries)
}

func (ca *CodeAssignment) Code(id int) (rune, bool) {
	i, ok := ca.byID[id]
	if !ok {
		return 0, false
	}
	return ca.Entries[i].Code, true
}

func (ca *CodeAssignment) Lookup(code rune) (CodeEntry, bool) {
	i, ok := ca.byCode[code]
	if !ok {
		return CodeEntry{}, false
	}
	return ca.Entries[i], true
}

func (ca *CodeAssignment) Name(code rune) (string, bool) {
	e, ok := ca.Lookup(code)
	return e.Name, ok
}

// EncodePattern counts every identifier in ids, orders them by descending
// count and hands out codes from CodeAlphabet in that order. Equal counts
// keep the order in which the identifiers first appear in the row-major
// scan. The returned slice holds the code of every cell.
func EncodePattern(ids IDGrid, p Palette) (*CodeAssignment, []rune, error) {
	if ids.W <= 0 || ids.H <= 0 || len(ids.IDs) != ids.W*ids.H {
		return nil, nil, &InvalidDimensionError{Op: "encode", Width: ids.W, Height: ids.H}
	}

	counts := make(map[int]int)
	var order []int
	for i, id := range ids.IDs {
		if _, ok := counts[id]; !ok {
			if _, known := p.Index(id); !known {
				return nil, nil, &MissingCodeError{Index: i, ID: id}
			}
			order = append(order, id)
		}
		counts[id]++
	}
	if len(order) > len(CodeAlphabet) {
		return nil, nil, &PaletteTooLargeError{Colors: len(order), Max: len(CodeAlphabet)}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(counts[b], counts[a])
	})

	entries := make([]CodeEntry, len(order))
	for i, id := range order {
		e, _ := p.Entry(id)
		entries[i] = CodeEntry{
			ID:    id,
			Code:  CodeAlphabet[i],
			Name:  e.Label(),
			Color: e.Color,
			Count: counts[id],
		}
	}
	ca := newCodeAssignment(entries)

	codes := make([]rune, len(ids.IDs))
	for i, id := range ids.IDs {
		codes[i] = ca.Entries[ca.byID[id]].Code
	}
	return ca, codes, nil
}
