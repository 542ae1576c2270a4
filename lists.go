package docfill

import (
	"fmt"
	"strings"

	"github.com/javajack/docfill/grid"
	"github.com/javajack/docfill/textmatch"
)

// headerCol maps a header, by its index in List.Headers, to a grid column.
type headerCol struct {
	index int
	col   int
}

// section is a located repeating section and its write cursor.
type section struct {
	t       grid.Table
	row     int // anchor row
	col     int // anchor column
	sidebar bool
	headers []headerCol
	cursor  int // next row to write
	end     int // last row that may be written without growing
}

func (w *writer) writeLists(lists []List) error {
	w.progress(80, "processing lists")
	for _, l := range lists {
		ok, err := w.expandList(l)
		if err != nil {
			return fmt.Errorf("list %q: %w", l.Keyword, err)
		}
		if ok {
			w.report.ListsWritten++
		} else {
			w.report.ListsSkipped++
		}
	}
	return nil
}

func (w *writer) expandList(l List) (bool, error) {
	if len(l.Data) == 0 {
		w.log.Debug("list skipped: no data", "keyword", l.Keyword)
		return false, nil
	}
	m, ok := Locate(w.doc, l.Keyword)
	if !ok {
		w.log.Debug("list skipped: anchor not found", "keyword", l.Keyword)
		return false, nil
	}
	s, err := w.classify(m, l)
	if err != nil {
		return false, err
	}
	w.log.Debug("list located",
		"keyword", l.Keyword,
		"table", m.Loc.Table,
		"row", s.row,
		"sidebar", s.sidebar,
		"mapped_headers", len(s.headers),
		"cursor", s.cursor,
		"end", s.end)

	for _, record := range l.Data {
		if s.cursor > s.end {
			if err := w.grow(s); err != nil {
				return false, err
			}
		}
		if s.cursor >= s.t.NumRows() {
			break
		}
		if err := w.writeRecord(s, record); err != nil {
			return false, err
		}
		s.cursor++
	}
	return true, nil
}

// classify decides the layout, the header mapping and the first data row.
//
// In normal layout the section ends at the first data row or, when fully
// blank rows follow it, at the last of them. Blank rows are filled before
// any row is inserted, so a blank separator row above the next section is
// used as a data row.
func (w *writer) classify(m Match, l List) (*section, error) {
	t := m.Table
	start, end := grid.MergeRange(t, m.Loc.Row, m.Loc.Col)
	s := &section{t: t, row: m.Loc.Row, col: m.Loc.Col, sidebar: end > start, end: end}

	s.headers = mapHeaders(t, s.row, l.Headers)
	dataStart := s.row
	if next := s.row + 1; len(s.headers) == 0 && next < t.NumRows() {
		if mapped := mapHeaders(t, next, l.Headers); len(mapped) > 0 {
			s.headers = mapped
			dataStart = next
		} else if !s.sidebar {
			isHeader, err := w.rule.Match(grid.RowText(t, next), grid.RowTexts(t, next))
			if err != nil {
				return nil, err
			}
			if isHeader {
				dataStart = next
			}
		}
	}
	s.cursor = dataStart + 1

	if s.sidebar && len(s.headers) == 0 && grid.FilledCells(t, s.row) <= 1 {
		// The label's own row is the first data row of an unheaded side bar.
		s.cursor = s.row
	}
	if !s.sidebar && s.cursor < t.NumRows() {
		s.end = max(s.end, s.cursor)
		for s.end+1 < t.NumRows() && grid.FilledCells(t, s.end+1) == 0 {
			s.end++
		}
	}
	return s, nil
}

// grow inserts a row for the record at the cursor, cloned from the last
// section row in side-bar layout and from the row above the cursor
// otherwise.
func (w *writer) grow(s *section) error {
	t := s.t
	tmpl := s.end
	if !s.sidebar && s.cursor > 0 {
		tmpl = s.cursor - 1
	}
	tmpl = min(tmpl, t.NumRows()-1)
	if err := t.InsertRowAfter(tmpl); err != nil {
		return err
	}
	row := tmpl + 1
	w.report.RowsInserted++

	label := grid.NoCell
	if s.sidebar {
		label = t.CellID(row, s.col)
	}
	seen := make(map[grid.CellID]bool)
	for c := 0; c < t.NumCols(row); c++ {
		id := t.CellID(row, c)
		if id == grid.NoCell || seen[id] || id == label || grid.IsContinuation(t, row, c) {
			continue
		}
		seen[id] = true
		if err := t.Clear(id); err != nil {
			return err
		}
	}
	if s.sidebar {
		if err := t.MarkContinuation(row, s.col); err != nil {
			return err
		}
	}
	s.end++
	return nil
}

func (w *writer) writeRecord(s *section, record []string) error {
	t, row := s.t, s.cursor
	if len(s.headers) > 0 {
		for _, h := range s.headers {
			id := t.CellID(row, h.col)
			if h.index >= len(record) || id == grid.NoCell {
				continue
			}
			if err := w.writeValue(t, id, record[h.index]); err != nil {
				return err
			}
		}
		return nil
	}

	col := 0
	if s.sidebar {
		col = s.col + 1
	}
	for k := 0; col < t.NumCols(row) && k < len(record); col++ {
		id := t.CellID(row, col)
		if id == grid.NoCell || (col > 0 && id == t.CellID(row, col-1)) {
			continue
		}
		if err := w.writeValue(t, id, record[k]); err != nil {
			return err
		}
		k++
	}
	return nil
}

func (w *writer) writeValue(t grid.Table, id grid.CellID, val string) error {
	return t.Write(id, val, autoAlign(val, w.cfg.Thresholds.CenterAlign))
}

// mapHeaders finds, for each non-empty header, the last column of row whose
// text contains it.
func mapHeaders(t grid.Table, row int, headers []string) []headerCol {
	cols := make([]int, len(headers))
	for i := range cols {
		cols[i] = -1
	}
	for c := 0; c < t.NumCols(row); c++ {
		text := textmatch.StripSpace(t.Text(t.CellID(row, c)))
		for i, h := range headers {
			if h != "" && strings.Contains(text, h) {
				cols[i] = c
			}
		}
	}
	var out []headerCol
	for i, c := range cols {
		if c >= 0 {
			out = append(out, headerCol{index: i, col: c})
		}
	}
	return out
}
