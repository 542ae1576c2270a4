package grid

import "strings"

// Walk visits every cell reference of doc in document order (table, row,
// column) until fn returns false. Merged cells are visited once per
// reference; holes in the grid are not visited.
func Walk(doc Document, fn func(loc Location, t Table, id CellID) bool) {
	for ti, t := range doc.Tables() {
		for r := 0; r < t.NumRows(); r++ {
			for c := 0; c < t.NumCols(r); c++ {
				id := t.CellID(r, c)
				if id == NoCell {
					continue
				}
				if !fn(Location{Table: ti, Row: r, Col: c}, t, id) {
					return
				}
			}
		}
	}
}

// RowIDs returns the distinct ids of row in column order.
func RowIDs(t Table, row int) []CellID {
	seen := make(map[CellID]bool)
	var ids []CellID
	for c := 0; c < t.NumCols(row); c++ {
		id := t.CellID(row, c)
		if id == NoCell || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// DistinctCells counts the unique cell records referenced by row.
func DistinctCells(t Table, row int) int {
	return len(RowIDs(t, row))
}

// FilledCells counts the unique cell records of row holding non-blank text.
func FilledCells(t Table, row int) int {
	n := 0
	for _, id := range RowIDs(t, row) {
		if strings.TrimSpace(t.Text(id)) != "" {
			n++
		}
	}
	return n
}

// RowText concatenates the text of every distinct cell of row.
func RowText(t Table, row int) string {
	var b strings.Builder
	for _, id := range RowIDs(t, row) {
		b.WriteString(t.Text(id))
	}
	return b.String()
}

// RowTexts returns the text of every distinct cell of row.
func RowTexts(t Table, row int) []string {
	ids := RowIDs(t, row)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = t.Text(id)
	}
	return out
}

// MergeRange walks down from (row, col) while the rows below alias the same
// cell and returns the first and last row of the vertical merge.
func MergeRange(t Table, row, col int) (start, end int) {
	id := t.CellID(row, col)
	end = row
	for r := row + 1; r < t.NumRows(); r++ {
		if id == NoCell || t.CellID(r, col) != id {
			break
		}
		end = r
	}
	return row, end
}

// VerticallyMerged reports whether (row, col) shares its cell with the row
// below.
func VerticallyMerged(t Table, row, col int) bool {
	if row+1 >= t.NumRows() {
		return false
	}
	id := t.CellID(row, col)
	return id != NoCell && id == t.CellID(row+1, col)
}

// IsContinuation reports whether (row, col) aliases the cell above it.
func IsContinuation(t Table, row, col int) bool {
	if row == 0 {
		return false
	}
	id := t.CellID(row, col)
	return id != NoCell && id == t.CellID(row-1, col)
}

// NextWritable returns the first blank cell after col in row, skipping
// references that alias the cell at col. Filled cells in between are
// stepped over.
func NextWritable(t Table, row, col int) (CellID, bool) {
	current := t.CellID(row, col)
	for c := col + 1; c < t.NumCols(row); c++ {
		id := t.CellID(row, c)
		if id == current || id == NoCell {
			continue
		}
		if strings.TrimSpace(t.Text(id)) == "" {
			return id, true
		}
	}
	return NoCell, false
}

// Texts returns the text grid of t, one entry per reference.
func Texts(t Table) [][]string {
	out := make([][]string, t.NumRows())
	for r := range out {
		out[r] = make([]string, t.NumCols(r))
		for c := range out[r] {
			out[r][c] = t.Text(t.CellID(r, c))
		}
	}
	return out
}
