package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/docfill/grid"
)

// Sheet is one worksheet viewed as a grid. Cell ids are keyed by cell name,
// so they are rebuilt after every row insertion.
type Sheet struct {
	wb    *Workbook
	name  string
	arena grid.Arena
}

// mergeRect is a merged range in 0-based inclusive coordinates.
type mergeRect struct {
	r0, c0, r1, c1 int
}

func (m mergeRect) contains(row, col int) bool {
	return row >= m.r0 && row <= m.r1 && col >= m.c0 && col <= m.c1
}

func cellName(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return name
}

// Name returns the worksheet name.
func (s *Sheet) Name() string { return s.name }

func (s *Sheet) merges() ([]mergeRect, error) {
	cells, err := s.wb.file.GetMergeCells(s.name)
	if err != nil {
		return nil, fmt.Errorf("get merged cells: %w", err)
	}
	rects := make([]mergeRect, 0, len(cells))
	for _, mc := range cells {
		c0, r0, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, fmt.Errorf("merge start %q: %w", mc.GetStartAxis(), err)
		}
		c1, r1, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("merge end %q: %w", mc.GetEndAxis(), err)
		}
		rects = append(rects, mergeRect{r0: r0 - 1, c0: c0 - 1, r1: r1 - 1, c1: c1 - 1})
	}
	return rects, nil
}

// extent returns the used size of the sheet: the widest and longest of the
// cell values, the stored dimension (which covers cells carrying only a
// style) and the merged ranges. When the rightmost column holds text, one
// blank column is added so a label there still has a value cell beside it.
func (s *Sheet) extent(rects []mergeRect) (nrows, ncols int, err error) {
	rows, err := s.wb.file.GetRows(s.name)
	if err != nil {
		return 0, 0, fmt.Errorf("get rows: %w", err)
	}
	nrows = len(rows)
	textCols := 0
	for _, row := range rows {
		textCols = max(textCols, len(row))
	}
	ncols = textCols

	dim, err := s.wb.file.GetSheetDimension(s.name)
	if err != nil {
		return 0, 0, fmt.Errorf("get dimension: %w", err)
	}
	if dim != "" {
		ref := dim[strings.LastIndex(dim, ":")+1:]
		if col, row, err := excelize.CellNameToCoordinates(ref); err == nil {
			ncols = max(ncols, col)
			nrows = max(nrows, row)
		}
	}
	for _, m := range rects {
		nrows = max(nrows, m.r1+1)
		ncols = max(ncols, m.c1+1)
	}
	if textCols > 0 && textCols == ncols {
		ncols++
	}
	return nrows, ncols, nil
}

// resolve describes the sheet as slots: a merged range becomes a spanned
// slot in its first row and continuation slots below.
func (s *Sheet) resolve() error {
	rects, err := s.merges()
	if err != nil {
		return err
	}
	nrows, ncols, err := s.extent(rects)
	if err != nil {
		return err
	}

	layout := make([][]grid.Slot, nrows)
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; {
			if m, ok := findRect(rects, r, c); ok {
				width := m.c1 - c + 1
				layout[r] = append(layout[r], grid.Slot{
					Key:      cellName(r, c),
					Span:     width,
					Continue: r > m.r0,
				})
				c += width
				continue
			}
			layout[r] = append(layout[r], grid.Slot{Key: cellName(r, c), Span: 1})
			c++
		}
	}
	s.arena.Reset()
	s.arena.Resolve(layout)
	return nil
}

func findRect(rects []mergeRect, row, col int) (mergeRect, bool) {
	for _, m := range rects {
		if m.contains(row, col) {
			return m, true
		}
	}
	return mergeRect{}, false
}

func (s *Sheet) cell(id grid.CellID) (string, error) {
	name, ok := s.arena.Key(id).(string)
	if !ok {
		return "", fmt.Errorf("unknown cell id %d", id)
	}
	return name, nil
}

func (s *Sheet) NumRows() int                    { return s.arena.NumRows() }
func (s *Sheet) NumCols(row int) int             { return s.arena.NumCols(row) }
func (s *Sheet) CellID(row, col int) grid.CellID { return s.arena.At(row, col) }

func (s *Sheet) Text(id grid.CellID) string {
	name, err := s.cell(id)
	if err != nil {
		return ""
	}
	v, err := s.wb.file.GetCellValue(s.name, name)
	if err != nil {
		return ""
	}
	return v
}

func (s *Sheet) setString(id grid.CellID, text string) (string, error) {
	name, err := s.cell(id)
	if err != nil {
		return "", err
	}
	if err := s.wb.file.SetCellStr(s.name, name, text); err != nil {
		return "", fmt.Errorf("set %s!%s: %w", s.name, name, err)
	}
	return name, nil
}

func (s *Sheet) align(name string, align grid.Align) error {
	base, err := s.wb.file.GetCellStyle(s.name, name)
	if err != nil {
		return fmt.Errorf("get style %s!%s: %w", s.name, name, err)
	}
	style, err := s.wb.alignedStyle(base, align)
	if err != nil {
		return err
	}
	return s.wb.file.SetCellStyle(s.name, name, name, style)
}

func (s *Sheet) Write(id grid.CellID, text string, align grid.Align) error {
	name, err := s.setString(id, text)
	if err != nil {
		return err
	}
	return s.align(name, align)
}

func (s *Sheet) Append(id grid.CellID, text string, align grid.Align) error {
	if cur := s.Text(id); cur != "" {
		text = cur + "\n" + text
	}
	return s.Write(id, text, align)
}

func (s *Sheet) SetText(id grid.CellID, text string) error {
	_, err := s.setString(id, text)
	return err
}

func (s *Sheet) Clear(id grid.CellID) error {
	_, err := s.setString(id, "")
	return err
}

// InsertRowAfter duplicates row, values, styles and single-row merges, into
// the position below it.
func (s *Sheet) InsertRowAfter(row int) error {
	if row < 0 || row >= s.NumRows() {
		return fmt.Errorf("insert after row %d: out of range (rows=%d)", row, s.NumRows())
	}
	if err := s.wb.file.DuplicateRowTo(s.name, row+1, row+2); err != nil {
		return fmt.Errorf("duplicate row %d: %w", row+1, err)
	}
	return s.resolve()
}

// MarkContinuation extends the merged range above (row, col), or the single
// cell above it, down to row.
func (s *Sheet) MarkContinuation(row, col int) error {
	if row < 1 || row >= s.NumRows() || col < 0 || col >= s.NumCols(row) {
		return fmt.Errorf("mark continuation at row %d col %d: out of range", row, col)
	}
	rects, err := s.merges()
	if err != nil {
		return err
	}
	above, merged := findRect(rects, row-1, col)
	if !merged {
		above = mergeRect{r0: row - 1, c0: col, r1: row - 1, c1: col}
	}
	if above.r1 >= row {
		return nil
	}
	if own, ok := findRect(rects, row, col); ok {
		if err := s.wb.file.UnmergeCell(s.name, cellName(own.r0, own.c0), cellName(own.r1, own.c1)); err != nil {
			return fmt.Errorf("unmerge %s: %w", cellName(own.r0, own.c0), err)
		}
	}
	if merged {
		if err := s.wb.file.UnmergeCell(s.name, cellName(above.r0, above.c0), cellName(above.r1, above.c1)); err != nil {
			return fmt.Errorf("unmerge %s: %w", cellName(above.r0, above.c0), err)
		}
	}
	if err := s.wb.file.MergeCell(s.name, cellName(above.r0, above.c0), cellName(row, above.c1)); err != nil {
		return fmt.Errorf("merge %s:%s: %w", cellName(above.r0, above.c0), cellName(row, above.c1), err)
	}
	return s.resolve()
}
