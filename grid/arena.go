package grid

// Slot is one physical cell as stored by a document format. It covers Span
// grid columns and, when Continue is set, continues the vertical merge of
// whatever cell sits above it in the same grid column. A slot with a nil Key
// is a hole in the grid (w:gridBefore, w:gridAfter) and resolves to NoCell.
type Slot struct {
	Key      any // backend identity of the physical cell, nil for a hole
	Span     int
	Continue bool
}

// Arena owns the unique cell records of one table and the merge map from
// grid positions to their ids. Backends describe their rows as Slots and let
// the arena resolve identities, so every format shares the same merge rules.
type Arena struct {
	ids  map[any]CellID
	keys []any
	rows [][]CellID
}

// Resolve rebuilds the merge map from the physical layout. Keys seen in a
// previous call keep their ids.
//
// A horizontally spanned slot maps every covered column to its own id. A
// continuing slot maps each covered column to the id found at the same
// column of the previous row, falling back to its own id in the first row
// or past the previous row's width.
//
// Rows shorter than the widest row are padded with NoCell, so every row of
// the table has the same number of references.
func (a *Arena) Resolve(slots [][]Slot) {
	if a.ids == nil {
		a.ids = make(map[any]CellID)
	}
	a.rows = make([][]CellID, len(slots))
	width := 0
	for r, row := range slots {
		refs := make([]CellID, 0, len(row))
		for _, s := range row {
			span := s.Span
			if span < 1 {
				span = 1
			}
			for k := 0; k < span; k++ {
				col := len(refs)
				id := NoCell
				if s.Key == nil {
					refs = append(refs, NoCell)
					continue
				}
				if s.Continue && r > 0 && col < len(a.rows[r-1]) {
					id = a.rows[r-1][col]
				}
				if id == NoCell {
					id = a.intern(s.Key)
				}
				refs = append(refs, id)
			}
		}
		a.rows[r] = refs
		width = max(width, len(refs))
	}
	for r, refs := range a.rows {
		for len(refs) < width {
			refs = append(refs, NoCell)
		}
		a.rows[r] = refs
	}
}

// Reset forgets every id. Backends whose physical keys are positional call
// it before Resolve after a structural change.
func (a *Arena) Reset() {
	a.ids = make(map[any]CellID)
	a.keys = nil
	a.rows = nil
}

func (a *Arena) intern(key any) CellID {
	if id, ok := a.ids[key]; ok {
		return id
	}
	id := CellID(len(a.keys))
	a.keys = append(a.keys, key)
	a.ids[key] = id
	return id
}

// NumRows returns the number of resolved rows.
func (a *Arena) NumRows() int { return len(a.rows) }

// NumCols returns the number of references in row.
func (a *Arena) NumCols(row int) int {
	if row < 0 || row >= len(a.rows) {
		return 0
	}
	return len(a.rows[row])
}

// At returns the id at (row, col), or NoCell when out of range.
func (a *Arena) At(row, col int) CellID {
	if row < 0 || row >= len(a.rows) || col < 0 || col >= len(a.rows[row]) {
		return NoCell
	}
	return a.rows[row][col]
}

// Key returns the physical key of id, or nil for an unknown id.
func (a *Arena) Key(id CellID) any {
	if id < 0 || int(id) >= len(a.keys) {
		return nil
	}
	return a.keys[id]
}
