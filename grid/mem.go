package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Paragraph is a line of cell content held by a MemTable.
type Paragraph struct {
	Text  string
	Align Align
}

type memCell struct {
	paras []Paragraph
}

type memSlot struct {
	cell *memCell
	span int
	cont bool
}

// CellSpec describes one physical cell when building a MemTable.
type CellSpec struct {
	Text     string
	Span     int
	Continue bool
}

// C is a single-column cell holding text.
func C(text string) CellSpec { return CellSpec{Text: text, Span: 1} }

// Span is a cell holding text that covers n grid columns.
func Span(text string, n int) CellSpec { return CellSpec{Text: text, Span: n} }

// Cont continues the vertical merge of the cell above.
func Cont() CellSpec { return CellSpec{Span: 1, Continue: true} }

// ContSpan continues a vertical merge whose cell covers n grid columns.
func ContSpan(n int) CellSpec { return CellSpec{Span: n, Continue: true} }

// MemTable is an in-memory Table laid out the way word processors store
// tables: physical cells with column spans and vertical-merge continuation
// flags.
type MemTable struct {
	slots [][]memSlot
	arena Arena
}

// NewMemTable builds a table from rows of cell specs.
func NewMemTable(rows ...[]CellSpec) *MemTable {
	t := &MemTable{}
	for _, row := range rows {
		slots := make([]memSlot, 0, len(row))
		for _, def := range row {
			cell := &memCell{}
			if def.Text != "" {
				for _, line := range strings.Split(def.Text, "\n") {
					cell.paras = append(cell.paras, Paragraph{Text: line})
				}
			}
			span := def.Span
			if span < 1 {
				span = 1
			}
			slots = append(slots, memSlot{cell: cell, span: span, cont: def.Continue})
		}
		t.slots = append(t.slots, slots)
	}
	t.resolve()
	return t
}

// Row is a readability helper for NewMemTable.
func Row(cells ...CellSpec) []CellSpec { return cells }

func (t *MemTable) resolve() {
	layout := make([][]Slot, len(t.slots))
	for r, row := range t.slots {
		layout[r] = make([]Slot, len(row))
		for i, s := range row {
			layout[r][i] = Slot{Key: s.cell, Span: s.span, Continue: s.cont}
		}
	}
	t.arena.Resolve(layout)
}

func (t *MemTable) cell(id CellID) (*memCell, error) {
	c, ok := t.arena.Key(id).(*memCell)
	if !ok {
		return nil, fmt.Errorf("unknown cell id %d", id)
	}
	return c, nil
}

func (t *MemTable) NumRows() int               { return t.arena.NumRows() }
func (t *MemTable) NumCols(row int) int        { return t.arena.NumCols(row) }
func (t *MemTable) CellID(row, col int) CellID { return t.arena.At(row, col) }

func (t *MemTable) Text(id CellID) string {
	c, err := t.cell(id)
	if err != nil {
		return ""
	}
	lines := make([]string, len(c.paras))
	for i, p := range c.paras {
		lines[i] = p.Text
	}
	return strings.Join(lines, "\n")
}

// Paragraphs returns a copy of the cell's paragraphs.
func (t *MemTable) Paragraphs(id CellID) []Paragraph {
	c, err := t.cell(id)
	if err != nil {
		return nil
	}
	return append([]Paragraph(nil), c.paras...)
}

func (t *MemTable) Write(id CellID, text string, align Align) error {
	c, err := t.cell(id)
	if err != nil {
		return err
	}
	c.paras = []Paragraph{{Text: text, Align: align}}
	return nil
}

func (t *MemTable) Append(id CellID, text string, align Align) error {
	c, err := t.cell(id)
	if err != nil {
		return err
	}
	c.paras = append(c.paras, Paragraph{Text: text, Align: align})
	return nil
}

func (t *MemTable) SetText(id CellID, text string) error {
	c, err := t.cell(id)
	if err != nil {
		return err
	}
	align := AlignLeft
	if len(c.paras) > 0 {
		align = c.paras[0].Align
	}
	c.paras = []Paragraph{{Text: text, Align: align}}
	return nil
}

func (t *MemTable) Clear(id CellID) error {
	c, err := t.cell(id)
	if err != nil {
		return err
	}
	c.paras = nil
	return nil
}

// InsertRowAfter copies every physical cell of row, content and merge flags
// included, into a new row directly below it.
func (t *MemTable) InsertRowAfter(row int) error {
	if row < 0 || row >= len(t.slots) {
		return fmt.Errorf("insert after row %d: out of range (rows=%d)", row, len(t.slots))
	}
	src := t.slots[row]
	clone := make([]memSlot, len(src))
	for i, s := range src {
		clone[i] = memSlot{
			cell: &memCell{paras: append([]Paragraph(nil), s.cell.paras...)},
			span: s.span,
			cont: s.cont,
		}
	}
	t.slots = append(t.slots, nil)
	copy(t.slots[row+2:], t.slots[row+1:])
	t.slots[row+1] = clone
	t.resolve()
	return nil
}

func (t *MemTable) MarkContinuation(row, col int) error {
	if row < 0 || row >= len(t.slots) {
		return fmt.Errorf("mark continuation at row %d: out of range", row)
	}
	start := 0
	for i := range t.slots[row] {
		s := &t.slots[row][i]
		if col >= start && col < start+s.span {
			s.cont = true
			t.resolve()
			return nil
		}
		start += s.span
	}
	return fmt.Errorf("mark continuation at row %d col %d: out of range", row, col)
}

// MemDocument is an in-memory Document.
type MemDocument struct {
	Body   []string
	tables []*MemTable
}

// NewMemDocument returns a document holding tables in order.
func NewMemDocument(tables ...*MemTable) *MemDocument {
	return &MemDocument{tables: tables}
}

func (d *MemDocument) Tables() []Table {
	out := make([]Table, len(d.tables))
	for i, t := range d.tables {
		out[i] = t
	}
	return out
}

func (d *MemDocument) Paragraphs() []string { return d.Body }

// Write encodes the body paragraphs and the text grid of every table as JSON.
func (d *MemDocument) Write(w io.Writer) error {
	snapshot := struct {
		Body   []string     `json:"body,omitempty"`
		Tables [][][]string `json:"tables"`
	}{Body: d.Body}
	for _, t := range d.tables {
		snapshot.Tables = append(snapshot.Tables, Texts(t))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}

func (d *MemDocument) Close() error { return nil }
