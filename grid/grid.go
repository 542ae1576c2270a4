// Package grid models the tables of an office document as rows of cell
// references. Several references may resolve to the same underlying cell
// record when the document merges cells across rows or columns; the merge map
// makes that identity explicit as a shared CellID.
//
// Phases of the fill engine only depend on the Table and Document
// interfaces, so they can run against the in-memory MemDocument in tests and
// against the docx and xlsx backends in production.
package grid

import "io"

// CellID identifies an underlying cell record within one table. Two grid
// positions are merged iff they map to the same CellID.
type CellID int

// NoCell is returned for positions outside the grid.
const NoCell CellID = -1

// Align is the horizontal alignment of a written paragraph.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

func (a Align) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "left"
}

// Table is a mutable grid of cell references.
//
// CellIDs stay valid across content edits. InsertRowAfter and
// MarkContinuation change the structure and may renumber cells and shift
// row indices below the edited row; callers must re-resolve positions after
// either call.
type Table interface {
	NumRows() int
	NumCols(row int) int
	// CellID returns the id the position resolves to, or NoCell.
	CellID(row, col int) CellID
	// Text returns the cell's paragraphs joined with "\n".
	Text(id CellID) string

	// Write replaces the cell content with a single paragraph.
	Write(id CellID, text string, align Align) error
	// Append adds a paragraph after the existing content.
	Append(id CellID, text string, align Align) error
	// SetText replaces the text while keeping the leading paragraph and
	// run formatting.
	SetText(id CellID, text string) error
	// Clear removes the cell content.
	Clear(id CellID) error

	// InsertRowAfter inserts a copy of row directly below it.
	InsertRowAfter(row int) error
	// MarkContinuation turns the cell at (row, col) into a continuation of
	// the vertical merge above it.
	MarkContinuation(row, col int) error
}

// Document is an ordered set of tables and body paragraphs that can be
// serialized back to its original format.
type Document interface {
	Tables() []Table
	Paragraphs() []string
	Write(w io.Writer) error
	Close() error
}

// Location addresses one grid position inside a document.
type Location struct {
	Table int
	Row   int
	Col   int
}
