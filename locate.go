package docfill

import (
	"strings"

	"github.com/javajack/docfill/grid"
	"github.com/javajack/docfill/textmatch"
)

// Match is a located anchor cell.
type Match struct {
	Loc   grid.Location
	Table grid.Table
	ID    grid.CellID
	Score float64
}

// NotFound is the zero result of Locate and LocateFuzzy.
var NotFound = Match{Loc: grid.Location{Table: -1, Row: -1, Col: -1}, ID: grid.NoCell}

// Locate returns the first cell, in document order, whose text contains
// keyword verbatim.
func Locate(doc grid.Document, keyword string) (Match, bool) {
	if keyword == "" {
		return NotFound, false
	}
	found := NotFound
	ok := false
	grid.Walk(doc, func(loc grid.Location, t grid.Table, id grid.CellID) bool {
		if strings.Contains(t.Text(id), keyword) {
			found = Match{Loc: loc, Table: t, ID: id, Score: 1}
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// LocateFuzzy scores every cell against keyword and returns the best one if
// its score reaches threshold. Ties go to the earliest cell.
func LocateFuzzy(doc grid.Document, keyword string, threshold float64) (Match, bool) {
	if keyword == "" {
		return NotFound, false
	}
	best := NotFound
	best.Score = 0
	grid.Walk(doc, func(loc grid.Location, t grid.Table, id grid.CellID) bool {
		if s := textmatch.Score(keyword, t.Text(id)); s > best.Score {
			best = Match{Loc: loc, Table: t, ID: id, Score: s}
		}
		return true
	})
	if best.Table == nil || best.Score < threshold {
		return NotFound, false
	}
	return best, true
}

// LocateAny tries Locate first and falls back to LocateFuzzy.
func LocateAny(doc grid.Document, keyword string, threshold float64) (Match, bool) {
	if m, ok := Locate(doc, keyword); ok {
		return m, true
	}
	return LocateFuzzy(doc, keyword, threshold)
}
