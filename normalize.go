package docfill

import (
	"strings"

	"github.com/javajack/docfill/grid"
)

// tableShape holds the structural signals read around a list anchor.
type tableShape struct {
	filled       int // filled cells in the anchor row
	nextDistinct int
	nextFilled   int
	headerHits   int
	distinctCols int // widest sampled row
	dataWidth    int
	vMerged      bool
}

func (s tableShape) looksLikeTable(headers int) bool {
	table := s.distinctCols >= 3 ||
		s.nextDistinct >= 3 ||
		(s.headerHits >= 2 && s.distinctCols >= max(2, headers)) ||
		(s.filled >= 2 && s.nextFilled >= 2 && s.distinctCols >= 2)
	if s.dataWidth <= 1 && s.distinctCols <= 2 {
		return false
	}
	if s.vMerged && s.distinctCols <= 2 && s.headerHits == 0 {
		return false
	}
	return table
}

// NormalizePlan moves lists whose template anchor sits in a narrow,
// single-value section into kv entries. doc must be the unfilled template;
// it is only read. The input plan is not modified.
//
// Each list is judged against the template alone, so the result does not
// depend on list order and normalizing twice gives the same plan.
func NormalizePlan(plan Plan, doc grid.Document, cfg *Config) Plan {
	out, _ := normalizePlan(plan, doc, cfg)
	return out
}

// Reclassified returns the keywords of the lists NormalizePlan moves to kv.
func Reclassified(plan Plan, doc grid.Document, cfg *Config) []string {
	_, moved := normalizePlan(plan, doc, cfg)
	return moved
}

func normalizePlan(plan Plan, doc grid.Document, cfg *Config) (Plan, []string) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := plan.Clone()
	if len(out.Lists) == 0 {
		return out, nil
	}

	var lists []List
	var moved []string
	for _, l := range out.Lists {
		m, ok := LocateAny(doc, l.Keyword, cfg.Thresholds.Classify)
		if !ok {
			lists = append(lists, l)
			continue
		}
		shape := measure(m.Table, m.Loc.Row, m.Loc.Col, l, cfg.Thresholds.SampleRows)
		if shape.looksLikeTable(len(l.Headers)) {
			lists = append(lists, l)
			continue
		}
		moved = append(moved, l.Keyword)
		if merged := flattenRows(l.Data); merged != "" {
			out.KV = mergeKV(out.KV, l.Keyword, merged)
		}
	}
	out.Lists = lists
	return out, moved
}

func measure(t grid.Table, row, col int, l List, sampleRows int) tableShape {
	s := tableShape{
		filled:       grid.FilledCells(t, row),
		headerHits:   headerHits(t, row, l.Headers),
		distinctCols: distinctCols(t, sampleRows),
		vMerged:      grid.VerticallyMerged(t, row, col),
	}
	if next := row + 1; next < t.NumRows() {
		s.nextDistinct = grid.DistinctCells(t, next)
		s.nextFilled = grid.FilledCells(t, next)
		s.headerHits = max(s.headerHits, headerHits(t, next, l.Headers))
	}
	for _, r := range l.Data {
		s.dataWidth = max(s.dataWidth, len(r))
	}
	return s
}

func distinctCols(t grid.Table, sampleRows int) int {
	n := 0
	for r := 0; r < t.NumRows() && r < sampleRows; r++ {
		n = max(n, grid.DistinctCells(t, r))
	}
	return n
}

// headerHits counts the non-empty headers found in the row's text.
func headerHits(t grid.Table, row int, headers []string) int {
	text := grid.RowText(t, row)
	n := 0
	for _, h := range headers {
		if h != "" && strings.Contains(text, h) {
			n++
		}
	}
	return n
}

// flattenRows joins the non-empty values of each row with spaces and the
// rows with newlines.
func flattenRows(data [][]string) string {
	var lines []string
	for _, row := range data {
		var vals []string
		for _, v := range row {
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		if line := strings.Join(vals, " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func mergeKV(kv []KV, anchor, val string) []KV {
	for i := range kv {
		if kv[i].Anchor != anchor {
			continue
		}
		if kv[i].Val == "" {
			kv[i].Val = val
		} else {
			kv[i].Val += "\n" + val
		}
		return kv
	}
	return append(kv, KV{Anchor: anchor, Val: val})
}
