package docfill

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/javajack/docfill/grid"
	"github.com/javajack/docfill/textmatch"
)

func (w *writer) writeKV(entries []KV) error {
	usage := make(map[string]map[cellKey]bool)
	for i, e := range entries {
		if e.Val == "" {
			continue
		}
		w.progress(10+i*30/len(entries), fmt.Sprintf("writing %s", e.Anchor))

		used := usage[e.Anchor]
		if used == nil {
			used = make(map[cellKey]bool)
			usage[e.Anchor] = used
		}
		ok, err := w.writeKVEntry(e, used)
		if err != nil {
			return fmt.Errorf("kv %q: %w", e.Anchor, err)
		}
		if ok {
			w.report.KVWritten++
		} else {
			w.report.KVSkipped++
			w.log.Debug("kv skipped: no writable cell", "anchor", e.Anchor)
		}
	}
	return nil
}

// writeKVEntry writes one value next to the first cell matching its anchor.
// used holds the cells already matched or written for this anchor; they are
// never picked again.
func (w *writer) writeKVEntry(e KV, used map[cellKey]bool) (bool, error) {
	anchor := textmatch.StripSpace(e.Anchor)
	if anchor == "" {
		return false, nil
	}
	th := w.cfg.Thresholds
	short := utf8.RuneCountInString(anchor) <= th.ShortAnchor

	for ti, t := range w.doc.Tables() {
		for r := 0; r < t.NumRows(); r++ {
			for c := 0; c < t.NumCols(r); c++ {
				id := t.CellID(r, c)
				text := textmatch.StripSpace(t.Text(id))
				if text == "" {
					continue
				}
				strict := strings.Contains(text, anchor) || strings.Contains(anchor, text)
				if short && !strict {
					continue
				}
				if !strict && textmatch.Score(anchor, text) <= th.KV {
					continue
				}
				matched := cellKey{ti, id}
				if used[matched] {
					continue
				}

				target, ok := grid.NextWritable(t, r, c)
				if !ok {
					target = id
				}
				if used[cellKey{ti, target}] {
					continue
				}
				if w.isHeaderLabel(t.Text(target)) {
					w.log.Debug("kv target is a header label", "anchor", e.Anchor, "table", ti, "row", r, "col", c)
					continue
				}

				var err error
				if target == id {
					err = t.Append(id, e.Val, grid.AlignLeft)
				} else {
					err = t.Write(target, e.Val, autoAlign(e.Val, th.CenterAlign))
				}
				if err != nil {
					return false, err
				}
				used[matched] = true
				used[cellKey{ti, target}] = true
				return true, nil
			}
		}
	}
	return false, nil
}

// isHeaderLabel reports short text holding a colon, such as "学号：".
func (w *writer) isHeaderLabel(text string) bool {
	return utf8.RuneCountInString(text) < w.cfg.Thresholds.HeaderLabel &&
		strings.ContainsAny(text, ":：")
}

// autoAlign centers short single-line values.
func autoAlign(val string, limit int) grid.Align {
	if utf8.RuneCountInString(val) < limit && !strings.Contains(val, "\n") {
		return grid.AlignCenter
	}
	return grid.AlignLeft
}
