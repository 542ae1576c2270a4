package docfill

import (
	"fmt"
	"slices"
	"strings"

	"github.com/javajack/docfill/grid"
)

// Polarity is the class of a checkbox status.
type Polarity int

const (
	PolarityUnknown Polarity = iota
	PolarityAffirmative
	PolarityNegative
)

// Polarity classifies a checkbox status by the configured synonyms.
func (c CheckboxConfig) Polarity(status string) Polarity {
	status = strings.TrimSpace(status)
	switch {
	case slices.Contains(c.Affirmative, status):
		return PolarityAffirmative
	case slices.Contains(c.Negative, status):
		return PolarityNegative
	}
	return PolarityUnknown
}

// qualified returns the glyphs qualified by each label, with and without a
// separating space: "有□" and "有 □".
func (c CheckboxConfig) qualified(labels []string) []string {
	var keys []string
	for _, l := range labels {
		if l == "" {
			continue
		}
		keys = append(keys, l+c.Unchecked, l+" "+c.Unchecked)
	}
	return keys
}

// Resolve returns text with the glyphs qualified by status checked.
//
// Every qualified glyph of the status class is checked, except occurrences
// that are part of a longer glyph of the other class ("通过□" inside
// "未通过□"). When none is present and the text holds no qualified glyph of
// either class, an affirmative status checks the first bare glyph. Negative
// statuses never check a bare glyph.
func (c CheckboxConfig) Resolve(text, status string) (string, bool) {
	var own, other []string
	switch c.Polarity(status) {
	case PolarityAffirmative:
		own, other = c.Affirmative, c.Negative
	case PolarityNegative:
		own, other = c.Negative, c.Affirmative
	default:
		return text, false
	}
	ownKeys, otherKeys := c.qualified(own), c.qualified(other)

	out := text
	replaced := false
	for _, k := range ownKeys {
		var longer []string
		for _, o := range otherKeys {
			if len(o) > len(k) && strings.Contains(o, k) {
				longer = append(longer, o)
			}
		}
		next, n := replaceUnblocked(out, k, c.check(k), longer)
		out = next
		replaced = replaced || n > 0
	}

	if !replaced && c.Polarity(status) == PolarityAffirmative && !containsAny(text, ownKeys, otherKeys) {
		out = strings.Replace(text, c.Unchecked, c.Checked, 1)
	}
	return out, out != text
}

func (c CheckboxConfig) check(key string) string {
	return strings.TrimSuffix(key, c.Unchecked) + c.Checked
}

// replaceUnblocked replaces every occurrence of old in s that does not lie
// inside an occurrence of one of the blocking strings.
func replaceUnblocked(s, old, repl string, blocking []string) (string, int) {
	type span struct{ start, end int }
	var blocked []span
	for _, b := range blocking {
		for off := 0; ; {
			i := strings.Index(s[off:], b)
			if i < 0 {
				break
			}
			blocked = append(blocked, span{off + i, off + i + len(b)})
			off += i + 1
		}
	}

	var sb strings.Builder
	n, last := 0, 0
	for off := 0; ; {
		i := strings.Index(s[off:], old)
		if i < 0 {
			break
		}
		start, end := off+i, off+i+len(old)
		inside := false
		for _, sp := range blocked {
			if start >= sp.start && end <= sp.end {
				inside = true
				break
			}
		}
		if !inside {
			sb.WriteString(s[last:start])
			sb.WriteString(repl)
			last = end
			n++
		}
		off = end
	}
	if n == 0 {
		return s, 0
	}
	sb.WriteString(s[last:])
	return sb.String(), n
}

func containsAny(s string, sets ...[]string) bool {
	for _, set := range sets {
		for _, k := range set {
			if strings.Contains(s, k) {
				return true
			}
		}
	}
	return false
}

func (w *writer) writeCheckboxes(entries []Checkbox) error {
	w.progress(60, "processing checkboxes")
	for _, e := range entries {
		if e.Keyword == "" {
			continue
		}
		if w.cfg.Checkbox.Polarity(e.Status) == PolarityUnknown {
			w.log.Debug("checkbox skipped: unknown status", "keyword", e.Keyword, "status", e.Status)
			continue
		}
		for ti, t := range w.doc.Tables() {
			seen := make(map[grid.CellID]bool)
			for r := 0; r < t.NumRows(); r++ {
				for _, id := range grid.RowIDs(t, r) {
					if seen[id] {
						continue
					}
					seen[id] = true
					text := t.Text(id)
					if !strings.Contains(text, e.Keyword) {
						continue
					}
					next, changed := w.cfg.Checkbox.Resolve(text, e.Status)
					if !changed {
						continue
					}
					if err := t.SetText(id, next); err != nil {
						return fmt.Errorf("checkbox %q in table %d row %d: %w", e.Keyword, ti, r, err)
					}
					w.report.CheckboxesChanged++
				}
			}
		}
	}
	return nil
}
