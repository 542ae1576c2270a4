// Package textmatch scores how well an anchor label matches the text of a
// template cell.
package textmatch

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
)

// StripSpace removes every whitespace rune, including newlines and the
// ideographic space.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Normalize strips whitespace and case-folds s.
func Normalize(s string) string {
	return cases.Fold().String(StripSpace(s))
}

// Score returns a similarity in [0, 1] between anchor and text after
// normalization. Equality and containment of anchor in text score 1.
// Otherwise the result is the sequence-matcher ratio 2*M/T, where M is the
// number of matched runes and T the total rune count of both strings.
// Either side empty after normalization scores 0.
func Score(anchor, text string) float64 {
	a, t := Normalize(anchor), Normalize(text)
	if a == "" || t == "" {
		return 0
	}
	if a == t || strings.Contains(t, a) {
		return 1
	}
	return Ratio(a, t)
}

// Ratio is the sequence-matcher similarity of a and b compared rune by rune.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
