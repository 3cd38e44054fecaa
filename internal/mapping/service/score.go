package service

import (
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"sheetops/internal/mapping/model"
)

// Score is the similarity of two key tuples in [0,100], computed over their
// textual form.
func Score(a, b model.KeyTuple) float64 {
	return ratio(keyText(a, model.Options{}), keyText(b, model.Options{}))
}

// ratio is 100 * (1 - lev(a,b) / max(len(a), len(b))) over runes.
func ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	m := utf8.RuneCountInString(a)
	if mb := utf8.RuneCountInString(b); mb > m {
		m = mb
	}
	d := fuzzy.LevenshteinDistance(a, b)
	s := 100 * (1 - float64(d)/float64(m))
	switch {
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}
