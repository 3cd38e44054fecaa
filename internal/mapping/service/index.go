package service

import (
	"sheetops/internal/mapping/model"
)

// index holds the catalogue key texts in candidate order plus an exact-text
// lookup. An exact hit scores 100, which no other candidate can beat, so the
// first exact occurrence is always the answer the full scan would give.
type index struct {
	texts  []string
	byText map[string]int
}

func buildIndex(candidates []model.KeyTuple, opt model.Options) *index {
	idx := &index{
		texts:  make([]string, len(candidates)),
		byText: make(map[string]int, len(candidates)),
	}
	for i, c := range candidates {
		t := keyText(c, opt)
		idx.texts[i] = t
		if _, seen := idx.byText[t]; !seen {
			idx.byText[t] = i
		}
	}
	return idx
}

// best returns the index and score of the highest scoring candidate for
// query, earliest index on ties, or -1 when there are no candidates.
func (idx *index) best(query string) (int, float64) {
	if i, ok := idx.byText[query]; ok {
		return i, 100
	}
	bestIdx, bestScore := -1, -1.0
	for i, t := range idx.texts {
		if s := ratio(query, t); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return bestIdx, bestScore
}
