// Package service maps portal rows onto a catalogue by exact join or by
// fuzzy key matching.
package service

import (
	"fmt"

	"sheetops/internal/apperr"
	"sheetops/internal/mapping/model"
	"sheetops/internal/table"
)

// Run validates both inputs and maps portal onto catalogue with opt.Method.
// Neither input is modified.
func Run(portal, catalogue *table.Dataset, opt model.Options) (*table.Dataset, model.Summary, error) {
	if err := checkRequired(portal, catalogue); err != nil {
		return nil, model.Summary{}, err
	}

	switch opt.Method {
	case model.MethodRuleBased, "":
		out, err := Join(portal, catalogue, model.KeyColumns)
		if err != nil {
			return nil, model.Summary{}, err
		}
		return out, joinSummary(portal, catalogue), nil

	case model.MethodFuzzy:
		if opt.Threshold < 0 || opt.Threshold > 100 {
			return nil, model.Summary{}, apperr.InvalidInput(fmt.Sprintf("threshold %v outside [0,100]", opt.Threshold), nil)
		}
		results := Match(KeyTuples(portal), KeyTuples(catalogue), opt.Threshold, opt)
		out := AttachMatches(portal, results)
		sum := model.Summary{Method: model.MethodFuzzy, Threshold: opt.Threshold, Rows: portal.Len()}
		for _, r := range results {
			if r.Best != nil {
				sum.Matched++
			}
		}
		sum.Unmatched = sum.Rows - sum.Matched
		return out, sum, nil

	default:
		return nil, model.Summary{}, apperr.InvalidInput(fmt.Sprintf("unknown mapping method %q", opt.Method), nil)
	}
}

func checkRequired(portal, catalogue *table.Dataset) error {
	var missing []string
	for _, ds := range []*table.Dataset{portal, catalogue} {
		for _, c := range ds.Missing(model.KeyColumns...) {
			if !contains(missing, c) {
				missing = append(missing, c)
			}
		}
	}
	if len(missing) > 0 {
		return apperr.PreconditionFailed(
			"both files must contain 'ASIN', 'New EAN', and 'VENDOR 8 DIGIT' columns", missing...)
	}
	return nil
}

// KeyTuples extracts the key tuple of every row. Missing key columns read as
// null.
func KeyTuples(ds *table.Dataset) []model.KeyTuple {
	out := make([]model.KeyTuple, ds.Len())
	for i := range out {
		r := ds.Row(i)
		out[i].ASIN, _ = r.Get(model.ColASIN)
		out[i].NewEAN, _ = r.Get(model.ColNewEAN)
		out[i].Vendor, _ = r.Get(model.ColVendor)
	}
	return out
}

// AttachMatches returns a copy of ds with the Matched key columns set from
// results (null where there was no match). Existing Matched columns are
// overwritten.
func AttachMatches(ds *table.Dataset, results []model.MatchResult) *table.Dataset {
	out := ds.Clone()
	best := make([]*model.MatchCandidate, ds.Len())
	for _, r := range results {
		if r.Source >= 0 && r.Source < len(best) {
			best[r.Source] = r.Best
		}
	}
	for f, col := range model.MatchedColumns {
		out.SetColumn(col, func(i int) table.Value {
			if best[i] == nil {
				return table.Null()
			}
			return best[i].Key.Values()[f]
		})
	}
	return out
}

func joinSummary(portal, catalogue *table.Dataset) model.Summary {
	keys := make(map[string]bool, catalogue.Len())
	for i := 0; i < catalogue.Len(); i++ {
		keys[rowKey(catalogue.Row(i), model.KeyColumns)] = true
	}
	sum := model.Summary{Method: model.MethodRuleBased, Rows: portal.Len()}
	for i := 0; i < portal.Len(); i++ {
		if keys[rowKey(portal.Row(i), model.KeyColumns)] {
			sum.Matched++
		}
	}
	sum.Unmatched = sum.Rows - sum.Matched
	return sum
}
