package service

import (
	"sheetops/internal/apperr"
	"sheetops/internal/table"
)

// Join suffixes for non-key columns present on both sides.
const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
)

// Join left-outer-joins right onto left on keys. Every left row appears once,
// in order; it takes the non-key columns of the first right row whose keys
// are all equal, or nulls when there is none.
func Join(left, right *table.Dataset, keys []string) (*table.Dataset, error) {
	var missing []string
	for _, ds := range []*table.Dataset{left, right} {
		for _, k := range ds.Missing(keys...) {
			if !contains(missing, k) {
				missing = append(missing, k)
			}
		}
	}
	if len(missing) > 0 {
		return nil, apperr.MissingColumns("", missing...)
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}
	var rightCols []string
	for _, c := range right.Columns() {
		if !isKey[c] {
			rightCols = append(rightCols, c)
		}
	}

	leftCols := left.Columns()
	outCols := make([]string, 0, len(leftCols)+len(rightCols))
	for _, c := range leftCols {
		if !isKey[c] && right.HasColumn(c) {
			c += leftSuffix
		}
		outCols = append(outCols, c)
	}
	for _, c := range rightCols {
		if left.HasColumn(c) {
			c += rightSuffix
		}
		outCols = append(outCols, c)
	}
	out, err := table.New(outCols...)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	first := make(map[string]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		k := rowKey(right.Row(i), keys)
		if _, seen := first[k]; !seen {
			first[k] = i
		}
	}

	for i := 0; i < left.Len(); i++ {
		lr := left.Row(i)
		vals := lr.Values()
		ri, ok := first[rowKey(lr, keys)]
		for _, c := range rightCols {
			v := table.Null()
			if ok {
				v, _ = right.Value(ri, c)
			}
			vals = append(vals, v)
		}
		if err := out.Append(vals...); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	return out, nil
}

func rowKey(r table.Row, keys []string) string {
	vals := make([]table.Value, len(keys))
	for i, k := range keys {
		vals[i], _ = r.Get(k)
	}
	return table.Key(vals...)
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
