package service

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"sheetops/internal/apperr"
	"sheetops/internal/edit/model"
	"sheetops/internal/edit/predicate"
	"sheetops/internal/table"
)

const unrecognizedHint = "command not recognized. Please use structured instructions like 'remove empty rows' or 'rename column A to B'"

// Apply runs op against ds. The input dataset is never modified: on success a
// new dataset is returned, on NoOp or Failed the input itself.
func Apply(ds *table.Dataset, op model.Operation) (out *table.Dataset, res model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out, res = ds, model.Failed(apperr.Internal(fmt.Errorf("panic: %v", r)))
		}
	}()

	if err := op.Validate(); err != nil {
		return ds, model.Failed(err)
	}

	switch o := op.(type) {
	case model.RemoveEmptyRows:
		return removeEmptyRows(ds)
	case model.AddColumn:
		return addColumn(ds, o)
	case model.DropColumn:
		return dropColumn(ds, o)
	case model.FilterRows:
		return filterRows(ds, o)
	case model.RenameColumn:
		return renameColumn(ds, o)
	case model.ReplaceValue:
		return replaceValue(ds, o)
	case model.CheckColumnsExist:
		return checkColumns(ds, o)
	case model.Unrecognized:
		return ds, model.NoOp(unrecognizedHint, apperr.UnrecognizedCommand(o.RawText))
	default:
		return ds, model.Failed(apperr.Internal(fmt.Errorf("unsupported operation %T", op)))
	}
}

func removeEmptyRows(ds *table.Dataset) (*table.Dataset, model.Outcome) {
	out := ds.Clone()
	if err := out.Filter(func(r table.Row) (bool, error) { return !r.Empty(), nil }); err != nil {
		return ds, model.Failed(apperr.Internal(err))
	}
	removed := ds.Len() - out.Len()
	return out, model.Applied(removed, fmt.Sprintf("removed %d empty rows", removed))
}

func addColumn(ds *table.Dataset, o model.AddColumn) (*table.Dataset, model.Outcome) {
	msg := fmt.Sprintf("added column %q", o.Name)
	if ds.HasColumn(o.Name) {
		msg = fmt.Sprintf("overwrote column %q", o.Name)
	}
	out := ds.Clone()
	out.SetColumn(o.Name, func(int) table.Value { return table.Text(model.Placeholder) })
	return out, model.Applied(out.Len(), msg)
}

func dropColumn(ds *table.Dataset, o model.DropColumn) (*table.Dataset, model.Outcome) {
	if !ds.HasColumn(o.Name) {
		return ds, model.NoOp(fmt.Sprintf("column %q not found, nothing to drop", o.Name), nil)
	}
	out := ds.Clone()
	out.DropColumn(o.Name)
	return out, model.Applied(ds.Len(), fmt.Sprintf("dropped column %q", o.Name))
}

func filterRows(ds *table.Dataset, o model.FilterRows) (*table.Dataset, model.Outcome) {
	expr, err := predicate.Parse(o.Predicate)
	if err != nil {
		return ds, model.Failed(apperr.MalformedExpression(err))
	}
	if missing := ds.Missing(expr.Columns()...); len(missing) > 0 {
		return ds, model.Failed(apperr.MalformedExpression(
			fmt.Errorf("unknown column %q%s", missing[0], hintSuffix(missing[0], ds.Columns()))))
	}
	out := ds.Clone()
	if err := out.Filter(func(r table.Row) (bool, error) { return expr.Eval(r) }); err != nil {
		return ds, model.Failed(apperr.MalformedExpression(err))
	}
	removed := ds.Len() - out.Len()
	return out, model.Applied(out.Len(), fmt.Sprintf("kept %d rows, removed %d", out.Len(), removed))
}

func renameColumn(ds *table.Dataset, o model.RenameColumn) (*table.Dataset, model.Outcome) {
	if !ds.HasColumn(o.OldName) {
		return ds, model.Failed(apperr.MissingColumns(suggest(o.OldName, ds.Columns()), o.OldName))
	}
	if o.OldName != o.NewName && ds.HasColumn(o.NewName) {
		return ds, model.Failed(apperr.MalformedArguments("rename column: column %q already exists", o.NewName))
	}
	out := ds.Clone()
	if err := out.RenameColumn(o.OldName, o.NewName); err != nil {
		return ds, model.Failed(apperr.Internal(err))
	}
	return out, model.Applied(ds.Len(), fmt.Sprintf("renamed column %q to %q", o.OldName, o.NewName))
}

// replaceValue matches by exact typed equality: the command text is a
// string, so numeric or date cells that merely print the same are left alone.
func replaceValue(ds *table.Dataset, o model.ReplaceValue) (*table.Dataset, model.Outcome) {
	out := ds.Clone()
	n := out.ReplaceAll(table.Text(o.OldValue), table.Text(o.NewValue))
	return out, model.Applied(n, fmt.Sprintf("replaced %d cells", n))
}

func checkColumns(ds *table.Dataset, o model.CheckColumnsExist) (*table.Dataset, model.Outcome) {
	missing := ds.Missing(o.Names...)
	if len(missing) == 0 {
		return ds, model.Applied(0, fmt.Sprintf("all %d columns present", len(o.Names)))
	}
	hint := ""
	if len(missing) == 1 {
		hint = suggest(missing[0], ds.Columns())
	}
	return ds, model.Failed(apperr.MissingColumns(hint, missing...))
}

// suggest proposes the closest existing column for a mistyped name, by edit
// distance first and by fuzzy subsequence ranking for abbreviations.
func suggest(name string, columns []string) string {
	limit := utf8.RuneCountInString(name) / 3
	if limit < 1 {
		limit = 1
	}
	best, bestDist := "", limit+1
	for _, c := range columns {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		ranks := fuzzy.RankFindFold(name, columns)
		sort.Sort(ranks)
		if len(ranks) > 0 {
			best = ranks[0].Target
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}

func hintSuffix(name string, columns []string) string {
	if h := suggest(name, columns); h != "" {
		return " (" + h + ")"
	}
	return ""
}
