package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetops/internal/apperr"
	"sheetops/internal/edit/model"
	"sheetops/internal/table"
)

func people(t *testing.T) *table.Dataset {
	t.Helper()
	ds := table.MustNew("Name", "Age", "Status")
	require.NoError(t, ds.Append(table.Text("Ann"), table.Number(42), table.Text("Active")))
	require.NoError(t, ds.Append(table.Text("Bob"), table.Number(25), table.Text("Inactive")))
	require.NoError(t, ds.Append(table.Text("N/A"), table.Number(31), table.Text("Active")))
	require.NoError(t, ds.Append(table.Text("Dan"), table.Null(), table.Text("N/A")))
	return ds
}

func TestRemoveEmptyRowsScenario(t *testing.T) {
	ds := table.MustNew("Name", "Age")
	require.NoError(t, ds.Append(table.Text("A"), table.Text("")))
	require.NoError(t, ds.Append(table.Text(""), table.Text("")))

	r := Run(ds, "remove empty rows")
	assert.Equal(t, model.StatusApplied, r.Outcome.Status)
	assert.Equal(t, 1, r.Outcome.Affected)
	require.Equal(t, 1, r.Dataset.Len())
	v, _ := r.Dataset.Value(0, "Name")
	assert.Equal(t, "A", v.String())
	assert.Equal(t, 2, ds.Len(), "input must not change")
}

func TestAddColumn(t *testing.T) {
	ds := people(t)
	out, res := Apply(ds, model.AddColumn{Name: "Notes"})
	assert.Equal(t, model.StatusApplied, res.Status)
	assert.Equal(t, []string{"Name", "Age", "Status", "Notes"}, out.Columns())
	for i := 0; i < out.Len(); i++ {
		v, _ := out.Value(i, "Notes")
		assert.Equal(t, table.Text(model.Placeholder), v)
	}

	// existing name is overwritten in place
	out, res = Apply(ds, model.AddColumn{Name: "Status"})
	assert.Equal(t, model.StatusApplied, res.Status)
	assert.Equal(t, []string{"Name", "Age", "Status"}, out.Columns())
	v, _ := out.Value(1, "Status")
	assert.Equal(t, model.Placeholder, v.String())
}

func TestDropColumnMissingIsIdempotentNoOp(t *testing.T) {
	ds := people(t)
	once, res1 := Apply(ds, model.DropColumn{Name: "Salary"})
	twice, res2 := Apply(once, model.DropColumn{Name: "Salary"})

	assert.Equal(t, model.StatusNoOp, res1.Status)
	assert.Equal(t, model.StatusNoOp, res2.Status)
	assert.True(t, ds.Equal(once))
	assert.True(t, once.Equal(twice))
}

func TestDropColumn(t *testing.T) {
	out, res := Apply(people(t), model.DropColumn{Name: "Age"})
	assert.Equal(t, model.StatusApplied, res.Status)
	assert.Equal(t, []string{"Name", "Status"}, out.Columns())
}

func TestFilterRows(t *testing.T) {
	r := Run(people(t), "filter rows where Age > 30 and Status == 'Active'")
	require.Equal(t, model.StatusApplied, r.Outcome.Status, r.Outcome.Message)
	require.Equal(t, 2, r.Dataset.Len())
	v, _ := r.Dataset.Value(0, "Name")
	assert.Equal(t, "Ann", v.String())
	v, _ = r.Dataset.Value(1, "Name")
	assert.Equal(t, "N/A", v.String())
}

func TestFilterRowsFailuresLeaveDatasetUnchanged(t *testing.T) {
	tests := []string{
		"filter rows where Age = 30",
		"filter rows where Salary > 10",
		"filter rows where Name > 3",
		"filter rows where __import__('os')",
	}
	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			ds := people(t)
			r := Run(ds, command)
			assert.Equal(t, model.StatusFailed, r.Outcome.Status)
			assert.Equal(t, apperr.KindMalformedExpression, apperr.KindOf(r.Outcome.Err))
			assert.Same(t, ds, r.Dataset)
			assert.True(t, people(t).Equal(r.Dataset))
		})
	}
}

func TestRenameColumnScenario(t *testing.T) {
	ds := table.MustNew("Name", "Age")
	require.NoError(t, ds.Append(table.Text("A"), table.Number(3)))

	r := Run(ds, "rename column Age to Years")
	require.Equal(t, model.StatusApplied, r.Outcome.Status)
	assert.Equal(t, []string{"Name", "Years"}, r.Dataset.Columns())
	v, _ := r.Dataset.Value(0, "Years")
	assert.Equal(t, table.Number(3), v)
}

func TestRenameRoundTrip(t *testing.T) {
	ds := people(t)
	mid, res := Apply(ds, model.RenameColumn{OldName: "Age", NewName: "Years"})
	require.Equal(t, model.StatusApplied, res.Status)
	back, res := Apply(mid, model.RenameColumn{OldName: "Years", NewName: "Age"})
	require.Equal(t, model.StatusApplied, res.Status)
	assert.True(t, ds.Equal(back))
}

func TestRenameFailures(t *testing.T) {
	ds := people(t)

	out, res := Apply(ds, model.RenameColumn{OldName: "Agee", NewName: "Years"})
	assert.Equal(t, model.StatusFailed, res.Status)
	assert.Equal(t, apperr.KindMissingColumn, apperr.KindOf(res.Err))
	assert.Equal(t, []string{"Agee"}, res.Missing)
	assert.Contains(t, res.Message, `did you mean "Age"?`)
	assert.Same(t, ds, out)

	out, res = Apply(ds, model.RenameColumn{OldName: "Age", NewName: "Name"})
	assert.Equal(t, model.StatusFailed, res.Status)
	assert.Same(t, ds, out)

	r := Run(ds, "rename column Age")
	assert.Equal(t, model.StatusFailed, r.Outcome.Status)
	assert.Equal(t, apperr.KindMalformedArguments, apperr.KindOf(r.Outcome.Err))
	assert.Same(t, ds, r.Dataset)
}

func TestReplaceTotality(t *testing.T) {
	ds := people(t)
	r := Run(ds, "replace N/A with Unknown")
	require.Equal(t, model.StatusApplied, r.Outcome.Status)
	assert.Equal(t, 2, r.Outcome.Affected)

	out := r.Dataset
	require.Equal(t, ds.Columns(), out.Columns())
	require.Equal(t, ds.Len(), out.Len())
	for i := 0; i < ds.Len(); i++ {
		before := ds.Row(i).Values()
		after := out.Row(i).Values()
		for j := range before {
			assert.False(t, after[j].Equal(table.Text("N/A")))
			if before[j].Equal(table.Text("N/A")) {
				assert.Equal(t, table.Text("Unknown"), after[j])
			} else {
				assert.Equal(t, before[j], after[j])
			}
		}
	}
}

func TestReplaceIsTyped(t *testing.T) {
	r := Run(people(t), "replace 42 with 43")
	assert.Equal(t, model.StatusApplied, r.Outcome.Status)
	assert.Equal(t, 0, r.Outcome.Affected)
	v, _ := r.Dataset.Value(0, "Age")
	assert.Equal(t, table.Number(42), v)
}

func TestCheckColumns(t *testing.T) {
	ds := people(t)

	r := Run(ds, "check columns: Name, Age")
	assert.Equal(t, model.StatusApplied, r.Outcome.Status)
	assert.Same(t, ds, r.Dataset)

	r = Run(ds, "check columns: Name, Salary, Dept")
	assert.Equal(t, model.StatusFailed, r.Outcome.Status)
	assert.Equal(t, []string{"Salary", "Dept"}, r.Outcome.Missing)
	assert.Equal(t, apperr.KindMissingColumn, apperr.KindOf(r.Outcome.Err))
	assert.Same(t, ds, r.Dataset)
}

func TestUnrecognized(t *testing.T) {
	ds := people(t)
	r := Run(ds, "make it pretty")
	assert.Equal(t, model.StatusNoOp, r.Outcome.Status)
	assert.Equal(t, apperr.KindUnrecognizedCommand, apperr.KindOf(r.Outcome.Err))
	assert.Contains(t, r.Outcome.Message, "rename column A to B")
	assert.Same(t, ds, r.Dataset)
}
func TestFilterRowsDeepNestingFails(t *testing.T) {
	for _, n := range []int{300, 1_000_000} {
		ds := people(t)
		command := "filter rows where " + strings.Repeat("(", n) + "Age > 0" + strings.Repeat(")", n)
		r := Run(ds, command)
		assert.Equal(t, model.StatusFailed, r.Outcome.Status)
		assert.Equal(t, apperr.KindMalformedExpression, apperr.KindOf(r.Outcome.Err))
		assert.Same(t, ds, r.Dataset)
		assert.True(t, people(t).Equal(r.Dataset))
	}
}

type panicky struct{}

func (panicky) Kind() model.Kind { return "panicky" }
func (panicky) Validate() error  { panic("boom") }

func TestApplyRecoversPanics(t *testing.T) {
	ds := people(t)
	out, res := Apply(ds, panicky{})
	assert.Equal(t, model.StatusFailed, res.Status)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(res.Err))
	assert.Same(t, ds, out)
}

func TestFailedOutcomesNeverChangeTheDataset(t *testing.T) {
	commands := []string{
		"rename column Nope to X",
		"rename column A to B to C",
		"replace only-old",
		"filter rows where (Age > 1",
		"check columns: Nope",
		"add column",
	}
	for _, c := range commands {
		ds := people(t)
		r := Run(ds, c)
		require.Equal(t, model.StatusFailed, r.Outcome.Status, c)
		assert.True(t, people(t).Equal(r.Dataset), c)
	}
}

func TestRunAllCarriesDatasetForward(t *testing.T) {
	out, results := RunAll(people(t), []string{
		"drop column Status",
		"rename column Nope to X",
		"add column Notes",
	})
	require.Len(t, results, 3)
	assert.Equal(t, model.StatusApplied, results[0].Outcome.Status)
	assert.Equal(t, model.StatusFailed, results[1].Outcome.Status)
	assert.Equal(t, model.StatusApplied, results[2].Outcome.Status)
	assert.Equal(t, []string{"Name", "Age", "Notes"}, out.Columns())
}
