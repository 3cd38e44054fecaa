package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetops/internal/apperr"
	"sheetops/internal/edit/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		command string
		want    model.Operation
	}{
		{"remove empty rows", model.RemoveEmptyRows{}},
		{"Please REMOVE EMPTY ROWS now", model.RemoveEmptyRows{}},
		{"add column Notes", model.AddColumn{Name: "Notes"}},
		{"Add Column  Unit Price ", model.AddColumn{Name: "Unit Price"}},
		{"drop column Age", model.DropColumn{Name: "Age"}},
		{"filter rows where Age > 30 and Status == 'Active'", model.FilterRows{Predicate: "Age > 30 and Status == 'Active'"}},
		{"rename column Age to Years", model.RenameColumn{OldName: "Age", NewName: "Years"}},
		{"Rename Column Age TO Years", model.RenameColumn{OldName: "Age", NewName: "Years"}},
		{"replace N/A with Unknown", model.ReplaceValue{OldValue: "N/A", NewValue: "Unknown"}},
		{"replace a with b with c", model.ReplaceValue{OldValue: "a", NewValue: "b with c"}},
		{"check columns: Name, Age ,Status", model.CheckColumnsExist{Names: []string{"Name", "Age", "Status"}}},
		{"check columns", model.CheckColumnsExist{}},
		{"sort by Age", model.Unrecognized{RawText: "sort by Age"}},
		{"", model.Unrecognized{RawText: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got := Parse(tt.command)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestParsePriority(t *testing.T) {
	// both "rename column" and "replace" appear; rename wins
	op := Parse("rename column Price to Replacement Price")
	assert.Equal(t, model.RenameColumn{OldName: "Price", NewName: "Replacement Price"}, op)

	// add column is checked before drop column even when it appears later
	op = Parse("drop column add column X")
	assert.Equal(t, model.KindAddColumn, op.Kind())

	op = Parse("remove empty rows then add column X")
	assert.Equal(t, model.KindRemoveEmptyRows, op.Kind())
}

func TestParseMalformedArguments(t *testing.T) {
	tests := []string{
		"rename column Age",
		"rename column A to B to C",
		"replace N/A",
		"add column",
		"drop column   ",
		"filter rows where",
	}
	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			err := Parse(command).Validate()
			require.Error(t, err)
			assert.Equal(t, apperr.KindMalformedArguments, apperr.KindOf(err))
		})
	}
}

func TestTriggersOrder(t *testing.T) {
	assert.Equal(t, []string{
		"remove empty rows", "add column", "drop column", "filter rows where",
		"rename column", "replace", "check columns",
	}, Triggers())
}
