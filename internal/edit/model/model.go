package model

import (
	"errors"
	"strings"

	"sheetops/internal/apperr"
)

// Kind names an operation variant.
type Kind string

const (
	KindRemoveEmptyRows   Kind = "remove_empty_rows"
	KindAddColumn         Kind = "add_column"
	KindDropColumn        Kind = "drop_column"
	KindFilterRows        Kind = "filter_rows"
	KindRenameColumn      Kind = "rename_column"
	KindReplaceValue      Kind = "replace_value"
	KindCheckColumnsExist Kind = "check_columns_exist"
	KindUnrecognized      Kind = "unrecognized"
)

// Placeholder is the value written into every row by AddColumn.
const Placeholder = "New Data"

// Operation is one parsed command.
type Operation interface {
	Kind() Kind
	// Validate reports argument problems found while splitting the command.
	Validate() error
}

type RemoveEmptyRows struct{}

type AddColumn struct {
	Name string
}

type DropColumn struct {
	Name string
}

type FilterRows struct {
	Predicate string
}

type RenameColumn struct {
	OldName string
	NewName string

	argErr error
}

type ReplaceValue struct {
	OldValue string
	NewValue string

	argErr error
}

type CheckColumnsExist struct {
	Names []string
}

type Unrecognized struct {
	RawText string
}

func (RemoveEmptyRows) Kind() Kind   { return KindRemoveEmptyRows }
func (AddColumn) Kind() Kind         { return KindAddColumn }
func (DropColumn) Kind() Kind        { return KindDropColumn }
func (FilterRows) Kind() Kind        { return KindFilterRows }
func (RenameColumn) Kind() Kind      { return KindRenameColumn }
func (ReplaceValue) Kind() Kind      { return KindReplaceValue }
func (CheckColumnsExist) Kind() Kind { return KindCheckColumnsExist }
func (Unrecognized) Kind() Kind      { return KindUnrecognized }

func (RemoveEmptyRows) Validate() error   { return nil }
func (CheckColumnsExist) Validate() error { return nil }
func (Unrecognized) Validate() error      { return nil }

func (o AddColumn) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return apperr.MalformedArguments("add column: column name is empty")
	}
	return nil
}

func (o DropColumn) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return apperr.MalformedArguments("drop column: column name is empty")
	}
	return nil
}

func (o FilterRows) Validate() error {
	if strings.TrimSpace(o.Predicate) == "" {
		return apperr.MalformedArguments("filter rows where: condition is empty")
	}
	return nil
}

func (o RenameColumn) Validate() error {
	if o.argErr != nil {
		return o.argErr
	}
	if o.OldName == "" || o.NewName == "" {
		return apperr.MalformedArguments("rename column: expected 'rename column <old> to <new>'")
	}
	return nil
}

func (o ReplaceValue) Validate() error {
	return o.argErr
}

// WithArgError returns a copy of o that fails validation with err.
func (o RenameColumn) WithArgError(err error) RenameColumn {
	o.argErr = err
	return o
}

// WithArgError returns a copy of o that fails validation with err.
func (o ReplaceValue) WithArgError(err error) ReplaceValue {
	o.argErr = err
	return o
}

// Status is the coarse result of applying an operation.
type Status string

const (
	StatusApplied Status = "applied"
	StatusNoOp    Status = "noop"
	StatusFailed  Status = "failed"
)

// Outcome describes what applying an operation did.
type Outcome struct {
	Status   Status   `json:"status"`
	Message  string   `json:"message"`
	Affected int      `json:"affected"`
	Missing  []string `json:"missing,omitempty"`
	Err      error    `json:"-"`
}

func Applied(affected int, msg string) Outcome {
	return Outcome{Status: StatusApplied, Affected: affected, Message: msg}
}

func NoOp(reason string, err error) Outcome {
	return Outcome{Status: StatusNoOp, Message: reason, Err: err}
}

// Failed wraps err into a failed outcome, copying any missing columns.
func Failed(err error) Outcome {
	out := Outcome{Status: StatusFailed, Message: err.Error(), Err: err}
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind() == apperr.KindMissingColumn {
		out.Missing = ae.Columns()
	}
	return out
}

// ErrorKind is the apperr kind behind the outcome, or "" when it succeeded.
func (o Outcome) ErrorKind() string {
	if o.Err == nil {
		return ""
	}
	return apperr.KindOf(o.Err).String()
}
