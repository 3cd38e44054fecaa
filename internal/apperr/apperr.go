// Package apperr defines the error kinds surfaced to users of both tools.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for display and HTTP mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindUnrecognizedCommand
	KindMissingColumn
	KindMalformedExpression
	KindMalformedArguments
	KindPreconditionFailed
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindUnrecognizedCommand:
		return "unrecognized_command"
	case KindMissingColumn:
		return "missing_column"
	case KindMalformedExpression:
		return "malformed_expression"
	case KindMalformedArguments:
		return "malformed_arguments"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "internal"
	}
}

// Error is a classified error. It may wrap a cause and name the columns
// involved.
type Error struct {
	kind    Kind
	msg     string
	err     error
	columns []string
}

func (e *Error) Error() string {
	switch {
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		return e.kind.String()
	}
}

func (e *Error) Kind() Kind        { return e.kind }
func (e *Error) Msg() string       { return e.msg }
func (e *Error) Columns() []string { return append([]string(nil), e.columns...) }
func (e *Error) Unwrap() error     { return e.err }

// StatusCode maps the kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnrecognizedCommand, KindMissingColumn, KindMalformedExpression,
		KindMalformedArguments, KindPreconditionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf classifies any error; unclassified errors are internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.kind
	}
	return KindInternal
}

func UnrecognizedCommand(raw string) error {
	return &Error{kind: KindUnrecognizedCommand, msg: fmt.Sprintf("command not recognized: %q", raw)}
}

// MissingColumns reports absent columns. hint, when set, is appended to the
// message (e.g. a suggested name).
func MissingColumns(hint string, cols ...string) error {
	msg := "the following columns are missing: " + strings.Join(cols, ", ")
	if len(cols) == 1 {
		msg = fmt.Sprintf("column %q not found", cols[0])
	}
	if hint != "" {
		msg += " (" + hint + ")"
	}
	return &Error{kind: KindMissingColumn, msg: msg, columns: cols}
}

func MalformedExpression(err error) error {
	return &Error{kind: KindMalformedExpression, msg: "malformed filter expression", err: err}
}

func MalformedArguments(format string, args ...any) error {
	return &Error{kind: KindMalformedArguments, msg: fmt.Sprintf(format, args...)}
}

func PreconditionFailed(msg string, cols ...string) error {
	return &Error{kind: KindPreconditionFailed, msg: msg, columns: cols}
}

func InvalidInput(msg string, err error) error {
	return &Error{kind: KindInvalidInput, msg: msg, err: err}
}

func Internal(err error) error {
	return &Error{kind: KindInternal, msg: "internal error", err: err}
}
