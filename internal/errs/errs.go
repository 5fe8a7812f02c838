// Package errs defines the two failure kinds the chart engine can report.
// Validation errors are caller mistakes and are surfaced as-is. Computation
// errors mean a lookup table that should be complete was not, and are never
// user-facing.
package errs

import (
	"errors"
	"fmt"
)

// #region kind
// Kind classifies an engine error.
type Kind string

const (
	KindValidation  Kind = "VALIDATION_ERROR"
	KindComputation Kind = "COMPUTATION_ERROR"
)

// #endregion kind

// #region error
// Error is the engine's error type. Code is a short stable identifier
// ("line_count", "rule_set", "palace_lookup", ...).
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind, and on code when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// #endregion error

// #region constructors
// Validation builds a validation error.
func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Computation builds a computation error.
func Computation(code, format string, args ...any) *Error {
	return &Error{Kind: KindComputation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrValidation and ErrComputation are sentinels for errors.Is.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrComputation = &Error{Kind: KindComputation}
)

// IsValidation reports whether err carries a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsComputation reports whether err carries a computation error.
func IsComputation(err error) bool {
	return errors.Is(err, ErrComputation)
}

// #endregion constructors
