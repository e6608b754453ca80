// Package errors provides coded errors shared across the kube-helpers packages.
//
// Every error carries a stable machine-readable code next to the human-readable
// message, so callers can branch on failure class without string matching:
//
//	if errors.GetCode(err) == errors.ErrCodeNotFound {
//	    ...
//	}
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes used across the codebase.
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal = "INTERNAL_ERROR"

	// ErrCodeInvalidRequest indicates invalid caller input (bad flag value,
	// malformed path, unsupported format).
	ErrCodeInvalidRequest = "INVALID_REQUEST"

	// ErrCodeNotFound indicates a missing source: a sizing/module definition
	// file, a profile key, or a referenced layer file.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeParse indicates malformed input data: an unparseable resource
	// quantity or a non-mapping document in a manifest stream.
	ErrCodeParse = "PARSE_ERROR"

	// ErrCodeAmbiguous indicates input with more than one plausible reading,
	// such as multiple volume claim templates in a single workload.
	ErrCodeAmbiguous = "AMBIGUOUS_STRUCTURE"

	// ErrCodeInvariant indicates a broken internal invariant. These are
	// programmer errors and are never recovered from.
	ErrCodeInvariant = "INVARIANT_VIOLATION"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	// Code is one of the ErrCode* constants.
	Code string

	// Message describes the failure.
	Message string

	// Err is the wrapped cause, may be nil.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error wrapping an underlying cause.
func Wrap(code, message string, err error) error {
	return &Error{Code: code, Message: message, Err: err}
}

// Wrapf creates a coded error with a formatted message wrapping a cause.
func Wrapf(code string, err error, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// GetCode returns the code of err, or ErrCodeInternal when err carries none.
// A nil error returns the empty string.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers do not need a second errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain matching target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
