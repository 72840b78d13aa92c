// Package errors provides structured error types for meshforce.
//
// Every failure a caller may want to branch on carries a [Code]. The HTTP
// server maps codes to status codes and reports [UserMessage] to clients.
//
// # Error Codes
//
// The layout engine only ever fails with one of three fatal conditions:
//   - INVALID_PARAMETER: an algorithm parameter is out of range (dist_opt <= 0)
//   - DEGENERATE_TOPOLOGY: the face list is not a closed genus-0 triangulation
//   - INDEX_OUT_OF_RANGE: a face references a vertex that does not exist
//
// The remaining codes are used by the I/O collaborators, the pipeline and the server.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParameter, "dist_opt must be > 0, got %g", k)
//	if errors.Is(err, errors.ErrCodeInvalidParameter) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "line %d", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout engine preconditions
	ErrCodeInvalidParameter   Code = "INVALID_PARAMETER"
	ErrCodeDegenerateTopology Code = "DEGENERATE_TOPOLOGY"
	ErrCodeIndexOutOfRange    Code = "INDEX_OUT_OF_RANGE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error. Cause is optional.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// prefix, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsPrecondition reports whether err is one of the fatal layout preconditions:
// an invalid parameter, a degenerate topology or an out-of-range face index.
func IsPrecondition(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidParameter, ErrCodeDegenerateTopology, ErrCodeIndexOutOfRange:
		return true
	}
	return false
}
