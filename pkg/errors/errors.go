// Package errors provides structured error types for reflow.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP preview
// service can report the same failure consistently:
//
//   - INVALID_*: configuration, property, scene or script input rejected
//   - UNKNOWN_PROPERTY: a property name that no container exposes
//   - NOT_READY: a collaborator (such as the pointer coordinator) is not
//     reachable yet; callers retry on the next tick
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownProperty, "unknown property %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownProperty) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidScene, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidProperty Code = "INVALID_PROPERTY"
	ErrCodeInvalidScene    Code = "INVALID_SCENE"
	ErrCodeInvalidScript   Code = "INVALID_SCRIPT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Lookup errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeUnknownProperty Code = "UNKNOWN_PROPERTY"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// State errors
	ErrCodeConflict Code = "CONFLICT"

	// Wiring errors
	ErrCodeNotReady Code = "NOT_READY"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the status the preview service answers
// with. Unknown codes map to 500.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidProperty,
		ErrCodeInvalidScene, ErrCodeInvalidScript, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return 400
	case ErrCodeNotFound, ErrCodeUnknownProperty, ErrCodeFileNotFound:
		return 404
	case ErrCodeConflict:
		return 409
	case ErrCodeNotReady:
		return 503
	case ErrCodeUnsupported:
		return 501
	default:
		return 500
	}
}
