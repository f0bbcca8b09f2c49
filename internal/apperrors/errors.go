// Package apperrors defines the typed error taxonomy services return.
// Handlers at the HTTP edge map these to status codes; anything
// unrecognized falls through as an internal error.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// API error codes
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUpstream     = "UPSTREAM_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error carries a user-facing message, an API code and the HTTP status it
// maps to. Wrapped causes stay internal.
type Error struct {
	Err     error
	Message string
	Code    string
	Status  int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string, err error) *Error {
	return &Error{Err: err, Message: message, Code: CodeValidation, Status: http.StatusBadRequest}
}

func Unauthorized(message string) *Error {
	return &Error{Message: message, Code: CodeUnauthorized, Status: http.StatusUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Message: message, Code: CodeForbidden, Status: http.StatusForbidden}
}

func NotFound(message string) *Error {
	return &Error{Message: message, Code: CodeNotFound, Status: http.StatusNotFound}
}

func Conflict(message string) *Error {
	return &Error{Message: message, Code: CodeConflict, Status: http.StatusConflict}
}

func Upstream(message string, err error) *Error {
	return &Error{Err: err, Message: message, Code: CodeUpstream, Status: http.StatusBadGateway}
}

func Internal(message string, err error) *Error {
	return &Error{Err: err, Message: message, Code: CodeInternal, Status: http.StatusInternalServerError}
}

// From extracts an *Error from err, or wraps err as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}
