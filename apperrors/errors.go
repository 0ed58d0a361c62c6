package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound is a lookup miss (product or vendor).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// PreconditionFailed reports a request that cannot proceed yet, e.g. a vendor
// that has not been onboarded.
func PreconditionFailed(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// Upstream wraps a payment platform failure.
func Upstream(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Verification reports a webhook payload that failed authentication or parsing.
func Verification(message string, err error) *Error {
	return New(http.StatusBadRequest, message, err)
}

// StatusCode returns the HTTP status carried by err, or 500 for foreign errors.
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Message returns the public message of err without the wrapped cause.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
