// Package apperr defines the domain error taxonomy: every failure a
// handler can surface carries an HTTP status and a stable error code,
// and a single translator maps them onto the JSON envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError carries field-level detail for validation failures.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Status  int          `json:"-"`
	Code    string       `json:"error"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Validation is a 400 with optional field-level detail.
func Validation(message string, details ...FieldError) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: message, Details: details}
}

func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(code, message string) *Error {
	return New(http.StatusUnauthorized, code, message)
}

func Forbidden(code, message string) *Error {
	return New(http.StatusForbidden, code, message)
}

func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

// Duplicate maps unique-constraint conflicts (one email, one review per
// user per gadget, one cart per user).
func Duplicate(message string) *Error {
	return New(http.StatusBadRequest, "DUPLICATE_KEY_ERROR", message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}

// As unwraps err into an *Error if it is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
