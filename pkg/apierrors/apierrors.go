// Package apierrors defines the error codes exposed on the wire and helpers
// to build, classify, and map them to HTTP statuses. The code strings are a
// compatibility contract with existing clients and must not change.
package apierrors

import (
	"errors"
	"net/http"
)

// Code identifies a stable, client-visible error category.
type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeCountryNotFound Code = "COUNTRY_NOT_FOUND"
	CodeNotFound        Code = "NOT_FOUND"
	CodeRateLimited     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal        Code = "INTERNAL_SERVER_ERROR"
)

// Error carries a wire code alongside a human-readable message. Details holds
// per-field validation messages when the code is CodeValidation.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New builds an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithDetails attaches field-level detail messages and returns the error.
func (e *Error) WithDetails(details map[string]string) *Error {
	e.Details = details
	return e
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// ToHTTPStatus maps an error code to its HTTP status. Unknown codes map to
// 500 so new codes fail safe rather than leaking 200s.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeCountryNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
