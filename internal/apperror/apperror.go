// Package apperror defines the typed errors surfaced to API clients.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a failure carrying the HTTP status and the message shown to the caller.
// Err, when set, is the underlying cause and is never exposed in responses.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{StatusCode: status, Message: message}
}

// Wrap creates an Error that keeps cause for logging.
func Wrap(status int, message string, cause error) *Error {
	return &Error{StatusCode: status, Message: message, Err: cause}
}

func BadRequest(message string) *Error { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error { return New(http.StatusConflict, message) }
func TooManyRequests(message string) *Error { return New(http.StatusTooManyRequests, message) }

// Internal reports an unexpected failure; cause is kept for logs only.
func Internal(message string, cause error) *Error {
	return Wrap(http.StatusInternalServerError, message, cause)
}

// BadGateway reports a failure of an upstream provider.
func BadGateway(message string, cause error) *Error {
	return Wrap(http.StatusBadGateway, message, cause)
}

// StatusOf returns the status code carried by err, or 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Is reports whether err is an *Error with the given status.
func Is(err error, status int) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.StatusCode == status
}
