// Package apperror carries an HTTP status class alongside an error so that the
// application layer can signal failures without knowing about the transport.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a failure with a status class and a client-safe message.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches an underlying cause that is logged but never shown to clients.
func (e *Error) Wrap(err error) *Error {
	return &Error{Status: e.Status, Message: e.Message, Err: err}
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(msg string) *Error   { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(http.StatusForbidden, msg) }
func NotFound(msg string) *Error     { return New(http.StatusNotFound, msg) }
func Conflict(msg string) *Error     { return New(http.StatusConflict, msg) }

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// From classifies any error. Unclassified errors become Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// StatusOf returns the status class of err, 500 when unclassified.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return From(err).Status
}
