package ecode

import (
	"errors"
	"fmt"
)

// Error is a failure carrying a business code and a user-facing message.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error, falling back to the code's default text.
func New(code int, message string) *Error {
	if message == "" {
		message = Text(code)
	}
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that keeps err as its cause.
func Wrap(code int, message string, err error) *Error {
	e := New(code, message)
	e.Err = err
	return e
}

// Unauthenticated reports a missing or invalid identity.
func Unauthenticated(message string) *Error { return New(NoLogin, message) }

// Forbidden reports an identity without the required role or state.
func Forbidden(message string) *Error { return New(AccessDenied, message) }

// Validation reports missing or malformed input.
func Validation(message string) *Error { return New(ParamErr, message) }

// NotFoundErr reports an absent entity.
func NotFoundErr(message string) *Error { return New(NotFound, message) }

// ConflictErr reports a violated state precondition.
func ConflictErr(message string) *Error { return New(Conflict, message) }

// Internal reports a storage or collaborator failure. The cause stays out of
// the message.
func Internal(err error) *Error { return Wrap(ServerErr, Text(ServerErr), err) }

// FromError extracts an *Error from err, treating anything else as internal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Is reports whether err carries the given code.
func Is(err error, code int) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
