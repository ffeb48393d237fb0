// Package apperr defines the typed business-rule errors the core
// subsystems return. Every error wraps one of the kind sentinels so
// callers can branch with errors.Is while messages stay specific
// (which field was rejected, which totals broke the cap).
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrLimitExceeded   = errors.New("limit exceeded")
)

type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{
		kind:    kind,
		message: fmt.Sprintf(format, args...),
	}
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func InvalidArgument(format string, args ...any) error {
	return newError(ErrInvalidArgument, format, args...)
}

func LimitExceeded(format string, args ...any) error {
	return newError(ErrLimitExceeded, format, args...)
}
