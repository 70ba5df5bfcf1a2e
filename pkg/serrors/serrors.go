// Package serrors provides semantic error kinds used across the scan form,
// the scan service client and the scan service. A kind tells callers how an
// error should be surfaced (which message, which HTTP status) without
// inspecting concrete error types.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a comparable sentinel).
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrValidation indicates user input was rejected before any network call.
	ErrValidation = NewKind("VALIDATION")
	// ErrService indicates the scan service answered with a non-success status.
	// The error message is the text meant for the user.
	ErrService = NewKind("SERVICE")
	// ErrTransport indicates the request to the scan service did not complete
	// or its response could not be understood.
	ErrTransport = NewKind("TRANSPORT")
	// ErrBusy indicates a submit was attempted while another one is in flight.
	ErrBusy = NewKind("BUSY")
	// ErrBadRequest indicates a client sent an invalid payload to the scan service.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrInternal indicates an unexpected server-side failure.
	ErrInternal = NewKind("INTERNAL")
)

// Error is a semantic error carrying a kind, an optional message and an
// optional wrapped cause. errors.Is and errors.As match both the kind and the
// cause chain.
//
// Error string formatting:
//   - msg and cause: "<msg>: <cause>"
//   - msg only: "<msg>"
//   - cause only: "<cause>"
//   - neither: the kind name
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with the given kind and message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error with the given kind around cause err.
// An empty msgFmt keeps the cause text as the error string.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	e := &Error{kind: k, err: err}
	if msgFmt != "" {
		e.msg = fmt.Sprintf(msgFmt, args...)
	}

	return e
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches target against the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// As extracts either the kind sentinel or a type from the cause chain.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the kind sentinel, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }

// KindOf returns the kind of the first *Error found in err's chain, or nil
// when err carries no semantic kind.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.kind
	}

	return nil
}
