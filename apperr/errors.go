// Package apperr defines the error taxonomy shared by every layer.
// Handlers map kinds to HTTP status codes; everything below the HTTP
// surface deals only in kinds.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a request failure.
type Kind int

const (
	// NotFound means a referenced entity does not exist.
	NotFound Kind = iota + 1
	// Unauthorized means the credential is missing, invalid or does not
	// resolve to a known recorder.
	Unauthorized
	// Forbidden means the authenticated recorder lacks permission for
	// one specific resource.
	Forbidden
	// Conflict means the request would redefine an existing identity or
	// tripped a store uniqueness constraint.
	Conflict
	// Consistency means the mutation would violate a relationship
	// invariant (non-empty series, current series, referenced preset).
	Consistency
	// InvalidFilter means a listing filter failed to parse or compose.
	InvalidFilter
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case Consistency:
		return "consistency violation"
	case InvalidFilter:
		return "invalid filter"
	}
	return "unknown"
}

// Error is a kind-tagged error. It may wrap an underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kind-tagged error with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and message.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// NotFoundf is shorthand for New(NotFound, ...).
func NotFoundf(format string, args ...interface{}) error {
	return New(NotFound, format, args...)
}

// KindOf reports the kind of err, or 0 if it carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
