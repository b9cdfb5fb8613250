// Package apperr carries typed application errors from services to HTTP
// handlers. Each error has a public message safe to return to clients and
// an internal detail that only reaches the logs.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Validation Kind = iota
	NotFound
	Unauthorized
	RateLimited
	Conflict
	Upstream
	Internal
)

type Error struct {
	Kind     Kind
	Public   string // safe to expose to clients
	Internal string // detailed error for logs only
	Err      error  // underlying error, if any
}

func (e *Error) Error() string {
	if e.Internal != "" {
		return e.Internal
	}
	return e.Public
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case RateLimited:
		return http.StatusTooManyRequests
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, public string) *Error {
	return &Error{Kind: kind, Public: public, Internal: public}
}

func Wrap(kind Kind, public string, err error) *Error {
	internal := public
	if err != nil {
		internal = public + ": " + err.Error()
	}
	return &Error{Kind: kind, Public: public, Internal: internal, Err: err}
}

// As extracts an *Error, defaulting unknown errors to Internal with a
// generic public message so secrets and config state never leak.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: Internal, Public: "Internal Server Error", Internal: err.Error(), Err: err}
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
