// Package apperr defines the error taxonomy shared by the domain services and
// its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Kind classifies a failure. Kinds are sentinel errors so callers can test
// them with errors.Is.
type Kind struct {
	name   string
	status int
}

func (k *Kind) Error() string { return k.name }

// Status returns the HTTP status code the kind maps to.
func (k *Kind) Status() int { return k.status }

var (
	ErrValidation       = &Kind{name: "validation error", status: http.StatusBadRequest}
	ErrAuthentication   = &Kind{name: "authentication error", status: http.StatusUnauthorized}
	ErrPermission       = &Kind{name: "permission denied", status: http.StatusForbidden}
	ErrNotFound         = &Kind{name: "not found", status: http.StatusNotFound}
	ErrMethodNotAllowed = &Kind{name: "method not allowed", status: http.StatusMethodNotAllowed}
	ErrConflict         = &Kind{name: "conflict", status: http.StatusConflict}
)

// Error carries a short human-readable message for the caller together with
// its Kind.
type Error struct {
	Kind    *Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error { return e.Kind }

func newf(k *Kind, format string, args ...any) error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }

func Authentication(format string, args ...any) error {
	return newf(ErrAuthentication, format, args...)
}

func Permission(format string, args ...any) error { return newf(ErrPermission, format, args...) }

func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }

func MethodNotAllowed(format string, args ...any) error {
	return newf(ErrMethodNotAllowed, format, args...)
}

func Conflict(format string, args ...any) error { return newf(ErrConflict, format, args...) }

// KindOf returns the kind of err, or nil when err is not classified.
func KindOf(err error) *Kind {
	var k *Kind
	if errors.As(err, &k) {
		return k
	}
	return nil
}

// HTTP converts err into an *echo.HTTPError. Classified errors keep their
// message; anything else becomes a 500 with a generic message so that
// persistence details never reach the caller.
func HTTP(err error) error {
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var ae *Error
	if errors.As(err, &ae) {
		return echo.NewHTTPError(ae.Kind.status, ae.Message)
	}
	if k := KindOf(err); k != nil {
		return echo.NewHTTPError(k.status, k.name)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}
