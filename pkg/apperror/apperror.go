// Package apperror classifies failures into the kinds the HTTP layer knows how
// to report, and writes them as JSON error bodies.
package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation_error"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindStore      Kind = "store_error"
	KindUpstream   Kind = "upstream_error"
)

// Error is a classified failure. Message is safe to show to callers.
type Error struct {
	Kind    Kind
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

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

func Store(msg string, err error) error { return &Error{Kind: KindStore, Message: msg, Err: err} }

func Upstream(msg string, err error) error { return &Error{Kind: KindUpstream, Message: msg, Err: err} }

// KindOf reports the kind of err. Unclassified errors are store errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func Status(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON shape of every error response.
type Body struct {
	Error   Kind   `json:"error"`
	Message string `json:"message"`
}

// Write renders err as a JSON error response. The message of a store error
// includes the underlying driver message but never a stack trace.
func Write(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	msg := err.Error()
	var appErr *Error
	if errors.As(err, &appErr) && (kind == KindValidation || kind == KindForbidden || kind == KindNotFound) {
		msg = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(kind))
	json.NewEncoder(w).Encode(Body{Error: kind, Message: msg})
}
