// Package transport defines the typed access-denial conditions that cross
// the service boundary, their wire serialization, and small helpers for
// propagating bearer credentials between requests.
//
// The two rejection conditions, Unauthorized (401) and Forbidden (403),
// are the only errors external callers ever see from the securing layer.
// They serialize as a compact JSON document distinguishable by an explicit
// name and never carry stack traces or internal detail.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Names of the rejection conditions as they appear on the wire.
const (
	NameUnauthorized = "Unauthorized"
	NameForbidden    = "Forbidden"
)

// Error is a typed, transport-serializable rejection. Code is the HTTP
// status it maps to; Detail is the user-visible message.
type Error struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
	Code   int    `json:"-"`
}

func (e *Error) Error() string { return e.Detail }

// NewUnauthorized builds the 401 rejection condition.
func NewUnauthorized(detail string) *Error {
	return &Error{Name: NameUnauthorized, Detail: detail, Code: http.StatusUnauthorized}
}

// NewForbidden builds the 403 rejection condition.
func NewForbidden(detail string) *Error {
	return &Error{Name: NameForbidden, Detail: detail, Code: http.StatusForbidden}
}

// IsUnauthorized reports whether err is (or wraps) the 401 condition.
func IsUnauthorized(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Name == NameUnauthorized
}

// IsForbidden reports whether err is (or wraps) the 403 condition.
func IsForbidden(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Name == NameForbidden
}

// WriteError serializes err to the response. Typed rejections keep their
// status and detail; any other error becomes an opaque 500 so that internal
// failures never leak across the boundary.
func WriteError(w http.ResponseWriter, err error) {
	var te *Error
	if !errors.As(err, &te) {
		te = &Error{Name: "InternalServerError", Detail: "Internal server error", Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(te.Code)
	_ = json.NewEncoder(w).Encode(te)
}

// Decode reconstructs a typed Error from a response status and body. It is
// the client-side counterpart of WriteError: a caller receiving a 401/403
// from a secured service gets back the same typed condition the service
// raised. Unrecognized payloads yield a generic Error carrying the status.
func Decode(statusCode int, body []byte) *Error {
	e := &Error{Code: statusCode}
	if err := json.Unmarshal(body, e); err != nil || e.Name == "" {
		e.Name = http.StatusText(statusCode)
		e.Detail = string(body)
	}
	e.Code = statusCode
	return e
}
