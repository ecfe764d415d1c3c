// Package apperr gives every handler-facing failure a single shape: a
// Kind the HTTP layer maps to a status code, and a stable Code string
// sent to clients. It generalizes the ad-hoc gin.H{"error": ...}
// literals scattered through handlers into one mapping kept in one
// place, and fixes the error vocabulary surfaced at the API boundary:
// badRequest, invalidArgument, invalidMethod, mapNotFound, invalidToken,
// unknownToken, plus an unkinded internal failure.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the purpose of choosing an HTTP status
// code. It says nothing about the message text.
type Kind int

const (
	// KindBadRequest covers a malformed request body or missing
	// Content-Type.
	KindBadRequest Kind = iota
	// KindInvalidArgument covers a well-formed request whose field
	// values are not acceptable (e.g. an empty user name).
	KindInvalidArgument
	// KindInvalidMethod covers a request to a known path with the
	// wrong HTTP method.
	KindInvalidMethod
	// KindMapNotFound covers an unknown or non-joinable map id.
	KindMapNotFound
	// KindInvalidToken covers a missing or malformed Authorization
	// header.
	KindInvalidToken
	// KindUnknownToken covers a well-formed token the registry does
	// not recognize (never issued, or already retired).
	KindUnknownToken
	// KindInternal covers everything else: a failure the client
	// couldn't have prevented by sending a different request.
	KindInternal
)

// Error is the error type every handler returns instead of a bare
// error. Code is the stable machine-readable string sent to clients;
// Message is the human-readable detail.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// BadRequest builds a 400-class error for a malformed request.
func BadRequest(format string, args ...any) *Error {
	return newError(KindBadRequest, "badRequest", format, args...)
}

// InvalidArgument builds a 400-class error for an unacceptable field
// value in an otherwise well-formed request.
func InvalidArgument(format string, args ...any) *Error {
	return newError(KindInvalidArgument, "invalidArgument", format, args...)
}

// InvalidMethod builds a 405-class error.
func InvalidMethod(format string, args ...any) *Error {
	return newError(KindInvalidMethod, "invalidMethod", format, args...)
}

// MapNotFound builds a 404-class error.
func MapNotFound(format string, args ...any) *Error {
	return newError(KindMapNotFound, "mapNotFound", format, args...)
}

// InvalidToken builds a 401-class error for a missing/malformed
// Authorization header.
func InvalidToken(format string, args ...any) *Error {
	return newError(KindInvalidToken, "invalidToken", format, args...)
}

// UnknownToken builds a 401-class error for a well-formed token the
// registry does not recognize.
func UnknownToken(format string, args ...any) *Error {
	return newError(KindUnknownToken, "unknownToken", format, args...)
}

// Internal builds a 500-class error. The HTTP layer sends Message to
// the client as-is, so callers should keep it short and free of
// internal detail.
func Internal(format string, args ...any) *Error {
	return newError(KindInternal, "internal", format, args...)
}

// As reports whether err is (or wraps) an *Error, returning it if so.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
