// Package errs defines the error taxonomy shared by every assetstore package.
//
// Each failure kind is a sentinel. Failures are reported as [*Error], the
// common base carrying a human-readable message, so callers can match a
// specific kind with [errors.Is] or fall back to [errors.As] on [*Error]
// for generic handling:
//
//	var ae *errs.Error
//	switch {
//	case errors.Is(err, errs.ErrTokenExpired):
//		// refresh credentials
//	case errors.Is(err, errs.ErrNotFound):
//		// skip the asset
//	case errors.As(err, &ae):
//		log.Println(ae.Message)
//	}
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MaxBodyExcerpt caps how much of a response body is kept on an [Error].
const MaxBodyExcerpt = 4 << 10 // 4KB

var (
	// ErrAuthentication is returned for 401/403 responses or when no
	// credential can be produced.
	ErrAuthentication = errors.New("authentication failed")
	// ErrTokenExpired is returned when the token is found expired before a
	// request is made. It also matches ErrAuthentication.
	ErrTokenExpired = fmt.Errorf("token expired: %w", ErrAuthentication)
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrAPI is returned for any other non-2xx response.
	ErrAPI = errors.New("api error")
	// ErrNetwork is returned for transport timeouts and connection failures.
	ErrNetwork = errors.New("network error")
	// ErrParse is returned for malformed payloads.
	ErrParse = errors.New("parse error")
	// ErrPathTraversal is returned when a resolved path escapes its base directory.
	ErrPathTraversal = errors.New("path traversal detected")
)

// Error is the common base of every failure in the taxonomy.
type Error struct {
	// Err is the taxonomy sentinel.
	Err error
	// Message is a human-readable description.
	Message string
	// StatusCode is the HTTP status, when the failure came from a response.
	StatusCode int
	// Body is an excerpt of the response body, when there was one.
	Body string

	cause error
}

// New constructs an Error of the given kind.
func New(kind error, msg string) *Error {
	return &Error{Err: kind, Message: msg}
}

// Wrap constructs an Error of the given kind caused by err.
func Wrap(kind error, err error, msg string) *Error {
	return &Error{Err: kind, Message: msg, cause: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}

	return b.String()
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.cause}
}

// FromStatus maps an HTTP status code to the taxonomy. It returns nil for
// 2xx codes. The body is only kept as an excerpt and is never parsed, so an
// empty or malformed body never changes the resulting kind.
func FromStatus(code int, body string) error {
	if code >= 200 && code < 300 {
		return nil
	}

	if len(body) > MaxBodyExcerpt {
		body = body[:MaxBodyExcerpt]
	}

	e := &Error{StatusCode: code, Body: body}
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Err = ErrAuthentication
		e.Message = "check your access token"
	case http.StatusNotFound:
		e.Err = ErrNotFound
		e.Message = "resource does not exist"
	default:
		e.Err = ErrAPI
		e.Message = http.StatusText(code)
	}

	return e
}

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return 0
	}

	return e.StatusCode
}
