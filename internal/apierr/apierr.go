// Package apierr classifies every action failure into one structured Error.
//
// Kinds:
//   - transport: no response was received (network, timeout, cancellation)
//   - server: a response arrived with status >= 400 (client and server faults)
//   - parse: the response decoder failed on an otherwise successful response
//
// Errors are only built by Classify and ClassifyParse. Classification never
// panics; an unrecognized body falls back to a generic message.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind is the failure category
type Kind int

const (
	KindTransport Kind = iota + 1
	KindServer
	KindParse
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

var (
	// ErrNoResponse is the cause used when a failure carries neither a
	// response nor an underlying error.
	ErrNoResponse = errors.New("no response received")
	// ErrDecode wraps recovered decoder panics
	ErrDecode = errors.New("response decoder panicked")
	// ErrPanic wraps panics recovered from caller-supplied callbacks such as
	// request payloads, credential sources and middlewares
	ErrPanic = errors.New("action callback panicked")
)

// Target identifies the call an error belongs to
type Target struct {
	Method string
	Path   string
}

// Response is the subset of a transport response the classifier reads
type Response interface {
	StatusCode() int
	Status() string
	Body() []byte
}

// Error is the single structured failure value of an action
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int
	Message    string
	// ServerErrors holds the structured "errors" member of the body, if any
	ServerErrors any
	// Body is the raw response body, kept for diagnostics
	Body  []byte
	Cause error
}

// Error implements error
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: %s error %d: %s", e.Method, e.Path, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s error: %s", e.Method, e.Path, e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsClientError reports a 4xx response
func (e *Error) IsClientError() bool {
	return e.Kind == KindServer && e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError reports a 5xx response
func (e *Error) IsServerError() bool {
	return e.Kind == KindServer && e.StatusCode >= 500
}

// Unauthorized reports a 401 response
func (e *Error) Unauthorized() bool {
	return e.Kind == KindServer && e.StatusCode == http.StatusUnauthorized
}

// Cancelled reports a transport failure caused by cancellation
func (e *Error) Cancelled() bool {
	return e.Kind == KindTransport && errors.Is(e.Cause, context.Canceled)
}

// Timeout reports a transport failure caused by a deadline
func (e *Error) Timeout() bool {
	if e.Kind != KindTransport {
		return false
	}
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Cause, &te) && te.Timeout()
}

// As extracts an *Error from err
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// FieldErrors returns ServerErrors normalized as a field map, if it is one
func (e *Error) FieldErrors() map[string][]string {
	return FieldErrors(e.ServerErrors)
}
