// Package apperr classifies failures at the client boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the failure class of an error.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindTransport       Kind = "transport"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindSessionExpired  Kind = "session_expired"
	KindDomain          Kind = "domain"
	KindUnexpected      Kind = "unexpected"
)

// TransportMessage is shown when the server could not be reached.
const TransportMessage = "network error, please check your connection and try again"

// Error is a classified failure. Message is user-facing; Err is the cause.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds an input error raised before any network call.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Transport wraps a connectivity or timeout failure.
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// FromStatus classifies an HTTP error response.
func FromStatus(status int, message string) *Error {
	kind := KindDomain
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthenticated
	case status == http.StatusForbidden:
		kind = KindForbidden
	case status == http.StatusGone:
		kind = KindSessionExpired
	case status >= 500:
		kind = KindUnexpected
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// KindOf returns the kind of err, or KindUnexpected for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message extracts the text to show the user: the server message first, then a
// transport message, then fallback. Unexpected failures always use fallback.
func Message(err error, fallback string) string {
	var e *Error
	if !errors.As(err, &e) {
		return fallback
	}
	if e.Message != "" && e.Kind != KindUnexpected {
		return e.Message
	}
	if e.Kind == KindTransport {
		return TransportMessage
	}
	return fallback
}

// HTTPStatus maps err to the status the console answers with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated, KindSessionExpired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTransport:
		return http.StatusBadGateway
	case KindDomain:
		if e.Status >= 400 && e.Status < 500 {
			return e.Status
		}
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
