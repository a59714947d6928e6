package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("request conflicts with current state")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the server's human-readable explanation, if it sent one.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// Unwrap returns the sentinel matching the status code.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}
}

// NetworkError is a transport-level failure: no HTTP status was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// ErrorKind is the client-side error taxonomy.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindNetworkFailure     ErrorKind = "network_failure"
	KindAuthExpired        ErrorKind = "auth_expired"
	KindValidationConflict ErrorKind = "validation_conflict"
	KindAuthorization      ErrorKind = "authorization_denied"
	KindServerError        ErrorKind = "server_error"
)

// Classify maps err onto the taxonomy. A 400 only counts as a validation
// conflict when its detail is recognised by ConflictOf.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	switch {
	case errors.Is(err, ErrUnavailable):
		return KindNetworkFailure
	case errors.Is(err, ErrUnauthorized):
		return KindAuthExpired
	case errors.Is(err, ErrForbidden):
		return KindAuthorization
	case errors.Is(err, ErrConflict) && ConflictOf(err) != ConflictNone:
		return KindValidationConflict
	default:
		return KindServerError
	}
}

// Conflict names a recognised duplicate-action response.
type Conflict string

const (
	ConflictNone             Conflict = ""
	ConflictAlreadySent      Conflict = "already_sent"
	ConflictAlreadyConnected Conflict = "already_connected"
)

var (
	alreadyConnectedMarkers = []string{"already connected"}
	alreadySentMarkers      = []string{"already sent", "already exists", "pending request", "already pending"}
)

// ConflictOf inspects a 400/409 APIError detail. Anything else, including
// an unrecognised detail, yields ConflictNone.
func ConflictOf(err error) Conflict {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !errors.Is(apiErr, ErrConflict) {
		return ConflictNone
	}
	detail := strings.ToLower(apiErr.Detail)
	for _, m := range alreadyConnectedMarkers {
		if strings.Contains(detail, m) {
			return ConflictAlreadyConnected
		}
	}
	for _, m := range alreadySentMarkers {
		if strings.Contains(detail, m) {
			return ConflictAlreadySent
		}
	}
	return ConflictNone
}

// DetailOf returns the server detail carried by err, or "".
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
