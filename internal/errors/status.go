// Package errors defines the typed errors shared across tome's packages.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// StatusError represents a non-success HTTP status from the Google Books API.
// Lookups are never retried automatically; the status code is surfaced to the
// caller as-is.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("google books returned status %d for %s", e.StatusCode, e.URL)
}

// NewStatusError creates a StatusError for the given status code and request URL.
func NewStatusError(statusCode int, url string) *StatusError {
	return &StatusError{StatusCode: statusCode, URL: url}
}

// IsStatusError reports whether err is a StatusError (even when wrapped).
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return stdErrors.As(err, &statusErr)
}
