// Package apperr defines error values shared across the application.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound reports that a vault path does not exist.
var ErrNotFound = errors.New("not found")

// APIError is a non-success response from the vault API. It carries the
// HTTP status code and the raw response body so callers can surface both.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vault API error %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps 404 responses onto ErrNotFound so callers can use errors.Is
// without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}
