package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for client operations.
var (
	// ErrTransport is returned when the request never produced a usable response.
	ErrTransport = errors.New("apiclient: transport error")

	// ErrEncode is returned when the request body cannot be serialized.
	ErrEncode = errors.New("apiclient: failed to encode request body")
)

// APIError is a backend-reported failure: a non-2xx status or an
// envelope with success=false.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient: %s (status %d)", e.Message, e.Status)
}

// Unauthorized reports whether the error is an authentication failure.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsUnauthorized reports whether err is an authentication failure from
// the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
