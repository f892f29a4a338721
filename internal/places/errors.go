package places

import (
	"errors"
	"fmt"
)

// ErrNoResults is returned when the upstream place search yields zero
// candidates for a query.
var ErrNoResults = errors.New("no place found for query")

// TransportError reports a non-success response from the upstream place
// API, either at the HTTP layer (non-2xx) or in the API's own status field
// (e.g. REQUEST_DENIED). It carries the status code and raw detail so
// callers can branch on kind instead of string-matching messages.
type TransportError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("place API error (%d): %s", e.StatusCode, e.Body)
}
