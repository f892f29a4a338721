package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package.
var (
	// ErrGenerationFailed is returned when generation fails for any general reason.
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the LLM response is empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// TransportError reports a non-success response from the upstream
// generation API. It carries the upstream status code and raw body so
// callers can branch on kind instead of string-matching messages.
type TransportError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("generation API error (%d): %s", e.StatusCode, e.Body)
}
