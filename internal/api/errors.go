package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nuuray/glow-api/internal/places"
	"github.com/nuuray/glow-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var transportErr *places.TransportError

	switch {
	// Not found errors
	case errors.Is(err, places.ErrNoResults),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrHoroscopeNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Upstream failures surface as server errors regardless of the code the
	// upstream returned; their details stay in the logs.
	case errors.As(err, &transportErr):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var transportErr *places.TransportError

	switch {
	case errors.Is(err, places.ErrNoResults):
		return "No matching place found"

	case errors.Is(err, store.ErrHoroscopeNotFound):
		return "Horoscope not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.As(err, &transportErr):
		return "Upstream service request failed"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'ResolvePlaceRequest.Query' Error:Field validation
	// for 'Query' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "datetime":
		return "invalid date format"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
