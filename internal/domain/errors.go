package domain

import "errors"

// ErrValidation is returned when a domain entity fails validation.
// It is wrapped with a more specific message at the point of failure.
var ErrValidation = errors.New("validation failed")
