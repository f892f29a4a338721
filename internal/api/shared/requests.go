package shared

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Handlers run decoded request
// bodies through ValidateRequest so struct tag semantics stay uniform
// across endpoints.
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateRequest checks the struct tag constraints of a decoded request
// body. On failure the returned error is a validator.ValidationErrors.
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}
