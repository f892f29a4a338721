package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/nuuray/glow-api/internal/api/shared"
)

// ServiceKeyAuth guards the scheduler-only job endpoints with a static
// bearer key. Callers present the key as "Authorization: Bearer <key>"; the
// comparison is constant-time so the key length and prefix cannot be probed.
type ServiceKeyAuth struct {
	serviceKey string
}

// NewServiceKeyAuth creates a middleware instance for the given key.
func NewServiceKeyAuth(serviceKey string) *ServiceKeyAuth {
	return &ServiceKeyAuth{serviceKey: serviceKey}
}

// Authenticate verifies the bearer key before passing the request through.
// Missing, malformed, or mismatched credentials all produce the same 401 so
// the response does not reveal which check failed.
func (a *ServiceKeyAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {key}")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(a.serviceKey)) != 1 {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid service key")
			return
		}

		next.ServeHTTP(w, r)
	})
}
