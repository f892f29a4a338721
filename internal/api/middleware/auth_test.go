package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nuuray/glow-api/internal/api/middleware"
)

func TestServiceKeyAuth(t *testing.T) {
	t.Parallel()

	const serviceKey = "glow-service-key-0123456789"

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid key",
			authHeader: "Bearer " + serviceKey,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "lowercase scheme accepted",
			authHeader: "bearer " + serviceKey,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic " + serviceKey,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no scheme",
			authHeader: serviceKey,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong key",
			authHeader: "Bearer not-the-key",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "key prefix only",
			authHeader: "Bearer glow-service-key",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			auth := middleware.NewServiceKeyAuth(serviceKey)
			handler := auth.Authenticate(next)

			req := httptest.NewRequest(http.MethodPost, "/api/jobs/daily-horoscopes", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantNext, nextCalled)
			if !tc.wantNext {
				assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
			}
		})
	}
}
