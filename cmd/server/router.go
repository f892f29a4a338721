package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/nuuray/glow-api/internal/api"
	apiMiddleware "github.com/nuuray/glow-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	jobHandler := api.NewJobHandler(app.horoscopeJob, app.contentJob, app.logger)
	placeHandler := api.NewPlaceHandler(app.resolver, app.logger)
	serviceKeyAuth := apiMiddleware.NewServiceKeyAuth(app.config.Auth.ServiceKey)

	// The place endpoint is called directly from browser clients, so it
	// carries CORS headers and answers preflight requests. The job endpoints
	// are scheduler-only and need neither.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	r.Route("/api", func(r chi.Router) {
		// Scheduler endpoints (service key required)
		r.Group(func(r chi.Router) {
			r.Use(serviceKeyAuth.Authenticate)
			r.Post("/jobs/daily-horoscopes", jobHandler.RunDailyHoroscopes)
			r.Post("/jobs/daily-content", jobHandler.RunDailyContent)
		})

		// Public place resolution endpoint
		r.Group(func(r chi.Router) {
			r.Use(corsHandler.Handler)
			r.Post("/places/resolve", placeHandler.ResolvePlace)
			r.Options("/places/resolve", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
