package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/nuuray/glow-api/internal/config"
	"github.com/nuuray/glow-api/internal/generation"
	"github.com/nuuray/glow-api/internal/job"
	"github.com/nuuray/glow-api/internal/places"
	"github.com/nuuray/glow-api/internal/platform/gemini"
	"github.com/nuuray/glow-api/internal/platform/postgres"
	"github.com/nuuray/glow-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	horoscopeStore store.HoroscopeStore
	contentStore   store.ContentStore
	profileStore   store.ProfileStore

	// External services
	generator generation.Generator
	resolver  places.Resolver

	// Jobs
	horoscopeJob *job.HoroscopeJob
	contentJob   *job.ContentJob
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.horoscopeStore = postgres.NewHoroscopeStore(db, logger)
	app.contentStore = postgres.NewContentStore(db, logger)
	app.profileStore = postgres.NewProfileStore(db, logger)

	// Create the LLM generator service
	var err error
	app.generator, err = gemini.NewGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", slog.String("model", cfg.LLM.ModelName))

	// Create the place resolver
	app.resolver, err = places.NewGoogleResolver(logger, cfg.Places)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize place resolver: %w", err)
	}

	// Wire the generation jobs
	enumerator := job.NewEnumerator(app.profileStore, logger)
	app.horoscopeJob = job.NewHoroscopeJob(
		app.horoscopeStore,
		app.generator,
		enumerator,
		logger,
		cfg.Job.BatchSize,
		cfg.Job.RetentionDays,
	)
	app.contentJob = job.NewContentJob(
		app.contentStore,
		app.generator,
		logger,
		time.Duration(cfg.Job.InterCallDelayMs)*time.Millisecond,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
