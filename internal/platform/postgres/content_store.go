package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nuuray/glow-api/internal/domain"
	"github.com/nuuray/glow-api/internal/platform/logger"
	"github.com/nuuray/glow-api/internal/store"
)

// ContentStore implements the store.ContentStore interface using a
// PostgreSQL database as the storage backend.
type ContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewContentStore creates a new PostgreSQL implementation of the
// store.ContentStore interface.
func NewContentStore(db store.DBTX, log *slog.Logger) *ContentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ContentStore{
		db:     db,
		logger: log.With(slog.String("component", "content_store")),
	}
}

// Ensure ContentStore implements store.ContentStore.
var _ store.ContentStore = (*ContentStore)(nil)

// ExistsForDate implements store.ContentStore.ExistsForDate.
func (s *ContentStore) ExistsForDate(
	ctx context.Context,
	date time.Time,
	contentType string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT 1
		FROM daily_content
		WHERE content_date = $1 AND content_type = $2
		LIMIT 1
	`

	var one int
	err := s.db.QueryRowContext(ctx, query, domain.DayOf(date), contentType).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		log.Error("failed to check content existence",
			slog.String("error", err.Error()),
			slog.String("content_type", contentType),
			slog.String("date", domain.FormatDay(date)))
		return false, store.NewStoreError("daily_content", "exists", "query failed", MapError(err))
	}
	return true, nil
}

// Upsert implements store.ContentStore.Upsert.
func (s *ContentStore) Upsert(ctx context.Context, content *domain.DailyContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := content.Validate(); err != nil {
		log.Warn("content validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("sign", content.Sign),
			slog.String("language", content.Language))
		return err
	}

	metadata, err := json.Marshal(content.Metadata)
	if err != nil {
		return fmt.Errorf("%w: metadata not serializable: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO daily_content
			(id, content_date, content_type, sun_sign, language, title, body, metadata, app, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11)
		ON CONFLICT (content_date, content_type, sun_sign, language) DO UPDATE SET
			title      = EXCLUDED.title,
			body       = EXCLUDED.body,
			metadata   = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		content.ID,
		content.Date,
		content.ContentType,
		content.Sign,
		content.Language,
		content.Title,
		content.Body,
		metadata,
		content.App,
		content.CreatedAt,
		content.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert daily content",
			slog.String("error", err.Error()),
			slog.String("sign", content.Sign),
			slog.String("language", content.Language),
			slog.String("date", domain.FormatDay(content.Date)))
		return store.NewStoreError("daily_content", "upsert", "exec failed", MapError(err))
	}

	log.Debug("daily content upserted",
		slog.String("sign", content.Sign),
		slog.String("language", content.Language),
		slog.String("date", domain.FormatDay(content.Date)))
	return nil
}
