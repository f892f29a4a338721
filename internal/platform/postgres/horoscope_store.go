package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/nuuray/glow-api/internal/domain"
	"github.com/nuuray/glow-api/internal/platform/logger"
	"github.com/nuuray/glow-api/internal/store"
)

// HoroscopeStore implements the store.HoroscopeStore interface using a
// PostgreSQL database as the storage backend.
type HoroscopeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewHoroscopeStore creates a new PostgreSQL implementation of the
// store.HoroscopeStore interface. It accepts a database connection or
// transaction managed by the caller. If logger is nil, the default logger
// is used.
func NewHoroscopeStore(db store.DBTX, log *slog.Logger) *HoroscopeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &HoroscopeStore{
		db:     db,
		logger: log.With(slog.String("component", "horoscope_store")),
	}
}

// Ensure HoroscopeStore implements store.HoroscopeStore.
var _ store.HoroscopeStore = (*HoroscopeStore)(nil)

// Exists implements store.HoroscopeStore.Exists.
func (s *HoroscopeStore) Exists(
	ctx context.Context,
	date time.Time,
	sign, language string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT 1
		FROM daily_horoscopes
		WHERE date = $1 AND zodiac_sign = $2 AND language = $3
	`

	var one int
	err := s.db.QueryRowContext(ctx, query, domain.DayOf(date), sign, language).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		log.Error("failed to check horoscope existence",
			slog.String("error", err.Error()),
			slog.String("sign", sign),
			slog.String("language", language))
		return false, store.NewStoreError("horoscope", "exists", "query failed", MapError(err))
	}
	return true, nil
}

// Upsert implements store.HoroscopeStore.Upsert. The write is keyed on
// (date, zodiac_sign, language) so redundant generation under overlapping
// runs still converges on a single persisted row.
func (s *HoroscopeStore) Upsert(ctx context.Context, horoscope *domain.DailyHoroscope) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := horoscope.Validate(); err != nil {
		log.Warn("horoscope validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("sign", horoscope.Sign),
			slog.String("language", horoscope.Language))
		return err
	}

	query := `
		INSERT INTO daily_horoscopes
			(id, date, zodiac_sign, language, content_text, tokens_used, model_used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (date, zodiac_sign, language) DO UPDATE SET
			content_text = EXCLUDED.content_text,
			tokens_used  = EXCLUDED.tokens_used,
			model_used   = EXCLUDED.model_used,
			updated_at   = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		horoscope.ID,
		horoscope.Date,
		horoscope.Sign,
		horoscope.Language,
		horoscope.ContentText,
		horoscope.TokensUsed,
		horoscope.ModelUsed,
		horoscope.CreatedAt,
		horoscope.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert horoscope",
			slog.String("error", err.Error()),
			slog.String("sign", horoscope.Sign),
			slog.String("language", horoscope.Language),
			slog.String("date", domain.FormatDay(horoscope.Date)))
		return store.NewStoreError("horoscope", "upsert", "exec failed", MapError(err))
	}

	log.Debug("horoscope upserted",
		slog.String("sign", horoscope.Sign),
		slog.String("language", horoscope.Language),
		slog.String("date", domain.FormatDay(horoscope.Date)),
		slog.Int("tokens", horoscope.TokensUsed))
	return nil
}

// DeleteOlderThan implements store.HoroscopeStore.DeleteOlderThan.
func (s *HoroscopeStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM daily_horoscopes WHERE date < $1`

	result, err := s.db.ExecContext(ctx, query, domain.DayOf(cutoff))
	if err != nil {
		log.Error("failed to delete old horoscopes",
			slog.String("error", err.Error()),
			slog.String("cutoff", domain.FormatDay(cutoff)))
		return 0, store.NewStoreError("horoscope", "sweep", "exec failed", MapError(err))
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("horoscope", "sweep", "rows affected unavailable", MapError(err))
	}

	log.Info("old horoscopes deleted",
		slog.String("cutoff", domain.FormatDay(cutoff)),
		slog.Int64("deleted", deleted))
	return deleted, nil
}
