package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/nuuray/glow-api/internal/platform/logger"
	"github.com/nuuray/glow-api/internal/store"
)

// ProfileStore implements the store.ProfileStore interface using a
// PostgreSQL database as the storage backend.
type ProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProfileStore creates a new PostgreSQL implementation of the
// store.ProfileStore interface.
func NewProfileStore(db store.DBTX, log *slog.Logger) *ProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProfileStore{
		db:     db,
		logger: log.With(slog.String("component", "profile_store")),
	}
}

// Ensure ProfileStore implements store.ProfileStore.
var _ store.ProfileStore = (*ProfileStore)(nil)

// DistinctPreferences implements store.ProfileStore.DistinctPreferences.
// Rows without a sun sign are excluded; a NULL preferred language is
// surfaced as nil so the enumerator can apply its fallback.
func (s *ProfileStore) DistinctPreferences(ctx context.Context) ([]store.Preference, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT sun_sign, preferred_language
		FROM profiles
		WHERE sun_sign IS NOT NULL
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query profile preferences", slog.String("error", err.Error()))
		return nil, store.NewStoreError("profile", "distinct_preferences", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var prefs []store.Preference
	for rows.Next() {
		var sign string
		var language sql.NullString
		if err := rows.Scan(&sign, &language); err != nil {
			return nil, store.NewStoreError("profile", "distinct_preferences", "scan failed", MapError(err))
		}
		pref := store.Preference{Sign: sign}
		if language.Valid {
			lang := language.String
			pref.Language = &lang
		}
		prefs = append(prefs, pref)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("profile", "distinct_preferences", "iteration failed", MapError(err))
	}

	log.Debug("profile preferences loaded", slog.Int("count", len(prefs)))
	return prefs, nil
}
