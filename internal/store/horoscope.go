package store

import (
	"context"
	"time"

	"github.com/nuuray/glow-api/internal/domain"
)

// HoroscopeStore defines the persistence interface for daily horoscopes.
type HoroscopeStore interface {
	// Exists reports whether a horoscope is already persisted for the given
	// (date, sign, language) triple. It is a point lookup used to skip
	// regeneration within one run. It is NOT a mutual-exclusion gate: there
	// is a time-of-check/time-of-use gap between this read and a later
	// Upsert, so overlapping runs for the same day can each perform the
	// generation call. The Upsert keeps the persisted row unique regardless.
	Exists(ctx context.Context, date time.Time, sign, language string) (bool, error)

	// Upsert writes a horoscope keyed on (date, sign, language), overwriting
	// body, token count, model and updated_at on conflict.
	Upsert(ctx context.Context, horoscope *domain.DailyHoroscope) error

	// DeleteOlderThan removes all horoscopes whose date is strictly before
	// cutoff and returns the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
