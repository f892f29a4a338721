package store

import (
	"context"
	"time"

	"github.com/nuuray/glow-api/internal/domain"
)

// ContentStore defines the persistence interface for the daily content catalog.
type ContentStore interface {
	// ExistsForDate reports whether any content row of the given type is
	// already persisted for the date. The content job uses it to
	// short-circuit a whole run.
	ExistsForDate(ctx context.Context, date time.Time, contentType string) (bool, error)

	// Upsert writes a content row keyed on (date, content_type, sign,
	// language), overwriting body, metadata and updated_at on conflict.
	Upsert(ctx context.Context, content *domain.DailyContent) error
}
