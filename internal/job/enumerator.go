package job

import (
	"context"
	"log/slog"

	"github.com/nuuray/glow-api/internal/domain"
	"github.com/nuuray/glow-api/internal/store"
)

// Enumerator computes the set of (sign, language) work items needing
// generation for a run. When user profiles are readable and non-empty, only
// the combinations active users actually need are generated; otherwise the
// full catalog is used.
type Enumerator struct {
	profiles store.ProfileStore
	logger   *slog.Logger
}

// NewEnumerator creates an Enumerator backed by the given profile source.
func NewEnumerator(profiles store.ProfileStore, log *slog.Logger) *Enumerator {
	if log == nil {
		log = slog.Default()
	}
	return &Enumerator{
		profiles: profiles,
		logger:   log.With(slog.String("component", "enumerator")),
	}
}

// Enumerate returns the deduplicated work-item set for one run. Profiles
// without a language preference fall back to domain.DefaultLanguage. A
// profile read failure is logged and degrades to the full cartesian
// product; it never fails the run. Output order is stable within a run:
// first-seen profile order, or catalog order for the fallback.
func (e *Enumerator) Enumerate(ctx context.Context) []domain.WorkItem {
	prefs, err := e.profiles.DistinctPreferences(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to read profile preferences, generating full catalog",
			slog.String("error", err.Error()))
		return domain.AllWorkItems()
	}

	if len(prefs) == 0 {
		e.logger.InfoContext(ctx, "no active profiles, generating full catalog")
		return domain.AllWorkItems()
	}

	seen := make(map[string]struct{}, len(prefs))
	items := make([]domain.WorkItem, 0, len(prefs))
	for _, pref := range prefs {
		language := domain.DefaultLanguage
		if pref.Language != nil && *pref.Language != "" {
			language = *pref.Language
		}
		item := domain.WorkItem{Sign: pref.Sign, Language: language}
		if _, ok := seen[item.Key()]; ok {
			continue
		}
		seen[item.Key()] = struct{}{}
		items = append(items, item)
	}

	e.logger.InfoContext(ctx, "work items enumerated from profiles",
		slog.Int("profiles", len(prefs)),
		slog.Int("items", len(items)))
	return items
}
