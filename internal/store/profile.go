package store

import "context"

// Preference is one distinct (sign, language) combination observed in user
// profiles. Language is nil when the profile row carries no preference.
type Preference struct {
	Sign     string
	Language *string
}

// ProfileStore provides read access to user profile preferences. It is the
// dynamic work-list source for the horoscope job; a read failure makes the
// enumerator fall back to the full catalog rather than failing the run.
type ProfileStore interface {
	// DistinctPreferences returns the distinct (sun sign, preferred
	// language) pairs of profiles that have a sun sign set.
	DistinctPreferences(ctx context.Context) ([]Preference, error)
}
