package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DailyHoroscope is a generated horoscope for one (date, sign, language)
// triple. A record is created once per triple; an idempotent re-write only
// refreshes the body, token count, model and UpdatedAt. Records older than
// the retention horizon are removed by the sweep.
type DailyHoroscope struct {
	ID          uuid.UUID
	Date        time.Time // day granularity, normalized to UTC midnight
	Sign        string
	Language    string
	ContentText string
	TokensUsed  int
	ModelUsed   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDailyHoroscope creates a validated DailyHoroscope with a fresh ID and
// timestamps. The date is normalized to day granularity.
func NewDailyHoroscope(
	date time.Time,
	sign, language, contentText string,
	tokensUsed int,
	modelUsed string,
) (*DailyHoroscope, error) {
	now := time.Now().UTC()
	h := &DailyHoroscope{
		ID:          uuid.New(),
		Date:        DayOf(date),
		Sign:        sign,
		Language:    language,
		ContentText: contentText,
		TokensUsed:  tokensUsed,
		ModelUsed:   modelUsed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks that the horoscope satisfies all domain invariants.
func (h *DailyHoroscope) Validate() error {
	if h.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if !IsZodiacSign(h.Sign) {
		return fmt.Errorf("%w: unknown zodiac sign %q", ErrValidation, h.Sign)
	}
	if h.Language == "" {
		return fmt.Errorf("%w: language is required", ErrValidation)
	}
	if h.ContentText == "" {
		return fmt.Errorf("%w: content text is required", ErrValidation)
	}
	if h.TokensUsed < 0 {
		return fmt.Errorf("%w: token count must not be negative", ErrValidation)
	}
	if h.ModelUsed == "" {
		return fmt.Errorf("%w: model identifier is required", ErrValidation)
	}
	return nil
}

// DayOf truncates t to day granularity in UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a day-granularity date the way it appears in API
// responses and database DATE columns.
func FormatDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
