package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Content type discriminators for the daily_content table.
const (
	ContentTypeHoroscope = "horoscope"
)

// AppGlow identifies which app a content row was generated for.
const AppGlow = "glow"

// DailyContent is one row of the daily content catalog, keyed by
// (date, content type, sign, language). Unlike DailyHoroscope it carries a
// content-type discriminator and free-form metadata.
type DailyContent struct {
	ID          uuid.UUID
	Date        time.Time // day granularity, normalized to UTC midnight
	ContentType string
	Sign        string
	Language    string
	Title       string // optional, empty for horoscopes
	Body        string
	Metadata    map[string]string
	App         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDailyContent creates a validated DailyContent row with a fresh ID and
// timestamps.
func NewDailyContent(
	date time.Time,
	contentType, sign, language, body string,
	metadata map[string]string,
) (*DailyContent, error) {
	now := time.Now().UTC()
	c := &DailyContent{
		ID:          uuid.New(),
		Date:        DayOf(date),
		ContentType: contentType,
		Sign:        sign,
		Language:    language,
		Body:        body,
		Metadata:    metadata,
		App:         AppGlow,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the content row satisfies all domain invariants.
func (c *DailyContent) Validate() error {
	if c.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if c.ContentType == "" {
		return fmt.Errorf("%w: content type is required", ErrValidation)
	}
	if !IsZodiacSign(c.Sign) {
		return fmt.Errorf("%w: unknown zodiac sign %q", ErrValidation, c.Sign)
	}
	if c.Language == "" {
		return fmt.Errorf("%w: language is required", ErrValidation)
	}
	if c.Body == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
	}
	return nil
}
