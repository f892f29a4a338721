package generation

import (
	"context"
	"time"
)

// HoroscopeParams identifies one horoscope to generate for the batched
// daily-horoscope job.
type HoroscopeParams struct {
	Sign     string
	Language string
	Date     time.Time
}

// ContentParams identifies one row of the daily content catalog to
// generate. MoonPhase and DailyEnergy are free-text context woven into the
// prompt.
type ContentParams struct {
	Sign        string
	Language    string
	Date        time.Time
	MoonPhase   string
	DailyEnergy string
}

// Result is the outcome of a single successful generation call.
type Result struct {
	// Text is the generated body text.
	Text string

	// Tokens is the total token usage (input + output) reported upstream.
	Tokens int

	// Model is the identifier of the model that produced the text.
	Model string
}

// Generator is the boundary between the jobs and the external text
// generation service. Implementations perform exactly one upstream call per
// invocation and never retry; callers treat failures as per-item outcomes.
type Generator interface {
	// GenerateHoroscope produces a daily horoscope using a per-language
	// system instruction.
	GenerateHoroscope(ctx context.Context, params HoroscopeParams) (*Result, error)

	// GenerateDailyContent produces a daily content body from a single
	// combined prompt carrying moon phase and daily energy context.
	GenerateDailyContent(ctx context.Context, params ContentParams) (*Result, error)
}
