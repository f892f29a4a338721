package job

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/nuuray/glow-api/internal/domain"
	"github.com/nuuray/glow-api/internal/generation"
	"github.com/nuuray/glow-api/internal/store"
)

// previewLength bounds the body excerpt included in per-item results.
const previewLength = 100

// costPerThousandTokens approximates the upstream price of one run; it is
// reported for operator visibility only.
const costPerThousandTokens = 0.015

// HoroscopeJob generates the day's horoscopes for every enumerated
// (sign, language) pair, batched with bounded concurrency, skipping pairs
// already persisted and sweeping records past the retention horizon.
type HoroscopeJob struct {
	horoscopes    store.HoroscopeStore
	generator     generation.Generator
	enumerator    *Enumerator
	logger        *slog.Logger
	batchSize     int
	retentionDays int
}

// NewHoroscopeJob wires a HoroscopeJob from its collaborators.
func NewHoroscopeJob(
	horoscopes store.HoroscopeStore,
	generator generation.Generator,
	enumerator *Enumerator,
	log *slog.Logger,
	batchSize int,
	retentionDays int,
) *HoroscopeJob {
	if log == nil {
		log = slog.Default()
	}
	return &HoroscopeJob{
		horoscopes:    horoscopes,
		generator:     generator,
		enumerator:    enumerator,
		logger:        log.With(slog.String("component", "horoscope_job")),
		batchSize:     batchSize,
		retentionDays: retentionDays,
	}
}

// HoroscopeItemResult is the per-item entry of the job report.
type HoroscopeItemResult struct {
	Sign     string `json:"zodiacSign"`
	Language string `json:"language"`
	Text     string `json:"text"`
	Tokens   int    `json:"tokens"`
	Success  bool   `json:"success"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HoroscopeReport summarizes one run of the job.
type HoroscopeReport struct {
	Date        time.Time
	Generated   int
	Skipped     int
	Errors      int
	TotalTokens int
	// EstimatedCostUSD approximates the upstream spend for this run.
	EstimatedCostUSD float64
	Results          []HoroscopeItemResult
}

// Run executes the job for the given date. Per-item failures are recorded
// in the report and never fail the run; only enumeration-independent setup
// problems surface as an error. The retention sweep runs after all writes;
// its failure is logged and swallowed.
//
// There is no cross-invocation lock: two overlapping runs for the same date
// can both pass the per-item existence check and both call the generator.
// The store upsert keeps the persisted rows unique regardless.
func (j *HoroscopeJob) Run(ctx context.Context, date time.Time) (*HoroscopeReport, error) {
	day := domain.DayOf(date)
	items := j.enumerator.Enumerate(ctx)

	j.logger.InfoContext(ctx, "starting daily horoscope generation",
		slog.String("date", domain.FormatDay(day)),
		slog.Int("items", len(items)),
		slog.Int("batch_size", j.batchSize))

	outcomes, summary := RunBatches(ctx, j.logger, items, j.batchSize, j.generateOne(day))

	report := &HoroscopeReport{
		Date:             day,
		Generated:        summary.Success,
		Skipped:          summary.Skipped,
		Errors:           summary.Failed,
		TotalTokens:      summary.TotalTokens,
		EstimatedCostUSD: float64(summary.TotalTokens) / 1000 * costPerThousandTokens,
		Results:          make([]HoroscopeItemResult, 0, len(outcomes)),
	}
	for _, outcome := range outcomes {
		report.Results = append(report.Results, toItemResult(outcome))
	}

	j.sweep(ctx, day)

	j.logger.InfoContext(ctx, "daily horoscope generation finished",
		slog.String("date", domain.FormatDay(day)),
		slog.Int("generated", report.Generated),
		slog.Int("skipped", report.Skipped),
		slog.Int("errors", report.Errors),
		slog.Int("total_tokens", report.TotalTokens))

	return report, nil
}

// generateOne returns the worker executed for each work item. All failure
// modes settle as a Failed outcome; nothing propagates out of the batch.
func (j *HoroscopeJob) generateOne(day time.Time) Worker {
	return func(ctx context.Context, item domain.WorkItem) Outcome {
		exists, err := j.horoscopes.Exists(ctx, day, item.Sign, item.Language)
		if err != nil {
			return Outcome{Item: item, Status: StatusFailed, Detail: err.Error()}
		}
		if exists {
			j.logger.DebugContext(ctx, "horoscope already exists, skipping",
				slog.String("item", item.Key()))
			return Outcome{Item: item, Status: StatusSkipped}
		}

		result, err := j.generator.GenerateHoroscope(ctx, generation.HoroscopeParams{
			Sign:     item.Sign,
			Language: item.Language,
			Date:     day,
		})
		if err != nil {
			j.logger.WarnContext(ctx, "horoscope generation failed",
				slog.String("item", item.Key()),
				slog.String("error", err.Error()))
			return Outcome{Item: item, Status: StatusFailed, Detail: err.Error()}
		}

		horoscope, err := domain.NewDailyHoroscope(
			day, item.Sign, item.Language, result.Text, result.Tokens, result.Model,
		)
		if err != nil {
			return Outcome{Item: item, Status: StatusFailed, Detail: err.Error()}
		}
		if err := j.horoscopes.Upsert(ctx, horoscope); err != nil {
			return Outcome{Item: item, Status: StatusFailed, Detail: err.Error()}
		}

		return Outcome{
			Item:   item,
			Status: StatusSuccess,
			Detail: preview(result.Text),
			Tokens: result.Tokens,
		}
	}
}

// sweep deletes horoscopes older than the retention horizon. Failures are
// logged and swallowed; they never change the run's outcome.
func (j *HoroscopeJob) sweep(ctx context.Context, day time.Time) {
	cutoff := day.AddDate(0, 0, -j.retentionDays)
	deleted, err := j.horoscopes.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.WarnContext(ctx, "retention sweep failed",
			slog.String("cutoff", domain.FormatDay(cutoff)),
			slog.String("error", err.Error()))
		return
	}
	j.logger.InfoContext(ctx, "retention sweep completed",
		slog.String("cutoff", domain.FormatDay(cutoff)),
		slog.Int64("deleted", deleted))
}

func toItemResult(outcome Outcome) HoroscopeItemResult {
	result := HoroscopeItemResult{
		Sign:     outcome.Item.Sign,
		Language: outcome.Item.Language,
		Tokens:   outcome.Tokens,
	}
	switch outcome.Status {
	case StatusSuccess:
		result.Success = true
		result.Text = outcome.Detail
	case StatusSkipped:
		result.Success = true
		result.Skipped = true
		result.Text = "(already exists)"
	case StatusFailed:
		result.Error = outcome.Detail
	}
	return result
}

// preview truncates text on a rune boundary so a multi-byte character is
// never split across the ellipsis.
func preview(text string) string {
	if len(text) <= previewLength {
		return text
	}
	cut := previewLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
