package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/nuuray/glow-api/internal/domain"
	"github.com/nuuray/glow-api/internal/generation"
	"github.com/nuuray/glow-api/internal/store"
)

// ContentJob generates the day's richer content entries for the full
// sign and language catalog. Unlike the horoscope job it runs strictly
// sequentially with a fixed delay between upstream calls, and it
// short-circuits entirely when any content already exists for the day.
type ContentJob struct {
	contents  store.ContentStore
	generator generation.Generator
	logger    *slog.Logger
	delay     time.Duration

	// sleep is swapped in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration)
}

// NewContentJob wires a ContentJob from its collaborators.
func NewContentJob(
	contents store.ContentStore,
	generator generation.Generator,
	log *slog.Logger,
	delay time.Duration,
) *ContentJob {
	if log == nil {
		log = slog.Default()
	}
	return &ContentJob{
		contents:  contents,
		generator: generator,
		logger:    log.With(slog.String("component", "content_job")),
		delay:     delay,
		sleep:     sleepContext,
	}
}

// ContentItemResult is the per-item entry of the content job report.
type ContentItemResult struct {
	Sign     string `json:"sign"`
	Language string `json:"lang"`
	Status   string `json:"status"`
}

// ContentReport summarizes one run of the content job.
type ContentReport struct {
	Date          time.Time
	AlreadyExists bool
	Results       []ContentItemResult
}

// Run executes the content job for the given date. When any content row
// already exists for the day the whole run is skipped; the whole-day check
// is the idempotency guard here, not a per-item one. Per-item failures are
// recorded in the report and never abort the remaining items.
func (j *ContentJob) Run(ctx context.Context, date time.Time) (*ContentReport, error) {
	day := domain.DayOf(date)

	exists, err := j.contents.ExistsForDate(ctx, day, domain.ContentTypeHoroscope)
	if err != nil {
		return nil, err
	}
	if exists {
		j.logger.InfoContext(ctx, "daily content already exists, skipping run",
			slog.String("date", domain.FormatDay(day)))
		return &ContentReport{Date: day, AlreadyExists: true}, nil
	}

	items := domain.AllWorkItems()
	j.logger.InfoContext(ctx, "starting daily content generation",
		slog.String("date", domain.FormatDay(day)),
		slog.Int("items", len(items)))

	report := &ContentReport{
		Date:    day,
		Results: make([]ContentItemResult, 0, len(items)),
	}

	for i, item := range items {
		if i > 0 && j.delay > 0 {
			j.sleep(ctx, j.delay)
		}
		report.Results = append(report.Results, j.generateOne(ctx, day, item))
	}

	j.logger.InfoContext(ctx, "daily content generation finished",
		slog.String("date", domain.FormatDay(day)),
		slog.Int("items", len(report.Results)))

	return report, nil
}

func (j *ContentJob) generateOne(ctx context.Context, day time.Time, item domain.WorkItem) ContentItemResult {
	result := ContentItemResult{Sign: item.Sign, Language: item.Language}

	moonPhase, dailyEnergy := dayAttributes(day)

	generated, err := j.generator.GenerateDailyContent(ctx, generation.ContentParams{
		Sign:        item.Sign,
		Language:    item.Language,
		Date:        day,
		MoonPhase:   moonPhase,
		DailyEnergy: dailyEnergy,
	})
	if err != nil {
		j.logger.WarnContext(ctx, "content generation failed",
			slog.String("item", item.Key()),
			slog.String("error", err.Error()))
		result.Status = "error: " + err.Error()
		return result
	}

	content, err := domain.NewDailyContent(day, domain.ContentTypeHoroscope, item.Sign, item.Language, generated.Text, map[string]string{
		"moon_phase":   moonPhase,
		"daily_energy": dailyEnergy,
	})
	if err != nil {
		result.Status = "error: " + err.Error()
		return result
	}
	if err := j.contents.Upsert(ctx, content); err != nil {
		result.Status = "error: " + err.Error()
		return result
	}

	result.Status = "ok"
	return result
}

// dayAttributes returns the moon phase and energy theme woven into the
// content prompt.
//
// TODO: compute the real moon phase from the date instead of a fixed value;
// the synodic month arithmetic is straightforward and needs no dependency.
func dayAttributes(_ time.Time) (moonPhase, dailyEnergy string) {
	return "zunehmender Mond", "reflektiv"
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
