package job_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuuray/glow-api/internal/domain"
	"github.com/nuuray/glow-api/internal/generation"
	"github.com/nuuray/glow-api/internal/job"
	"github.com/nuuray/glow-api/internal/store"
)

type fakeHoroscopeStore struct {
	mu        sync.Mutex
	existing  map[string]bool
	existsErr error
	upsertErr error
	upserted  []*domain.DailyHoroscope

	deleteCutoff time.Time
	deleteCount  int64
	deleteErr    error
	deleteCalled bool

	// sweepDates, when seeded, holds one row date per stored horoscope;
	// DeleteOlderThan removes the dates strictly before the cutoff.
	sweepDates []time.Time
}

func horoscopeKey(date time.Time, sign, language string) string {
	return domain.FormatDay(date) + ":" + sign + ":" + language
}

func (f *fakeHoroscopeStore) Exists(ctx context.Context, date time.Time, sign, language string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[horoscopeKey(date, sign, language)], nil
}

func (f *fakeHoroscopeStore) Upsert(ctx context.Context, h *domain.DailyHoroscope) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, h)
	return nil
}

func (f *fakeHoroscopeStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalled = true
	f.deleteCutoff = cutoff
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if f.sweepDates != nil {
		var kept []time.Time
		var deleted int64
		for _, d := range f.sweepDates {
			if d.Before(cutoff) {
				deleted++
				continue
			}
			kept = append(kept, d)
		}
		f.sweepDates = kept
		return deleted, nil
	}
	return f.deleteCount, nil
}

var _ store.HoroscopeStore = (*fakeHoroscopeStore)(nil)

type fakeGenerator struct {
	mu             sync.Mutex
	horoscopeCalls int
	contentCalls   int
	failFor        map[string]error

	// horoscopeText, when set, overrides the generated horoscope body.
	horoscopeText string
}

func (f *fakeGenerator) GenerateHoroscope(ctx context.Context, params generation.HoroscopeParams) (*generation.Result, error) {
	f.mu.Lock()
	f.horoscopeCalls++
	f.mu.Unlock()
	if err := f.failFor[params.Sign+":"+params.Language]; err != nil {
		return nil, err
	}
	text := f.horoscopeText
	if text == "" {
		text = fmt.Sprintf("horoscope for %s in %s", params.Sign, params.Language)
	}
	return &generation.Result{
		Text:   text,
		Tokens: 100,
		Model:  "test-model",
	}, nil
}

func (f *fakeGenerator) GenerateDailyContent(ctx context.Context, params generation.ContentParams) (*generation.Result, error) {
	f.mu.Lock()
	f.contentCalls++
	f.mu.Unlock()
	if err := f.failFor[params.Sign+":"+params.Language]; err != nil {
		return nil, err
	}
	return &generation.Result{Text: "daily content body", Tokens: 80, Model: "test-model"}, nil
}

var _ generation.Generator = (*fakeGenerator)(nil)

func newHoroscopeJob(
	horoscopes *fakeHoroscopeStore,
	gen *fakeGenerator,
	profiles *fakeProfileStore,
) *job.HoroscopeJob {
	log := slog.Default()
	return job.NewHoroscopeJob(horoscopes, gen, job.NewEnumerator(profiles, log), log, 5, 7)
}

func TestHoroscopeJobGeneratesFullCatalog(t *testing.T) {
	t.Parallel()

	horoscopes := &fakeHoroscopeStore{existing: map[string]bool{}, deleteCount: 3}
	gen := &fakeGenerator{}
	j := newHoroscopeJob(horoscopes, gen, &fakeProfileStore{})

	date := time.Date(2025, 8, 15, 6, 0, 0, 0, time.UTC)
	report, err := j.Run(context.Background(), date)
	require.NoError(t, err)

	wantItems := len(domain.AllWorkItems())
	assert.Equal(t, wantItems, report.Generated)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, wantItems*100, report.TotalTokens)
	assert.Len(t, report.Results, wantItems)
	assert.Len(t, horoscopes.upserted, wantItems)
	assert.Equal(t, wantItems, gen.horoscopeCalls)

	assert.InDelta(t, float64(wantItems*100)/1000*0.015, report.EstimatedCostUSD, 1e-9)
}

func TestHoroscopeJobSkipsExisting(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	horoscopes := &fakeHoroscopeStore{existing: map[string]bool{}}
	for _, item := range domain.AllWorkItems() {
		horoscopes.existing[horoscopeKey(date, item.Sign, item.Language)] = true
	}
	gen := &fakeGenerator{}
	j := newHoroscopeJob(horoscopes, gen, &fakeProfileStore{})

	report, err := j.Run(context.Background(), date)
	require.NoError(t, err)

	// A fully populated day performs zero generation calls and zero writes.
	assert.Equal(t, 0, gen.horoscopeCalls)
	assert.Empty(t, horoscopes.upserted)
	assert.Equal(t, 0, report.Generated)
	assert.Equal(t, len(domain.AllWorkItems()), report.Skipped)
	assert.Equal(t, 0, report.TotalTokens)

	for _, result := range report.Results {
		assert.True(t, result.Success)
		assert.True(t, result.Skipped)
	}
}

func TestHoroscopeJobIsolatesFailures(t *testing.T) {
	t.Parallel()

	horoscopes := &fakeHoroscopeStore{existing: map[string]bool{}}
	gen := &fakeGenerator{failFor: map[string]error{
		"aries:de": errors.New("upstream status 503"),
	}}
	j := newHoroscopeJob(horoscopes, gen, &fakeProfileStore{})

	report, err := j.Run(context.Background(), time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	wantItems := len(domain.AllWorkItems())
	assert.Equal(t, wantItems-1, report.Generated)
	assert.Equal(t, 1, report.Errors)

	var failed *job.HoroscopeItemResult
	for i := range report.Results {
		if report.Results[i].Error != "" {
			failed = &report.Results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "aries", failed.Sign)
	assert.Equal(t, "de", failed.Language)
	assert.Contains(t, failed.Error, "upstream status 503")
	assert.False(t, failed.Success)
}

func TestHoroscopeJobSweepCutoff(t *testing.T) {
	t.Parallel()

	horoscopes := &fakeHoroscopeStore{existing: map[string]bool{}}
	j := newHoroscopeJob(horoscopes, &fakeGenerator{}, &fakeProfileStore{})

	date := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	_, err := j.Run(context.Background(), date)
	require.NoError(t, err)

	assert.True(t, horoscopes.deleteCalled)
	assert.Equal(t, time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC), horoscopes.deleteCutoff)
}

func TestHoroscopeJobSweepDeletesOnlyPastRetention(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time {
		return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC)
	}
	horoscopes := &fakeHoroscopeStore{
		existing:   map[string]bool{},
		sweepDates: []time.Time{day(5), day(7), day(8), day(9)},
	}
	j := newHoroscopeJob(horoscopes, &fakeGenerator{}, &fakeProfileStore{})

	// Retention is 7 days, so running for the 15th sweeps dates before the 8th.
	_, err := j.Run(context.Background(), day(15))
	require.NoError(t, err)

	// The comparison is strict: a row exactly at the cutoff survives.
	assert.Equal(t, []time.Time{day(8), day(9)}, horoscopes.sweepDates)
}

func TestHoroscopeJobSweepFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	horoscopes := &fakeHoroscopeStore{
		existing:  map[string]bool{},
		deleteErr: errors.New("deadlock detected"),
	}
	j := newHoroscopeJob(horoscopes, &fakeGenerator{}, &fakeProfileStore{})

	report, err := j.Run(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Errors)
}

func TestHoroscopeJobTruncatesPreview(t *testing.T) {
	t.Parallel()

	horoscopes := &fakeHoroscopeStore{existing: map[string]bool{}}
	gen := &fakeGenerator{}
	profiles := &fakeProfileStore{prefs: []store.Preference{
		{Sign: "virgo", Language: strPtr("en")},
	}}
	j := newHoroscopeJob(horoscopes, gen, profiles)

	report, err := j.Run(context.Background(), time.Now())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.LessOrEqual(t, len(report.Results[0].Text), 103)
	assert.True(t, strings.HasPrefix(report.Results[0].Text, "horoscope for virgo"))
}

func TestHoroscopeJobPreviewKeepsRunesIntact(t *testing.T) {
	t.Parallel()

	horoscopes := &fakeHoroscopeStore{existing: map[string]bool{}}
	// One leading ASCII byte shifts the umlauts so the truncation point
	// lands in the middle of a two-byte rune.
	gen := &fakeGenerator{horoscopeText: "x" + strings.Repeat("ä", 70)}
	profiles := &fakeProfileStore{prefs: []store.Preference{
		{Sign: "taurus", Language: strPtr("de")},
	}}
	j := newHoroscopeJob(horoscopes, gen, profiles)

	report, err := j.Run(context.Background(), time.Now())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	text := report.Results[0].Text
	assert.True(t, utf8.ValidString(text))
	assert.NotContains(t, text, "�")
	assert.True(t, strings.HasSuffix(text, "..."))
}

func TestHoroscopeJobExistsErrorCountsAsFailure(t *testing.T) {
	t.Parallel()

	horoscopes := &fakeHoroscopeStore{existsErr: errors.New("connection reset")}
	gen := &fakeGenerator{}
	profiles := &fakeProfileStore{prefs: []store.Preference{
		{Sign: "aries", Language: strPtr("de")},
	}}
	j := newHoroscopeJob(horoscopes, gen, profiles)

	report, err := j.Run(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 0, gen.horoscopeCalls, "a failed existence check must not trigger generation")
}
