package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuuray/glow-api/internal/api"
	"github.com/nuuray/glow-api/internal/job"
)

type fakeHoroscopeJob struct {
	report *job.HoroscopeReport
	err    error
	date   time.Time
	calls  int
}

func (f *fakeHoroscopeJob) Run(ctx context.Context, date time.Time) (*job.HoroscopeReport, error) {
	f.calls++
	f.date = date
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeContentJob struct {
	report *job.ContentReport
	err    error
	calls  int
}

func (f *fakeContentJob) Run(ctx context.Context, date time.Time) (*job.ContentReport, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func postJob(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRunDailyHoroscopes(t *testing.T) {
	t.Parallel()

	horoscopeJob := &fakeHoroscopeJob{report: &job.HoroscopeReport{
		Date:             time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		Generated:        22,
		Skipped:          1,
		Errors:           1,
		TotalTokens:      2200,
		EstimatedCostUSD: 0.033,
		Results: []job.HoroscopeItemResult{
			{Sign: "aries", Language: "de", Text: "Ein guter Tag.", Tokens: 100, Success: true},
			{Sign: "leo", Language: "en", Error: "upstream status 503"},
		},
	}}
	handler := api.NewJobHandler(horoscopeJob, &fakeContentJob{}, slog.Default())

	w := postJob(t, handler.RunDailyHoroscopes, "/api/jobs/daily-horoscopes", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.HoroscopeJobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success, "a run with errors reports success=false")
	assert.Equal(t, "2025-08-15", resp.Date)
	assert.Equal(t, 22, resp.Generated)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 1, resp.Errors)
	assert.Equal(t, 2200, resp.TotalTokens)
	assert.Equal(t, "$0.0330", resp.EstimatedCost)
	require.Len(t, resp.Results, 2)

	// Per-item failure detail is echoed verbatim for the operator.
	assert.Equal(t, "upstream status 503", resp.Results[1].Error)
}

func TestRunDailyHoroscopesTargetsRequestedDate(t *testing.T) {
	t.Parallel()

	horoscopeJob := &fakeHoroscopeJob{report: &job.HoroscopeReport{
		Date: time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
	}}
	handler := api.NewJobHandler(horoscopeJob, &fakeContentJob{}, slog.Default())

	w := postJob(t, handler.RunDailyHoroscopes, "/api/jobs/daily-horoscopes", `{"date":"2025-08-10"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC), horoscopeJob.date)
}

func TestRunDailyHoroscopesRejectsBadDate(t *testing.T) {
	t.Parallel()

	horoscopeJob := &fakeHoroscopeJob{}
	handler := api.NewJobHandler(horoscopeJob, &fakeContentJob{}, slog.Default())

	w := postJob(t, handler.RunDailyHoroscopes, "/api/jobs/daily-horoscopes", `{"date":"15.08.2025"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, horoscopeJob.calls)
}

func TestRunDailyHoroscopesJobFailure(t *testing.T) {
	t.Parallel()

	horoscopeJob := &fakeHoroscopeJob{err: errors.New("pq: connection refused")}
	handler := api.NewJobHandler(horoscopeJob, &fakeContentJob{}, slog.Default())

	w := postJob(t, handler.RunDailyHoroscopes, "/api/jobs/daily-horoscopes", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The scheduler is the only caller, so the cause is echoed verbatim.
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pq: connection refused", resp.Error)
}

func TestRunDailyContent(t *testing.T) {
	t.Parallel()

	contentJob := &fakeContentJob{report: &job.ContentReport{
		Date: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		Results: []job.ContentItemResult{
			{Sign: "aries", Language: "de", Status: "ok"},
			{Sign: "aries", Language: "en", Status: "error: model overloaded"},
		},
	}}
	handler := api.NewJobHandler(&fakeHoroscopeJob{}, contentJob, slog.Default())

	w := postJob(t, handler.RunDailyContent, "/api/jobs/daily-content", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ContentJobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "2025-08-15", resp.Date)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "ok", resp.Results[0].Status)
	assert.Equal(t, "error: model overloaded", resp.Results[1].Status)
}

func TestRunDailyContentAlreadyExists(t *testing.T) {
	t.Parallel()

	contentJob := &fakeContentJob{report: &job.ContentReport{
		Date:          time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		AlreadyExists: true,
	}}
	handler := api.NewJobHandler(&fakeHoroscopeJob{}, contentJob, slog.Default())

	w := postJob(t, handler.RunDailyContent, "/api/jobs/daily-content", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.ContentExistsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Content already exists for this date", resp.Message)
	assert.Equal(t, "2025-08-15", resp.Date)
}

func TestRunDailyContentJobFailure(t *testing.T) {
	t.Parallel()

	contentJob := &fakeContentJob{err: errors.New("pq: deadlock detected")}
	handler := api.NewJobHandler(&fakeHoroscopeJob{}, contentJob, slog.Default())

	w := postJob(t, handler.RunDailyContent, "/api/jobs/daily-content", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "pq: deadlock detected")
}
