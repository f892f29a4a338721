package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nuuray/glow-api/internal/api/shared"
	"github.com/nuuray/glow-api/internal/domain"
	"github.com/nuuray/glow-api/internal/job"
	"github.com/nuuray/glow-api/internal/platform/logger"
)

// HoroscopeJobRunner runs the batched daily-horoscope job.
type HoroscopeJobRunner interface {
	Run(ctx context.Context, date time.Time) (*job.HoroscopeReport, error)
}

// ContentJobRunner runs the sequential daily-content job.
type ContentJobRunner interface {
	Run(ctx context.Context, date time.Time) (*job.ContentReport, error)
}

// RunJobRequest is the optional request body of the job endpoints. An empty
// body targets the current day.
type RunJobRequest struct {
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// HoroscopeJobResponse is the report returned by the daily-horoscope
// endpoint. Per-item errors are echoed verbatim: the endpoint is reachable
// only with the service key, so the reader is an operator, not an end user.
type HoroscopeJobResponse struct {
	Success       bool                      `json:"success"`
	Date          string                    `json:"date"`
	Generated     int                       `json:"generated"`
	Skipped       int                       `json:"skipped"`
	Errors        int                       `json:"errors"`
	TotalTokens   int                       `json:"totalTokens"`
	EstimatedCost string                    `json:"estimatedCost"`
	Results       []job.HoroscopeItemResult `json:"results"`
}

// ContentJobResponse is the report returned by the daily-content endpoint.
type ContentJobResponse struct {
	Success bool                    `json:"success"`
	Date    string                  `json:"date"`
	Results []job.ContentItemResult `json:"results"`
}

// ContentExistsResponse is returned when the content job short-circuits
// because the day is already populated.
type ContentExistsResponse struct {
	Message string `json:"message"`
	Date    string `json:"date"`
}

// JobHandler exposes the two generation jobs over HTTP for the scheduler.
type JobHandler struct {
	horoscopeJob HoroscopeJobRunner
	contentJob   ContentJobRunner
	logger       *slog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(horoscopeJob HoroscopeJobRunner, contentJob ContentJobRunner, log *slog.Logger) *JobHandler {
	if log == nil {
		log = slog.Default()
	}
	return &JobHandler{
		horoscopeJob: horoscopeJob,
		contentJob:   contentJob,
		logger:       log.With(slog.String("component", "job_handler")),
	}
}

// RunDailyHoroscopes handles POST /api/jobs/daily-horoscopes requests. The
// job runs to completion within the request; the response is its report.
func (h *JobHandler) RunDailyHoroscopes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	date, ok := h.jobDate(w, r)
	if !ok {
		return
	}

	report, err := h.horoscopeJob.Run(r.Context(), date)
	if err != nil {
		log.Error("daily horoscope job failed", slog.String("error", err.Error()))
		// Job endpoints are reachable only with the service key; the caller
		// is the scheduler, so the failure cause is echoed verbatim.
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HoroscopeJobResponse{
		Success:       report.Errors == 0,
		Date:          domain.FormatDay(report.Date),
		Generated:     report.Generated,
		Skipped:       report.Skipped,
		Errors:        report.Errors,
		TotalTokens:   report.TotalTokens,
		EstimatedCost: fmt.Sprintf("$%.4f", report.EstimatedCostUSD),
		Results:       report.Results,
	})
}

// RunDailyContent handles POST /api/jobs/daily-content requests.
func (h *JobHandler) RunDailyContent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	date, ok := h.jobDate(w, r)
	if !ok {
		return
	}

	report, err := h.contentJob.Run(r.Context(), date)
	if err != nil {
		log.Error("daily content job failed", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, err.Error(), err)
		return
	}

	if report.AlreadyExists {
		shared.RespondWithJSON(w, r, http.StatusOK, ContentExistsResponse{
			Message: "Content already exists for this date",
			Date:    domain.FormatDay(report.Date),
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ContentJobResponse{
		Success: true,
		Date:    domain.FormatDay(report.Date),
		Results: report.Results,
	})
}

// jobDate parses the optional request body and returns the target date. A
// missing or empty body targets the current day. On failure it writes the
// 400 response and returns ok=false.
func (h *JobHandler) jobDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	var req RunJobRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return time.Time{}, false
		}
		if err := shared.ValidateRequest(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
			return time.Time{}, false
		}
	}

	if req.Date == "" {
		return time.Now().UTC(), true
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
