// Package places resolves free-text place names to coordinates and a
// timezone identifier by chaining three Google Maps API lookups:
// autocomplete search, place details, and timezone-by-coordinate.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nuuray/glow-api/internal/config"
)

const defaultBaseURL = "https://maps.googleapis.com"

// Result is a successfully resolved place.
type Result struct {
	Place      string
	Latitude   float64
	Longitude  float64
	TimezoneID string
}

// Resolver turns a free-text place query into coordinates and a timezone.
type Resolver interface {
	// Resolve returns the best match for query, ErrNoResults when the
	// search yields zero candidates, or a *TransportError on upstream
	// failure.
	Resolve(ctx context.Context, query string) (*Result, error)
}

// GoogleResolver implements Resolver against the Google Places and
// Timezone APIs. The first search candidate is always selected; there is no
// ranking or disambiguation. The timezone step is non-fatal: on failure it
// degrades to the configured default zone, since usable coordinates are
// already known at that point.
type GoogleResolver struct {
	httpClient      *http.Client
	logger          *slog.Logger
	apiKey          string
	language        string
	defaultTimezone string
	baseURL         string
	now             func() time.Time
}

var _ Resolver = (*GoogleResolver)(nil)

// NewGoogleResolver creates a GoogleResolver from the places configuration.
func NewGoogleResolver(log *slog.Logger, cfg config.PlacesConfig) (*GoogleResolver, error) {
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("places API key cannot be empty")
	}

	return &GoogleResolver{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger:          log.With(slog.String("component", "place_resolver")),
		apiKey:          cfg.APIKey,
		language:        cfg.Language,
		defaultTimezone: cfg.DefaultTimezone,
		baseURL:         defaultBaseURL,
		now:             time.Now,
	}, nil
}

type autocompleteResponse struct {
	Predictions []struct {
		PlaceID     string `json:"place_id"`
		Description string `json:"description"`
	} `json:"predictions"`
	Status string `json:"status"`
}

type detailsResponse struct {
	Result struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"result"`
	Status string `json:"status"`
}

type timezoneResponse struct {
	TimeZoneID string `json:"timeZoneId"`
	Status     string `json:"status"`
}

// Resolve implements Resolver.
func (r *GoogleResolver) Resolve(ctx context.Context, query string) (*Result, error) {
	placeID, err := r.placeIDFromQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	place, lat, lng, err := r.placeDetails(ctx, placeID)
	if err != nil {
		return nil, err
	}

	timezone := r.timezoneAt(ctx, lat, lng)

	return &Result{
		Place:      place,
		Latitude:   lat,
		Longitude:  lng,
		TimezoneID: timezone,
	}, nil
}

// placeIDFromQuery runs the autocomplete search and selects the first
// prediction. The types filter restricts matches to cities and towns.
func (r *GoogleResolver) placeIDFromQuery(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("input", query)
	params.Set("key", r.apiKey)
	params.Set("types", "locality|administrative_area_level_3")
	params.Set("language", r.language)

	var resp autocompleteResponse
	if err := r.getJSON(ctx, "/maps/api/place/autocomplete/json", params, &resp); err != nil {
		return "", err
	}

	if resp.Status == "ZERO_RESULTS" || len(resp.Predictions) == 0 {
		return "", ErrNoResults
	}
	if resp.Status != "OK" {
		return "", &TransportError{
			StatusCode: http.StatusOK,
			Body:       "autocomplete status " + resp.Status,
		}
	}

	return resp.Predictions[0].PlaceID, nil
}

// placeDetails fetches the formatted address and coordinates for a place ID.
func (r *GoogleResolver) placeDetails(ctx context.Context, placeID string) (string, float64, float64, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("key", r.apiKey)
	params.Set("fields", "geometry,formatted_address")
	params.Set("language", r.language)

	var resp detailsResponse
	if err := r.getJSON(ctx, "/maps/api/place/details/json", params, &resp); err != nil {
		return "", 0, 0, err
	}

	if resp.Status != "OK" {
		return "", 0, 0, &TransportError{
			StatusCode: http.StatusOK,
			Body:       "place details status " + resp.Status,
		}
	}

	return resp.Result.FormattedAddress,
		resp.Result.Geometry.Location.Lat,
		resp.Result.Geometry.Location.Lng,
		nil
}

// timezoneAt looks up the timezone at the given coordinates using the
// current time, so DST is accounted for. Failures degrade to the default
// zone instead of failing the resolution.
func (r *GoogleResolver) timezoneAt(ctx context.Context, lat, lng float64) string {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("timestamp", strconv.FormatInt(r.now().Unix(), 10))
	params.Set("key", r.apiKey)

	var resp timezoneResponse
	if err := r.getJSON(ctx, "/maps/api/timezone/json", params, &resp); err != nil {
		r.logger.WarnContext(ctx, "timezone lookup failed, using default",
			slog.String("error", err.Error()),
			slog.String("default", r.defaultTimezone))
		return r.defaultTimezone
	}

	if resp.Status != "OK" {
		r.logger.WarnContext(ctx, "timezone lookup returned non-OK status, using default",
			slog.String("status", resp.Status),
			slog.String("default", r.defaultTimezone))
		return r.defaultTimezone
	}

	return resp.TimeZoneID
}

// getJSON performs one upstream GET and decodes the JSON body into out.
// Non-2xx responses become a *TransportError carrying the raw body.
func (r *GoogleResolver) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := r.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to place API failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			r.logger.Warn("failed to close response body", slog.String("error", cerr.Error()))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &TransportError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode place API response: %w", err)
	}
	return nil
}
