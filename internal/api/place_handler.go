package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nuuray/glow-api/internal/api/shared"
	"github.com/nuuray/glow-api/internal/places"
	"github.com/nuuray/glow-api/internal/platform/logger"
)

// ResolvePlaceRequest represents the request body for resolving a place.
type ResolvePlaceRequest struct {
	Query string `json:"query" validate:"required,min=1"`
}

// ResolvePlaceResponse represents a successfully resolved place.
type ResolvePlaceResponse struct {
	Place     string  `json:"place"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// PlaceHandler handles place resolution HTTP requests.
type PlaceHandler struct {
	resolver places.Resolver
	logger   *slog.Logger
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(resolver places.Resolver, log *slog.Logger) *PlaceHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PlaceHandler{
		resolver: resolver,
		logger:   log.With(slog.String("component", "place_handler")),
	}
}

// ResolvePlace handles POST /api/places/resolve requests.
func (h *PlaceHandler) ResolvePlace(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ResolvePlaceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.resolver.Resolve(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, places.ErrNoResults) {
			shared.RespondWithError(w, r, http.StatusNotFound, "No matching place found")
			return
		}
		log.Error("place resolution failed",
			slog.String("query", req.Query),
			slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ResolvePlaceResponse{
		Place:     result.Place,
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
		Timezone:  result.TimezoneID,
	})
}
