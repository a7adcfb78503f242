package handlers

import (
	"context"
	"errors"
	"net/http"

	"streetaid/internal/models"
	"streetaid/internal/overpass"
	"streetaid/internal/services"

	"go.uber.org/zap"
)

// ShelterHandler handles viewport shelter queries and cache maintenance.
type ShelterHandler struct {
	service *services.ShelterService
	logr    *zap.Logger
}

func NewShelterHandler(svc *services.ShelterService, logr *zap.Logger) *ShelterHandler {
	return &ShelterHandler{service: svc, logr: logr}
}

// GetShelters handles GET /shelters?north=&south=&east=&west=
func (h *ShelterHandler) GetShelters(w http.ResponseWriter, r *http.Request) {
	bounds, err := parseBounds(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	shelters, err := h.service.FetchSheltersLatest(r.Context(), bounds)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Superseded by a newer viewport; the result is discarded, the
			// frontend keeps whatever markers it already has.
			h.logr.Debug("shelter fetch superseded", zap.String("key", bounds.CacheKey()))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.logr.Error("failed to fetch shelters", zap.Error(err), zap.String("key", bounds.CacheKey()))
		status := http.StatusInternalServerError
		if errors.Is(err, overpass.ErrUpstreamUnavailable) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]string{"error": "unable to load nearby shelters"})
		return
	}

	writeJSON(w, http.StatusOK, models.SheltersResponse{
		Shelters: shelters,
		Count:    len(shelters),
	})
}

// GetCacheStats handles GET /shelters/cache/stats
func (h *ShelterHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CacheStats())
}

// ClearCache handles POST /shelters/cache/clear (the UI refresh action)
func (h *ShelterHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Shelter cache cleared",
	})
}
