package handlers

import (
	"context"
	"errors"
	"net/http"

	"streetaid/internal/metrics"
	"streetaid/internal/models"
	"streetaid/internal/overpass"
	"streetaid/internal/proximity"
	"streetaid/internal/services"

	"go.uber.org/zap"
)

// AlertHandler serves the read-only alert list and the nearest-shelter
// annotation for the current viewport.
type AlertHandler struct {
	alerts   *services.AlertService
	shelters *services.ShelterService
	logr     *zap.Logger
}

func NewAlertHandler(alerts *services.AlertService, shelters *services.ShelterService, logr *zap.Logger) *AlertHandler {
	return &AlertHandler{alerts: alerts, shelters: shelters, logr: logr}
}

// GetAlerts handles GET /alerts (?resolved=true to include resolved ones)
func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	includeResolved := parseBool(r.URL.Query().Get("resolved"))

	alerts, err := h.alerts.ListAlerts(r.Context(), includeResolved)
	if err != nil {
		h.logr.Error("failed to list alerts", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve alerts"})
		return
	}

	writeJSON(w, http.StatusOK, models.AlertsResponse{
		Alerts: alerts,
		Count:  len(alerts),
	})
}

// GetNearestShelters handles GET /alerts/nearest-shelter?north=&south=&east=&west=
// It loads shelters for the viewport, then annotates every open alert with
// its closest shelter and a formatted distance.
func (h *AlertHandler) GetNearestShelters(w http.ResponseWriter, r *http.Request) {
	bounds, err := parseBounds(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	shelters, err := h.shelters.FetchSheltersLatest(r.Context(), bounds)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.logr.Error("failed to fetch shelters for annotation", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, overpass.ErrUpstreamUnavailable) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]string{"error": "unable to load nearby shelters"})
		return
	}

	alerts, err := h.alerts.ListOpenAlerts(r.Context())
	if err != nil {
		h.logr.Error("failed to list open alerts", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve alerts"})
		return
	}

	annotations := proximity.Annotate(alerts, shelters, nil)

	annotated := 0
	for _, a := range annotations {
		if a.Shelter != nil {
			annotated++
		}
	}
	metrics.AlertsAnnotatedTotal.Add(float64(annotated))

	h.logr.Debug("alerts annotated",
		zap.Int("alerts", len(alerts)),
		zap.Int("shelters", len(shelters)),
		zap.Int("with_shelter", annotated))

	writeJSON(w, http.StatusOK, models.NearestShelterResponse{
		Annotations: annotations,
		Alerts:      alerts,
		Shelters:    shelters,
		Count:       len(alerts),
	})
}
