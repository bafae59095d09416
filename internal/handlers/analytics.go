package handlers

import (
	"errors"
	"net/http"

	"github.com/crashph/crash-server/internal/services"
	"go.uber.org/zap"
)

// AnalyticsHandler handles the filtered analytics endpoints and the
// summary cache refresh trigger
type AnalyticsHandler struct {
	analyticsSvc *services.AnalyticsService
	summarySvc   *services.SummaryService
	logger       *zap.SugaredLogger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(as *services.AnalyticsService, ss *services.SummaryService, logger *zap.SugaredLogger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: as, summarySvc: ss, logger: logger}
}

// Overview handles GET /api/v1/analytics/summary/overview
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	f := services.ParseFilters(r.URL.Query())

	overview, err := h.analyticsSvc.Overview(r.Context(), f)
	if err != nil {
		h.logger.Errorw("Failed to compute overview", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to compute overview")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"filters":                 f.Map(),
		"total_assigned":          overview.TotalAssigned,
		"average_resolution_time": overview.AverageResolutionTime,
	})
}

// Locations handles GET /api/v1/analytics/hotspots/locations
func (h *AnalyticsHandler) Locations(w http.ResponseWriter, r *http.Request) {
	f := services.ParseFilters(r.URL.Query())

	total, items, err := h.analyticsSvc.TopLocations(r.Context(), f)
	if err != nil {
		h.logger.Errorw("Failed to compute top locations", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to compute top locations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"filters":        f.Map(),
		"total_resolved": total,
		"results":        items,
	})
}

// Categories handles GET /api/v1/analytics/hotspots/categories
func (h *AnalyticsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	f := services.ParseFilters(r.URL.Query())

	total, items, err := h.analyticsSvc.CategoryConcentration(r.Context(), f)
	if err != nil {
		h.logger.Errorw("Failed to compute category concentration", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to compute category concentration")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"filters":        f.Map(),
		"total_resolved": total,
		"results":        items,
	})
}

// TopLocationSummary handles GET /api/v1/reports/summary/top-locations
// Legacy dashboard endpoint: resolved reports grouped by the full
// (city, barangay, category) triple, top 10, all time by default.
// Query params: category (optional), date_range=30_days (optional).
func (h *AnalyticsHandler) TopLocationSummary(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	last30Days := r.URL.Query().Get("date_range") == "30_days"

	items, err := h.analyticsSvc.TopLocationSummary(r.Context(), category, last30Days)
	if err != nil {
		h.logger.Errorw("Failed to compute top-locations summary", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to compute top-locations summary")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Update handles POST /api/v1/admin/analytics/update
// Rejects with 409 when a refresh is already running.
func (h *AnalyticsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := h.summarySvc.Refresh(r.Context()); err != nil {
		if errors.Is(err, services.ErrRefreshInProgress) {
			respondError(w, http.StatusConflict, "Analytics update already in progress. Please wait and try again.")
			return
		}
		h.logger.Errorw("Analytics refresh failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Analytics refresh failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Analytics summary table updated successfully."})
}
