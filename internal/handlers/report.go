package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crashph/crash-server/internal/geo"
	"github.com/crashph/crash-server/internal/models"
	"github.com/crashph/crash-server/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportHandler handles report-related HTTP endpoints
type ReportHandler struct {
	reportSvc *services.ReportService
	logger    *zap.SugaredLogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(rs *services.ReportService, logger *zap.SugaredLogger) *ReportHandler {
	return &ReportHandler{reportSvc: rs, logger: logger}
}

func reportID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "reportID"))
}

// List handles GET /api/v1/reports
// Returns active reports only: Resolved and Canceled are excluded.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportSvc.ListActive(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list reports", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// Get handles GET /api/v1/reports/{reportID}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := reportID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	report, err := h.reportSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Errorw("Failed to fetch report", "report_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Create handles POST /api/v1/reports
// Triggers reverse geocoding and nearest-office assignment. Geocoding
// failure does not fail the request.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ReportCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Category == "" {
		respondError(w, http.StatusBadRequest, "Missing required field: category")
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		respondError(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	report, err := h.reportSvc.Create(r.Context(), &req)
	if err != nil {
		h.logger.Errorw("Failed to create report", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create report")
		return
	}

	h.logger.Infow("Report created",
		"report_id", report.ID,
		"category", report.Category,
		"assigned", report.AssignedOfficeID != nil,
		"geocoded", report.LocationCity != nil,
	)
	respondJSON(w, http.StatusCreated, report)
}

// Update handles PUT/PATCH /api/v1/reports/{reportID}
// Only status and remarks are mutable.
func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := reportID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	var req models.ReportUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := h.reportSvc.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "Report not found")
		case errors.Is(err, services.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "Invalid status value")
		case errors.Is(err, services.ErrTerminalStatus):
			respondError(w, http.StatusBadRequest, "Report is already resolved or canceled")
		default:
			h.logger.Errorw("Failed to update report", "report_id", id, "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to update report")
		}
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// Delete handles DELETE /api/v1/reports/{reportID}
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := reportID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	if err := h.reportSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Errorw("Failed to delete report", "report_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete report")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Report deleted"})
}

// Route handles GET /api/v1/reports/{reportID}/route
// Returns the office-to-incident maps link and a QR code for it.
func (h *ReportHandler) Route(w http.ResponseWriter, r *http.Request) {
	id, err := reportID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	route, err := h.reportSvc.Route(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "Report not found")
		case errors.Is(err, services.ErrNoOffice):
			respondError(w, http.StatusBadRequest, "Report is not yet assigned to an office")
		case errors.Is(err, geo.ErrNoAPIKey):
			h.logger.Errorw("Routing unavailable: maps API key missing")
			respondError(w, http.StatusInternalServerError, "Routing service is not configured")
		default:
			h.logger.Errorw("Routing failed", "report_id", id, "error", err)
			respondError(w, http.StatusInternalServerError, "Routing failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, route)
}

// SummaryResolved handles GET /api/v1/reports/summary_resolved
// Returns all resolved reports, most recently completed first.
func (h *ReportHandler) SummaryResolved(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reportSvc.ListResolved(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list resolved reports", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list resolved reports")
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// Resolved handles GET /api/v1/reports/resolved
// Returns the filtered resolved-cases table with resolution times.
func (h *ReportHandler) Resolved(w http.ResponseWriter, r *http.Request) {
	f := services.ParseFilters(r.URL.Query())

	cases, err := h.reportSvc.ResolvedCases(r.Context(), f)
	if err != nil {
		h.logger.Errorw("Failed to list resolved cases", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list resolved cases")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"filters": f.Map(),
		"count":   len(cases),
		"results": cases,
	})
}
