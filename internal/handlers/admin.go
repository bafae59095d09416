package handlers

import (
	"net/http"

	"github.com/crashph/crash-server/internal/services"
	"go.uber.org/zap"
)

// AdminHandler serves the composite views behind the admin dashboard.
type AdminHandler struct {
	reportSvc     *services.ReportService
	officeSvc     *services.OfficeService
	checkpointSvc *services.CheckpointService
	logger        *zap.SugaredLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(rs *services.ReportService, os *services.OfficeService, cs *services.CheckpointService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{reportSvc: rs, officeSvc: os, checkpointSvc: cs, logger: logger}
}

// MapData handles GET /api/v1/admin/map/data
// Returns everything the dashboard map plots in a single payload:
// active reports, police offices and currently active checkpoints.
func (h *AdminHandler) MapData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reports, err := h.reportSvc.ListActive(ctx)
	if err != nil {
		h.logger.Errorw("Map data: active reports query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load map data")
		return
	}

	offices, err := h.officeSvc.List(ctx)
	if err != nil {
		h.logger.Errorw("Map data: offices query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load map data")
		return
	}

	checkpoints, err := h.checkpointSvc.ListActive(ctx)
	if err != nil {
		h.logger.Errorw("Map data: checkpoints query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load map data")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"active_reports":     reports,
		"police_offices":     offices,
		"active_checkpoints": checkpoints,
	})
}
