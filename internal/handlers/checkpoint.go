package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crashph/crash-server/internal/models"
	"github.com/crashph/crash-server/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckpointHandler handles police checkpoint endpoints
type CheckpointHandler struct {
	checkpointSvc *services.CheckpointService
	logger        *zap.SugaredLogger
}

// NewCheckpointHandler creates a new checkpoint handler
func NewCheckpointHandler(cs *services.CheckpointService, logger *zap.SugaredLogger) *CheckpointHandler {
	return &CheckpointHandler{checkpointSvc: cs, logger: logger}
}

// List handles GET /api/v1/checkpoints
func (h *CheckpointHandler) List(w http.ResponseWriter, r *http.Request) {
	checkpoints, err := h.checkpointSvc.List(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list checkpoints", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list checkpoints")
		return
	}
	respondJSON(w, http.StatusOK, checkpoints)
}

// Active handles GET /api/v1/checkpoints/active
// Filters by the current time of day, including overnight windows.
func (h *CheckpointHandler) Active(w http.ResponseWriter, r *http.Request) {
	checkpoints, err := h.checkpointSvc.ListActive(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list active checkpoints", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list active checkpoints")
		return
	}
	respondJSON(w, http.StatusOK, checkpoints)
}

// Create handles POST /api/v1/checkpoints
func (h *CheckpointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CheckpointCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CheckpointName == "" || req.OfficeID == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: checkpoint_name, office_id")
		return
	}

	cp, err := h.checkpointSvc.Create(r.Context(), &req)
	if err != nil {
		h.logger.Errorw("Failed to create checkpoint", "error", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, cp)
}

// Get handles GET /api/v1/checkpoints/{checkpointID}
func (h *CheckpointHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "checkpointID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid checkpoint id")
		return
	}

	cp, err := h.checkpointSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Checkpoint not found")
			return
		}
		h.logger.Errorw("Failed to fetch checkpoint", "checkpoint_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch checkpoint")
		return
	}
	respondJSON(w, http.StatusOK, cp)
}

// Update handles PUT /api/v1/checkpoints/{checkpointID}
func (h *CheckpointHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "checkpointID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid checkpoint id")
		return
	}

	var req models.CheckpointCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CheckpointName == "" {
		respondError(w, http.StatusBadRequest, "Missing required field: checkpoint_name")
		return
	}

	cp, err := h.checkpointSvc.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Checkpoint not found")
			return
		}
		h.logger.Errorw("Failed to update checkpoint", "checkpoint_id", id, "error", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cp)
}

// Delete handles DELETE /api/v1/checkpoints/{checkpointID}
func (h *CheckpointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "checkpointID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid checkpoint id")
		return
	}

	if err := h.checkpointSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Checkpoint not found")
			return
		}
		h.logger.Errorw("Failed to delete checkpoint", "checkpoint_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete checkpoint")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Checkpoint deleted"})
}
