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

// OfficeHandler handles admin CRUD for police offices
type OfficeHandler struct {
	officeSvc *services.OfficeService
	logger    *zap.SugaredLogger
}

// NewOfficeHandler creates a new police office handler
func NewOfficeHandler(os *services.OfficeService, logger *zap.SugaredLogger) *OfficeHandler {
	return &OfficeHandler{officeSvc: os, logger: logger}
}

func officeID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "officeID"))
}

// Create handles POST /api/v1/admin/police-offices
// Requires a created_by admin reference.
func (h *OfficeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.OfficeCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CreatedBy == "" {
		respondError(w, http.StatusBadRequest, "Missing required field: created_by")
		return
	}
	if req.OfficeName == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: office_name, email, password")
		return
	}

	office, err := h.officeSvc.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			respondError(w, http.StatusNotFound, "Admin account not found")
			return
		}
		h.logger.Errorw("Failed to create police office", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create police office")
		return
	}
	respondJSON(w, http.StatusCreated, office)
}

// List handles GET /api/v1/admin/police-offices
func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.officeSvc.List(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list police offices", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list police offices")
		return
	}
	respondJSON(w, http.StatusOK, offices)
}

// Get handles GET /api/v1/admin/police-offices/{officeID}
func (h *OfficeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := officeID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid office id")
		return
	}

	office, err := h.officeSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Police office not found")
			return
		}
		h.logger.Errorw("Failed to fetch police office", "office_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch police office")
		return
	}
	respondJSON(w, http.StatusOK, office)
}

// Update handles PUT /api/v1/admin/police-offices/{officeID}
func (h *OfficeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := officeID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid office id")
		return
	}

	var req models.OfficeCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	office, err := h.officeSvc.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Police office not found")
			return
		}
		h.logger.Errorw("Failed to update police office", "office_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update police office")
		return
	}
	respondJSON(w, http.StatusOK, office)
}

// Delete handles DELETE /api/v1/admin/police-offices/{officeID}
func (h *OfficeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := officeID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid office id")
		return
	}

	if err := h.officeSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Police office not found")
			return
		}
		h.logger.Errorw("Failed to delete police office", "office_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete police office")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Police office deleted"})
}
