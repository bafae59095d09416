package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/crashph/crash-server/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxUploadBytes caps evidence uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// MediaHandler handles evidence upload and listing
type MediaHandler struct {
	mediaSvc *services.MediaService
	logger   *zap.SugaredLogger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(ms *services.MediaService, logger *zap.SugaredLogger) *MediaHandler {
	return &MediaHandler{mediaSvc: ms, logger: logger}
}

// Upload handles POST /api/v1/media (multipart form)
// Fields: uploaded_file, report_id, file_type, sender_id.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	reportID, err := uuid.Parse(r.FormValue("report_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report_id")
		return
	}
	senderID, err := uuid.Parse(r.FormValue("sender_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid sender_id")
		return
	}

	file, header, err := r.FormFile("uploaded_file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing required field: uploaded_file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	media, err := h.mediaSvc.Upload(r.Context(), reportID, senderID,
		r.FormValue("file_type"), header.Filename, header.Header.Get("Content-Type"), content)
	if err != nil {
		var uploadErr *services.UploadError
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "Report not found")
		case errors.As(err, &uploadErr):
			h.logger.Errorw("Media upload failed", "report_id", reportID, "error", err)
			respondError(w, http.StatusBadRequest, uploadErr.Error())
		default:
			h.logger.Errorw("Failed to store media", "report_id", reportID, "error", err)
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusCreated, media)
}

// List handles GET /api/v1/media?report_id=
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	var reportID *uuid.UUID
	if raw := r.URL.Query().Get("report_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid report_id")
			return
		}
		reportID = &id
	}

	media, err := h.mediaSvc.List(r.Context(), reportID)
	if err != nil {
		h.logger.Errorw("Failed to list media", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list media")
		return
	}
	respondJSON(w, http.StatusOK, media)
}

// Get handles GET /api/v1/media/{mediaID}
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid media id")
		return
	}

	media, err := h.mediaSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Media not found")
			return
		}
		h.logger.Errorw("Failed to fetch media", "media_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch media")
		return
	}
	respondJSON(w, http.StatusOK, media)
}

// Delete handles DELETE /api/v1/media/{mediaID}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid media id")
		return
	}

	if err := h.mediaSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Media not found")
			return
		}
		h.logger.Errorw("Failed to delete media", "media_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete media")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Media deleted"})
}
