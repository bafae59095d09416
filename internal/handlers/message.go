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

// MessageHandler handles the nested per-report message threads
type MessageHandler struct {
	messageSvc *services.MessageService
	logger     *zap.SugaredLogger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(ms *services.MessageService, logger *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{messageSvc: ms, logger: logger}
}

// List handles GET /api/v1/reports/{reportID}/messages
// Returns the thread in ascending time order.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	messages, err := h.messageSvc.ListByReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Errorw("Failed to list messages", "report_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// Create handles POST /api/v1/reports/{reportID}/messages
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report id")
		return
	}

	var req models.MessageCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" || req.SenderID == "" || req.ReceiverID == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: sender_id, receiver_id, message_content")
		return
	}

	msg, err := h.messageSvc.Create(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Report not found")
			return
		}
		h.logger.Errorw("Failed to create message", "report_id", id, "error", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// Update handles PUT /api/v1/reports/{reportID}/messages/{messageID}
// Only the message content is editable.
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid report id")
		return
	}
	messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid message id")
		return
	}

	var req models.MessageUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "Missing required field: message_content")
		return
	}

	msg, err := h.messageSvc.Update(r.Context(), reportID, messageID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Message not found")
			return
		}
		h.logger.Errorw("Failed to update message", "message_id", messageID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update message")
		return
	}
	respondJSON(w, http.StatusOK, msg)
}
