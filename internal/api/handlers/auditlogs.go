package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/database/models"
)

// AuditLogHandler exposes the audit trail to the admin console.
type AuditLogHandler struct {
	recorder *audit.Recorder
}

func NewAuditLogHandler(recorder *audit.Recorder) *AuditLogHandler {
	return &AuditLogHandler{recorder: recorder}
}

// List supports user_id, action, since (RFC 3339), and limit query params.
func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter audit.ListFilter

	q := r.URL.Query()
	if raw := q.Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
			return
		}
		filter.UserID = &userID
	}
	if action := q.Get("action"); action != "" {
		filter.Action = models.AuditAction(action)
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "since must be an RFC 3339 timestamp"})
			return
		}
		filter.Since = since
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		filter.Limit = limit
	}

	logs, err := h.recorder.List(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list audit logs"})
		return
	}

	writeJSON(w, http.StatusOK, logs)
}
