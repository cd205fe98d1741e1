package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/novacreations/nova-hr/internal/database/models"
	"gorm.io/gorm"
)

// Recorder appends immutable audit rows. Record never returns an error: an
// audit outage must not block the security-relevant operation it describes,
// so failures go to the operational log only.
type Recorder struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRecorder(db *gorm.DB, logger *slog.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Entry is one security-relevant event.
type Entry struct {
	UserID     *uuid.UUID
	Action     models.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	Details    map[string]any
	IPAddress  string
	UserAgent  string
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	row := models.AuditLog{
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
	}

	if e.EntityID != nil {
		id := e.EntityID.String()
		row.EntityID = &id
	}
	if len(e.Details) > 0 {
		data, err := json.Marshal(e.Details)
		if err != nil {
			r.logger.Error("failed to marshal audit details", "action", e.Action, "error", err)
		} else {
			details := string(data)
			row.Details = &details
		}
	}
	if e.IPAddress != "" {
		row.IPAddress = &e.IPAddress
	}
	if e.UserAgent != "" {
		row.UserAgent = &e.UserAgent
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.logger.Error("failed to create audit log",
			"action", e.Action,
			"entity_type", e.EntityType,
			"error", err,
		)
	}
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	UserID *uuid.UUID
	Action models.AuditAction
	Since  time.Time
	Limit  int
}

// List returns audit rows newest first for the admin console.
func (r *Recorder) List(ctx context.Context, filter ListFilter) ([]models.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
