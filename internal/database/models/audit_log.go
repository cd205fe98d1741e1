package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

// Closed set of audited event kinds. Adding a value here is a schema-level
// decision; handlers never write free-form actions.
const (
	ActionLogin                 AuditAction = "LOGIN"
	ActionLogout                AuditAction = "LOGOUT"
	ActionLoginFailed           AuditAction = "LOGIN_FAILED"
	ActionPasswordResetRequest  AuditAction = "PASSWORD_RESET_REQUEST"
	ActionPasswordResetComplete AuditAction = "PASSWORD_RESET_COMPLETE"
	ActionTwoFactorEnabled      AuditAction = "TWO_FACTOR_ENABLED"
	ActionTwoFactorDisabled     AuditAction = "TWO_FACTOR_DISABLED"
	ActionProfileUpdate         AuditAction = "PROFILE_UPDATE"
	ActionEmployeeCreate        AuditAction = "EMPLOYEE_CREATE"
	ActionEmployeeUpdate        AuditAction = "EMPLOYEE_UPDATE"
	ActionEmployeeDelete        AuditAction = "EMPLOYEE_DELETE"
	ActionPTORequestCreate      AuditAction = "PTO_REQUEST_CREATE"
	ActionPTORequestApprove     AuditAction = "PTO_REQUEST_APPROVE"
	ActionPTORequestDeny        AuditAction = "PTO_REQUEST_DENY"
	ActionPTORequestCancel      AuditAction = "PTO_REQUEST_CANCEL"
	ActionPayStubUpload         AuditAction = "PAYSTUB_UPLOAD"
	ActionPayStubView           AuditAction = "PAYSTUB_VIEW"
	ActionDocumentUpload        AuditAction = "DOCUMENT_UPLOAD"
	ActionDocumentView          AuditAction = "DOCUMENT_VIEW"
	ActionSettingsUpdate        AuditAction = "SETTINGS_UPDATE"
)

// AuditLog is append-only. Rows are never updated or deleted through normal
// operation. UserID is nil for unauthenticated events such as a failed login
// against an unknown email.
type AuditLog struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	UserID     *uuid.UUID  `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     AuditAction `gorm:"not null;index" json:"action"`
	EntityType string      `gorm:"not null" json:"entity_type"`
	EntityID   *string     `json:"entity_id,omitempty"`
	Details    *string     `json:"details,omitempty"`
	IPAddress  *string     `json:"ip_address,omitempty"`
	UserAgent  *string     `json:"user_agent,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
