package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is the ephemeral credential behind an emailed reset
// link. TokenHash is a bcrypt hash; the raw token never touches storage. At
// most one usable token exists per user: issuing a new one deletes priors.
type PasswordResetToken struct {
	Base
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	TokenHash string     `gorm:"not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// Usable reports whether the token can still redeem a password reset.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
