package models

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"not null;default:'EMPLOYEE'" json:"role"`

	// Two-factor state. TOTPSecret is age-encrypted at rest and present while
	// an enrollment is pending or completed. BackupCodes is a JSON array of
	// SHA-256 hashes, present only when TOTPEnabled is true.
	TOTPEnabled bool    `gorm:"default:false" json:"totp_enabled"`
	TOTPSecret  *string `json:"-"`
	BackupCodes *string `json:"-"`

	// Relationships
	EmployeeProfile *EmployeeProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"employee_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}
