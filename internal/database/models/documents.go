package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocumentID             DocumentType = "ID"
	DocumentDriversLicense DocumentType = "DRIVERS_LICENSE"
	DocumentPassport       DocumentType = "PASSPORT"
	DocumentOther          DocumentType = "OTHER"
)

// PayStub is the metadata row for an uploaded pay stub; the file itself lives
// in blob storage.
type PayStub struct {
	Base
	EmployeeID     uuid.UUID `gorm:"type:uuid;index;not null" json:"employee_id"`
	PayPeriodStart time.Time `gorm:"not null" json:"pay_period_start"`
	PayPeriodEnd   time.Time `gorm:"not null" json:"pay_period_end"`
	FileName       string    `gorm:"not null" json:"file_name"`
	FileURL        string    `gorm:"not null" json:"file_url"`
	UploadedByID   uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by_id"`

	Employee *EmployeeProfile `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
}

func (PayStub) TableName() string {
	return "pay_stubs"
}

// EmployeeDocument is an uploaded identity or onboarding document.
type EmployeeDocument struct {
	Base
	EmployeeID   uuid.UUID    `gorm:"type:uuid;index;not null" json:"employee_id"`
	Type         DocumentType `gorm:"not null;default:'OTHER'" json:"type"`
	FileName     string       `gorm:"not null" json:"file_name"`
	FileURL      string       `gorm:"not null" json:"file_url"`
	UploadedByID uuid.UUID    `gorm:"type:uuid;not null" json:"uploaded_by_id"`

	Employee *EmployeeProfile `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
}

func (EmployeeDocument) TableName() string {
	return "employee_documents"
}

type Announcement struct {
	Base
	Title       string    `gorm:"not null" json:"title"`
	Body        string    `gorm:"not null" json:"body"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`
}

func (Announcement) TableName() string {
	return "announcements"
}
