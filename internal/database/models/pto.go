package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PTOType string

const (
	PTOVacation PTOType = "VACATION"
	PTOSick     PTOType = "SICK"
	PTOPersonal PTOType = "PERSONAL"
)

func (t PTOType) Valid() bool {
	return t == PTOVacation || t == PTOSick || t == PTOPersonal
}

type PTOStatus string

const (
	PTOPending   PTOStatus = "PENDING"
	PTOApproved  PTOStatus = "APPROVED"
	PTODenied    PTOStatus = "DENIED"
	PTOCancelled PTOStatus = "CANCELLED"
)

// PTOBalance tracks per-category allotments and used day counts for one
// employee. Day counts are decimals so half-day requests stay exact.
// Created lazily on first approval.
type PTOBalance struct {
	Base
	EmployeeID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"employee_id"`

	VacationDays decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"vacation_days"`
	SickDays     decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"sick_days"`
	PersonalDays decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"personal_days"`

	VacationUsed decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"vacation_used"`
	SickUsed     decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"sick_used"`
	PersonalUsed decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"personal_used"`
}

func (PTOBalance) TableName() string {
	return "pto_balances"
}

// Allotment returns the allotted days for a PTO type.
func (b *PTOBalance) Allotment(t PTOType) decimal.Decimal {
	switch t {
	case PTOSick:
		return b.SickDays
	case PTOPersonal:
		return b.PersonalDays
	default:
		return b.VacationDays
	}
}

// Used returns the used days counter for a PTO type.
func (b *PTOBalance) Used(t PTOType) decimal.Decimal {
	switch t {
	case PTOSick:
		return b.SickUsed
	case PTOPersonal:
		return b.PersonalUsed
	default:
		return b.VacationUsed
	}
}

// SetUsed overwrites the used days counter for a PTO type.
func (b *PTOBalance) SetUsed(t PTOType, v decimal.Decimal) {
	switch t {
	case PTOSick:
		b.SickUsed = v
	case PTOPersonal:
		b.PersonalUsed = v
	default:
		b.VacationUsed = v
	}
}

type PTORequest struct {
	Base
	EmployeeID uuid.UUID       `gorm:"type:uuid;index;not null" json:"employee_id"`
	Type       PTOType         `gorm:"not null" json:"type"`
	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    time.Time       `gorm:"not null" json:"end_date"`
	TotalDays  decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"total_days"`
	Reason     string          `json:"reason,omitempty"`
	Status     PTOStatus       `gorm:"not null;default:'PENDING';index" json:"status"`

	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewNotes  *string    `json:"review_notes,omitempty"`

	// Relationships
	Employee *EmployeeProfile `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
}

func (PTORequest) TableName() string {
	return "pto_requests"
}
