package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OnboardingStatus string

const (
	OnboardingNotStarted OnboardingStatus = "NOT_STARTED"
	OnboardingInProgress OnboardingStatus = "IN_PROGRESS"
	OnboardingCompleted  OnboardingStatus = "COMPLETED"
)

type EmploymentType string

const (
	EmploymentHourly EmploymentType = "HOURLY"
	EmploymentSalary EmploymentType = "SALARY"
)

type AccountType string

const (
	AccountChecking AccountType = "CHECKING"
	AccountSavings  AccountType = "SAVINGS"
)

// EmployeeProfile is the 1:1 extension of a User with role EMPLOYEE. Created
// empty at invite time and filled in during onboarding.
type EmployeeProfile struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	FullName                     string     `json:"full_name"`
	DateOfBirth                  *time.Time `json:"date_of_birth,omitempty"`
	Phone                        string     `json:"phone"`
	Address                      string     `json:"address"`
	EmergencyContactName         string     `json:"emergency_contact_name"`
	EmergencyContactRelationship string     `json:"emergency_contact_relationship"`
	EmergencyContactPhone        string     `json:"emergency_contact_phone"`

	RoleTitle      string           `json:"role_title"`
	StartDate      *time.Time       `json:"start_date,omitempty"`
	EmploymentType *EmploymentType  `json:"employment_type,omitempty"`
	Wage           *decimal.Decimal `gorm:"type:decimal(12,2)" json:"wage,omitempty"`

	OnboardingStatus      OnboardingStatus `gorm:"not null;default:'NOT_STARTED'" json:"onboarding_status"`
	OnboardingCompletedAt *time.Time       `json:"onboarding_completed_at,omitempty"`

	// Relationships
	User        *User        `gorm:"foreignKey:UserID" json:"-"`
	BankDetails *BankDetails `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"bank_details,omitempty"`
	Balance     *PTOBalance  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"balance,omitempty"`
}

func (EmployeeProfile) TableName() string {
	return "employee_profiles"
}

// BankDetails holds payroll banking information. Routing and account numbers
// are age-encrypted; only the last four digits are kept in the clear.
type BankDetails struct {
	Base
	EmployeeID    uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null" json:"employee_id"`
	BankName      string      `json:"bank_name"`
	AccountType   AccountType `gorm:"not null;default:'CHECKING'" json:"account_type"`
	RoutingNumber string      `json:"-"`
	AccountNumber string      `json:"-"`
	Last4Account  string      `json:"last4_account"`
	Confirmed     bool        `gorm:"default:false" json:"confirmed"`
}

func (BankDetails) TableName() string {
	return "bank_details"
}
