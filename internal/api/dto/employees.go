package dto

import (
	"time"

	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/shopspring/decimal"
)

type InviteEmployeeRequest struct {
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
	FullName     string `json:"full_name"`
	RoleTitle    string `json:"role_title,omitempty"`
}

func (r InviteEmployeeRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.TempPassword == "" {
		errors["temp_password"] = "Temporary password is required"
	} else if len(r.TempPassword) < 8 {
		errors["temp_password"] = "Temporary password must be at least 8 characters"
	}
	if r.FullName == "" {
		errors["full_name"] = "Full name is required"
	}

	return errors
}

// UpdateEmployeeRequest uses pointers so absent fields are left unchanged.
type UpdateEmployeeRequest struct {
	FullName                     *string `json:"full_name,omitempty"`
	DateOfBirth                  *string `json:"date_of_birth,omitempty"`
	Phone                        *string `json:"phone,omitempty"`
	Address                      *string `json:"address,omitempty"`
	EmergencyContactName         *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactRelationship *string `json:"emergency_contact_relationship,omitempty"`
	EmergencyContactPhone        *string `json:"emergency_contact_phone,omitempty"`
	RoleTitle                    *string `json:"role_title,omitempty"`
	StartDate                    *string `json:"start_date,omitempty"`
	EmploymentType               *string `json:"employment_type,omitempty"`
	Wage                         *string `json:"wage,omitempty"`
	OnboardingStatus             *string `json:"onboarding_status,omitempty"`
}

func (r UpdateEmployeeRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.DateOfBirth != nil {
		if _, err := time.Parse(DateLayout, *r.DateOfBirth); err != nil {
			errors["date_of_birth"] = "Date of birth must be YYYY-MM-DD"
		}
	}
	if r.StartDate != nil {
		if _, err := time.Parse(DateLayout, *r.StartDate); err != nil {
			errors["start_date"] = "Start date must be YYYY-MM-DD"
		}
	}
	if r.EmploymentType != nil {
		et := models.EmploymentType(*r.EmploymentType)
		if et != models.EmploymentHourly && et != models.EmploymentSalary {
			errors["employment_type"] = "Employment type must be HOURLY or SALARY"
		}
	}
	if r.Wage != nil {
		if _, err := decimal.NewFromString(*r.Wage); err != nil {
			errors["wage"] = "Wage must be a decimal number"
		}
	}
	if r.OnboardingStatus != nil {
		switch models.OnboardingStatus(*r.OnboardingStatus) {
		case models.OnboardingNotStarted, models.OnboardingInProgress, models.OnboardingCompleted:
		default:
			errors["onboarding_status"] = "Invalid onboarding status"
		}
	}

	return errors
}

type SetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (r SetPasswordRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.NewPassword == "" {
		errors["new_password"] = "New password is required"
	} else if len(r.NewPassword) < 8 {
		errors["new_password"] = "Password must be at least 8 characters"
	}

	return errors
}

type BankDetailsRequest struct {
	BankName      string `json:"bank_name"`
	AccountType   string `json:"account_type"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
}

func (r BankDetailsRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.BankName == "" {
		errors["bank_name"] = "Bank name is required"
	}
	switch models.AccountType(r.AccountType) {
	case models.AccountChecking, models.AccountSavings:
	default:
		errors["account_type"] = "Account type must be CHECKING or SAVINGS"
	}
	if len(r.RoutingNumber) != 9 {
		errors["routing_number"] = "Routing number must be 9 digits"
	}
	if len(r.AccountNumber) < 4 {
		errors["account_number"] = "Account number is required"
	}

	return errors
}

type AnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r AnnouncementRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if r.Body == "" {
		errors["body"] = "Body is required"
	}

	return errors
}
