package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/database/models"
	"gorm.io/gorm"
)

// UpdateOwnProfile lets an employee fill in their own personal details. The
// first self-edit moves onboarding from NOT_STARTED to IN_PROGRESS.
// Employment terms (title, wage, dates, status) stay admin-only and are
// stripped from the input.
func (s *Service) UpdateOwnProfile(ctx context.Context, userID uuid.UUID, in UpdateInput, meta RequestMeta) (*models.EmployeeProfile, error) {
	profile, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Self-service never touches employment terms.
	in.RoleTitle = nil
	in.StartDate = nil
	in.EmploymentType = nil
	in.Wage = nil
	in.OnboardingStatus = nil

	applyProfileFields(profile, in)
	if profile.OnboardingStatus == models.OnboardingNotStarted {
		profile.OnboardingStatus = models.OnboardingInProgress
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &userID,
		Action:     models.ActionProfileUpdate,
		EntityType: "employee_profile",
		EntityID:   &profile.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return profile, nil
}

type BankDetailsInput struct {
	BankName      string
	AccountType   models.AccountType
	RoutingNumber string
	AccountNumber string
}

// UpdateBankDetails stores direct-deposit details. Routing and account
// numbers are encrypted at rest; only the last four digits stay readable.
func (s *Service) UpdateBankDetails(ctx context.Context, userID uuid.UUID, in BankDetailsInput, meta RequestMeta) (*models.BankDetails, error) {
	profile, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	encRouting, err := s.encryptor.EncryptString(in.RoutingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt routing number: %w", err)
	}
	encAccount, err := s.encryptor.EncryptString(in.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt account number: %w", err)
	}

	last4 := in.AccountNumber
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}

	var details models.BankDetails
	err = s.db.WithContext(ctx).Where("employee_id = ?", profile.ID).First(&details).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		details = models.BankDetails{EmployeeID: profile.ID}
	case err != nil:
		return nil, fmt.Errorf("failed to load bank details: %w", err)
	}

	details.BankName = in.BankName
	details.AccountType = in.AccountType
	details.RoutingNumber = encRouting
	details.AccountNumber = encAccount
	details.Last4Account = last4
	details.Confirmed = true

	if err := s.db.WithContext(ctx).Save(&details).Error; err != nil {
		return nil, fmt.Errorf("failed to save bank details: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &userID,
		Action:     models.ActionSettingsUpdate,
		EntityType: "bank_details",
		EntityID:   &details.ID,
		Details:    map[string]any{"bank_name": in.BankName, "last4": last4},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return &details, nil
}
