package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/mail"
	"github.com/novacreations/nova-hr/internal/pdf"
	"github.com/novacreations/nova-hr/internal/storage"
	"github.com/novacreations/nova-hr/pkg/crypto"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("employee profile not found")
	ErrPayStubNotFound      = errors.New("pay stub not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrNotProfileOwner      = errors.New("record belongs to another employee")
)

// RequestMeta carries per-request context into the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type Service struct {
	db        *gorm.DB
	auth      *auth.Service
	encryptor *crypto.Encryptor
	blobs     storage.BlobStore
	mailer    mail.Mailer
	renderer  *pdf.Renderer
	audit     *audit.Recorder
	logger    *slog.Logger
	portalURL string
}

func NewService(
	db *gorm.DB,
	authSvc *auth.Service,
	encryptor *crypto.Encryptor,
	blobs storage.BlobStore,
	mailer mail.Mailer,
	renderer *pdf.Renderer,
	recorder *audit.Recorder,
	logger *slog.Logger,
	portalURL string,
) *Service {
	return &Service{
		db:        db,
		auth:      authSvc,
		encryptor: encryptor,
		blobs:     blobs,
		mailer:    mailer,
		renderer:  renderer,
		audit:     recorder,
		logger:    logger,
		portalURL: portalURL,
	}
}

type InviteInput struct {
	Email        string
	TempPassword string
	FullName     string
	RoleTitle    string
}

// Invite creates the user account and an empty profile for a new hire in one
// transaction, then emails the credentials. The email is best effort; the
// records stand either way.
func (s *Service) Invite(ctx context.Context, adminID uuid.UUID, in InviteInput, meta RequestMeta) (*models.EmployeeProfile, error) {
	var user *models.User
	var profile models.EmployeeProfile

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = s.auth.InviteUserTx(ctx, tx, in.Email, in.TempPassword, models.RoleEmployee)
		if err != nil {
			return err
		}

		profile = models.EmployeeProfile{
			UserID:           user.ID,
			FullName:         in.FullName,
			RoleTitle:        in.RoleTitle,
			OnboardingStatus: models.OnboardingNotStarted,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	profile.User = user

	subject, html, text := mail.WelcomeEmail(in.FullName, s.portalURL, user.Email, in.TempPassword)
	if err := s.mailer.Send(ctx, user.Email, subject, html, text); err != nil {
		s.logger.Error("failed to send welcome email", "email", user.Email, "error", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &adminID,
		Action:     models.ActionEmployeeCreate,
		EntityType: "employee_profile",
		EntityID:   &profile.ID,
		Details:    map[string]any{"email": user.Email},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return &profile, nil
}

// List returns all employee profiles with their user and balance preloaded.
func (s *Service) List(ctx context.Context) ([]models.EmployeeProfile, error) {
	var profiles []models.EmployeeProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Balance").
		Order("created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (s *Service) Get(ctx context.Context, profileID uuid.UUID) (*models.EmployeeProfile, error) {
	var profile models.EmployeeProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("BankDetails").
		Preload("Balance").
		First(&profile, "id = ?", profileID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// GetByUserID resolves the profile belonging to a portal user.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.EmployeeProfile, error) {
	var profile models.EmployeeProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("BankDetails").
		Preload("Balance").
		First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

type UpdateInput struct {
	FullName                     *string
	DateOfBirth                  *time.Time
	Phone                        *string
	Address                      *string
	EmergencyContactName         *string
	EmergencyContactRelationship *string
	EmergencyContactPhone        *string
	RoleTitle                    *string
	StartDate                    *time.Time
	EmploymentType               *models.EmploymentType
	Wage                         *decimal.Decimal
	OnboardingStatus             *models.OnboardingStatus
}

// Update applies an admin edit. Nil fields are left untouched.
func (s *Service) Update(ctx context.Context, adminID, profileID uuid.UUID, in UpdateInput, meta RequestMeta) (*models.EmployeeProfile, error) {
	profile, err := s.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	applyProfileFields(profile, in)
	if in.OnboardingStatus != nil {
		profile.OnboardingStatus = *in.OnboardingStatus
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &adminID,
		Action:     models.ActionEmployeeUpdate,
		EntityType: "employee_profile",
		EntityID:   &profile.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return profile, nil
}

// SetPassword resets an employee's login password on their behalf, for
// example when a new hire loses the temporary credentials.
func (s *Service) SetPassword(ctx context.Context, adminID, profileID uuid.UUID, newPassword string, meta RequestMeta) error {
	profile, err := s.Get(ctx, profileID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	err = s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", profile.UserID).
		Update("password_hash", hash).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &adminID,
		Action:     models.ActionEmployeeUpdate,
		EntityType: "user",
		EntityID:   &profile.UserID,
		Details:    map[string]any{"change": "password"},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

// CompleteOnboarding marks the profile COMPLETED and generates the summary
// PDF. The PDF is strictly best effort: a rendering or upload failure is
// logged and the completion still stands.
func (s *Service) CompleteOnboarding(ctx context.Context, actorID, profileID uuid.UUID, meta RequestMeta) (*models.EmployeeProfile, error) {
	profile, err := s.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	profile.OnboardingStatus = models.OnboardingCompleted
	profile.OnboardingCompletedAt = &now
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	s.generateOnboardingPDF(ctx, actorID, profile, now)

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actorID,
		Action:     models.ActionEmployeeUpdate,
		EntityType: "employee_profile",
		EntityID:   &profile.ID,
		Details:    map[string]any{"onboarding_status": models.OnboardingCompleted},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return profile, nil
}

func (s *Service) generateOnboardingPDF(ctx context.Context, actorID uuid.UUID, profile *models.EmployeeProfile, completedAt time.Time) {
	summary := pdf.OnboardingSummary{
		FullName:       profile.FullName,
		Phone:          profile.Phone,
		Address:        profile.Address,
		DateOfBirth:    profile.DateOfBirth,
		EmergencyName:  profile.EmergencyContactName,
		EmergencyRel:   profile.EmergencyContactRelationship,
		EmergencyPhone: profile.EmergencyContactPhone,
		RoleTitle:      profile.RoleTitle,
		StartDate:      profile.StartDate,
		CompletedAt:    completedAt,
	}
	if profile.User != nil {
		summary.Email = profile.User.Email
	}
	if profile.EmploymentType != nil {
		summary.EmploymentType = string(*profile.EmploymentType)
	}
	if profile.BankDetails != nil {
		summary.BankName = profile.BankDetails.BankName
		summary.AccountType = string(profile.BankDetails.AccountType)
		summary.AccountLast4 = profile.BankDetails.Last4Account
	}

	data, err := s.renderer.Render(summary)
	if err != nil {
		s.logger.Error("onboarding pdf render failed", "profile_id", profile.ID, "error", err)
		return
	}

	key := fmt.Sprintf("documents/%s/onboarding-summary-%s.pdf", profile.ID, completedAt.Format("20060102"))
	url, err := s.blobs.Put(ctx, key, data, "application/pdf")
	if err != nil {
		s.logger.Error("onboarding pdf upload failed", "profile_id", profile.ID, "error", err)
		return
	}

	doc := models.EmployeeDocument{
		EmployeeID:   profile.ID,
		Type:         models.DocumentOther,
		FileName:     "onboarding-summary.pdf",
		FileURL:      url,
		UploadedByID: actorID,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		s.logger.Error("onboarding pdf record failed", "profile_id", profile.ID, "error", err)
	}
}

// Delete removes the employee's user account, cascading to the profile and
// its dependents.
func (s *Service) Delete(ctx context.Context, adminID, profileID uuid.UUID, meta RequestMeta) error {
	profile, err := s.Get(ctx, profileID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite in tests does not enforce the cascade, so dependents are
		// removed explicitly.
		for _, model := range []any{
			&models.PTORequest{}, &models.PTOBalance{},
			&models.BankDetails{}, &models.PayStub{}, &models.EmployeeDocument{},
		} {
			if err := tx.Where("employee_id = ?", profile.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.EmployeeProfile{}, "id = ?", profile.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", profile.UserID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &adminID,
		Action:     models.ActionEmployeeDelete,
		EntityType: "employee_profile",
		EntityID:   &profile.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

func applyProfileFields(profile *models.EmployeeProfile, in UpdateInput) {
	if in.FullName != nil {
		profile.FullName = *in.FullName
	}
	if in.DateOfBirth != nil {
		profile.DateOfBirth = in.DateOfBirth
	}
	if in.Phone != nil {
		profile.Phone = *in.Phone
	}
	if in.Address != nil {
		profile.Address = *in.Address
	}
	if in.EmergencyContactName != nil {
		profile.EmergencyContactName = *in.EmergencyContactName
	}
	if in.EmergencyContactRelationship != nil {
		profile.EmergencyContactRelationship = *in.EmergencyContactRelationship
	}
	if in.EmergencyContactPhone != nil {
		profile.EmergencyContactPhone = *in.EmergencyContactPhone
	}
	if in.RoleTitle != nil {
		profile.RoleTitle = *in.RoleTitle
	}
	if in.StartDate != nil {
		profile.StartDate = in.StartDate
	}
	if in.EmploymentType != nil {
		profile.EmploymentType = in.EmploymentType
	}
	if in.Wage != nil {
		profile.Wage = in.Wage
	}
}
