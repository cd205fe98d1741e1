package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/pkg/crypto"
	"gorm.io/gorm"
)

// resetTokenTTL is how long a password reset link stays valid.
const resetTokenTTL = time.Hour

// loginAttemptPrefix namespaces rate-limit keys per account.
const loginAttemptPrefix = "login:"

// Mailer delivers account emails. The production wiring enqueues through the
// background worker so SMTP latency never sits on the request path.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// RequestMeta carries per-request context into the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type Service struct {
	db        *gorm.DB
	jwt       *JWTService
	encryptor *crypto.Encryptor
	attempts  AttemptStore
	audit     *audit.Recorder
	mailer    Mailer
	logger    *slog.Logger

	loginMax    int
	loginWindow time.Duration
	baseURL     string
}

type ServiceConfig struct {
	LoginAttempts int
	LoginWindow   time.Duration
	BaseURL       string
}

func NewService(
	db *gorm.DB,
	jwtSvc *JWTService,
	encryptor *crypto.Encryptor,
	attempts AttemptStore,
	recorder *audit.Recorder,
	mailer Mailer,
	logger *slog.Logger,
	cfg ServiceConfig,
) *Service {
	return &Service{
		db:          db,
		jwt:         jwtSvc,
		encryptor:   encryptor,
		attempts:    attempts,
		audit:       recorder,
		mailer:      mailer,
		logger:      logger,
		loginMax:    cfg.LoginAttempts,
		loginWindow: cfg.LoginWindow,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
	}
}

type LoginInput struct {
	Email         string
	Password      string
	TwoFactorCode string
}

type LoginResult struct {
	Token string
	User  *models.User
}

// Login authenticates an email/password pair, enforcing the per-account
// attempt limit and the second factor when one is enrolled. Unknown email
// and wrong password produce the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput, meta RequestMeta) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	key := loginAttemptPrefix + email

	allowed, retryAfter, err := s.attempts.Hit(ctx, key, s.loginWindow, s.loginMax)
	if err != nil {
		// The limiter is a hardening layer, not the credential check; a
		// Redis outage must not lock everyone out.
		s.logger.Warn("attempt store unavailable, skipping rate limit", "error", err)
		allowed = true
	}
	if !allowed {
		s.recordLoginFailure(ctx, nil, email, "rate_limited", meta)
		return nil, &RateLimitedError{RetryAfter: int(math.Ceil(retryAfter.Seconds()))}
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a hash comparison so the unknown-email path costs the
			// same as a wrong password.
			CheckPassword(in.Password, dummyHash)
			s.recordLoginFailure(ctx, nil, email, "unknown_email", meta)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(in.Password, user.PasswordHash) {
		s.recordLoginFailure(ctx, &user.ID, email, "wrong_password", meta)
		return nil, ErrInvalidCredentials
	}

	if user.TOTPEnabled {
		if in.TwoFactorCode == "" {
			return nil, ErrTwoFactorRequired
		}
		if err := s.verifySecondFactor(ctx, &user, in.TwoFactorCode); err != nil {
			s.recordLoginFailure(ctx, &user.ID, email, "invalid_2fa_code", meta)
			return nil, err
		}
	}

	if err := s.attempts.Reset(ctx, key); err != nil {
		s.logger.Warn("failed to reset attempt counter", "error", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &user.ID,
		Action:     models.ActionLogin,
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})

	return &LoginResult{Token: token, User: &user}, nil
}

// dummyHash is a bcrypt hash of a random string, used only to equalize
// timing on the unknown-email branch.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// verifySecondFactor accepts either a current TOTP code or one unused backup
// code. A consumed backup code is removed before the login proceeds.
func (s *Service) verifySecondFactor(ctx context.Context, user *models.User, code string) error {
	if user.TOTPSecret == nil {
		return ErrInvalidTwoFactorCode
	}

	secret, err := s.encryptor.DecryptString(*user.TOTPSecret)
	if err != nil {
		return fmt.Errorf("failed to decrypt totp secret: %w", err)
	}
	if VerifyTOTP(code, secret) {
		return nil
	}

	if user.BackupCodes == nil {
		return ErrInvalidTwoFactorCode
	}
	var hashes []string
	if err := json.Unmarshal([]byte(*user.BackupCodes), &hashes); err != nil {
		return fmt.Errorf("failed to decode backup codes: %w", err)
	}

	idx := crypto.VerifyBackupCode(code, hashes)
	if idx < 0 {
		return ErrInvalidTwoFactorCode
	}

	remaining := append(hashes[:idx], hashes[idx+1:]...)
	data, err := json.Marshal(remaining)
	if err != nil {
		return fmt.Errorf("failed to encode backup codes: %w", err)
	}
	encoded := string(data)
	if err := s.db.WithContext(ctx).Model(user).Update("backup_codes", encoded).Error; err != nil {
		return fmt.Errorf("failed to consume backup code: %w", err)
	}
	user.BackupCodes = &encoded
	return nil
}

func (s *Service) recordLoginFailure(ctx context.Context, userID *uuid.UUID, email, reason string, meta RequestMeta) {
	s.audit.Record(ctx, audit.Entry{
		UserID:     userID,
		Action:     models.ActionLoginFailed,
		EntityType: "user",
		Details:    map[string]any{"email": email, "reason": reason},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
}

// InviteUser creates a credentialed account for a new hire. The caller owns
// the surrounding employee record and audit entry.
func (s *Service) InviteUser(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	return s.InviteUserTx(ctx, s.db, email, password, role)
}

// InviteUserTx is InviteUser against a caller-supplied handle, so the account
// and its dependent rows can be created in a single transaction.
func (s *Service) InviteUserTx(ctx context.Context, tx *gorm.DB, email, password string, role models.Role) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := tx.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// ChangePassword rotates a password for a logged-in user after re-verifying
// the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string, meta RequestMeta) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &user.ID,
		Action:     models.ActionSettingsUpdate,
		EntityType: "user",
		EntityID:   &user.ID,
		Details:    map[string]any{"change": "password"},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

// ForgotPassword issues a single-use reset link. It deliberately succeeds
// for unknown emails so the endpoint cannot confirm which accounts exist.
func (s *Service) ForgotPassword(ctx context.Context, email string, meta RequestMeta) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	rawToken, err := crypto.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	tokenHash, err := HashPassword(rawToken)
	if err != nil {
		return fmt.Errorf("failed to hash reset token: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A new request invalidates any earlier outstanding links.
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.PasswordResetToken{
			UserID:    user.ID,
			TokenHash: tokenHash,
			ExpiresAt: time.Now().Add(resetTokenTTL),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	// Delivery is best effort. Failing the request here would tell the
	// caller the account exists, so log and move on.
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.baseURL, rawToken, user.Email)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		s.logger.Error("failed to send reset email", "email", user.Email, "error", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &user.ID,
		Action:     models.ActionPasswordResetRequest,
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

// ResetPassword consumes a reset token and sets the new password in one
// transaction. Any token that is expired, already used, or simply wrong
// yields the same ErrResetTokenInvalid.
func (s *Service) ResetPassword(ctx context.Context, email, token, newPassword string, meta RequestMeta) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []models.PasswordResetToken
		if err := tx.Where("user_id = ?", user.ID).Find(&candidates).Error; err != nil {
			return err
		}

		now := time.Now()
		var match *models.PasswordResetToken
		for i := range candidates {
			if candidates[i].Usable(now) && CheckPassword(token, candidates[i].TokenHash) {
				match = &candidates[i]
				break
			}
		}
		if match == nil {
			return ErrResetTokenInvalid
		}

		if err := tx.Model(match).Update("used_at", now).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("password_hash", hash).Error; err != nil {
			return err
		}
		// Sweep any remaining tokens so the account has no live links.
		return tx.Where("user_id = ? AND id <> ?", user.ID, match.ID).
			Delete(&models.PasswordResetToken{}).Error
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &user.ID,
		Action:     models.ActionPasswordResetComplete,
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

type TwoFactorSetup struct {
	Secret     string
	OTPAuthURL string
}

// SetupTwoFactor provisions a pending TOTP secret. Enrollment only takes
// effect once VerifyTwoFactor proves the authenticator has the secret.
func (s *Service) SetupTwoFactor(ctx context.Context, userID uuid.UUID) (*TwoFactorSetup, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TOTPEnabled {
		return nil, ErrTwoFactorAlreadyEnabled
	}

	secret, url, err := GenerateTOTPKey(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp key: %w", err)
	}

	encrypted, err := s.encryptor.EncryptString(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt totp secret: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("totp_secret", encrypted).Error; err != nil {
		return nil, fmt.Errorf("failed to store totp secret: %w", err)
	}

	return &TwoFactorSetup{Secret: secret, OTPAuthURL: url}, nil
}

// VerifyTwoFactor completes enrollment and returns the backup codes. This is
// the only time the codes exist in plaintext.
func (s *Service) VerifyTwoFactor(ctx context.Context, userID uuid.UUID, code string, meta RequestMeta) ([]string, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TOTPEnabled {
		return nil, ErrTwoFactorAlreadyEnabled
	}
	if user.TOTPSecret == nil {
		return nil, ErrNoSetupPending
	}

	secret, err := s.encryptor.DecryptString(*user.TOTPSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt totp secret: %w", err)
	}
	if !VerifyTOTP(code, secret) {
		return nil, ErrInvalidTwoFactorCode
	}

	codes, err := crypto.GenerateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}
	hashes := make([]string, len(codes))
	for i, c := range codes {
		hashes[i] = crypto.HashBackupCode(c)
	}
	data, err := json.Marshal(hashes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup codes: %w", err)
	}

	updates := map[string]any{
		"totp_enabled": true,
		"backup_codes": string(data),
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to enable two-factor: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &user.ID,
		Action:     models.ActionTwoFactorEnabled,
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return codes, nil
}

// DisableTwoFactor turns the second factor off after re-verifying the
// password, and wipes the stored secret and backup codes.
func (s *Service) DisableTwoFactor(ctx context.Context, userID uuid.UUID, password string, meta RequestMeta) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.TOTPEnabled {
		return ErrTwoFactorNotEnabled
	}
	if !CheckPassword(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	updates := map[string]any{
		"totp_enabled": false,
		"totp_secret":  nil,
		"backup_codes": nil,
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to disable two-factor: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &user.ID,
		Action:     models.ActionTwoFactorDisabled,
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}
