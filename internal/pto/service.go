package pto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Default allotments applied when a balance row is created on first
// approval. New hires get these until HR adjusts them.
var (
	DefaultVacationDays = decimal.NewFromInt(10)
	DefaultSickDays     = decimal.NewFromInt(5)
	DefaultPersonalDays = decimal.NewFromInt(3)
)

var (
	ErrRequestNotFound  = errors.New("pto request not found")
	ErrInvalidType      = errors.New("invalid pto type")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrNotPending       = errors.New("request is no longer pending")
	ErrNotApproved      = errors.New("request is not approved")
	ErrNotOwner         = errors.New("request belongs to another employee")
	ErrReasonRequired   = errors.New("a reason is required")

	// ErrBalanceMissing means an APPROVED request exists without the balance
	// row Approve is supposed to have created. That state should be
	// unreachable, so Revoke reports it instead of silently skipping the
	// restore.
	ErrBalanceMissing = errors.New("no balance row exists for an approved request")
)

// InsufficientBalanceError reports how far a request overshoots the
// remaining balance for its type.
type InsufficientBalanceError struct {
	Type      models.PTOType
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: requested %s days, %s available",
		strings.ToLower(string(e.Type)), e.Requested.String(), e.Available.String())
}

type Service struct {
	db     *gorm.DB
	audit  *audit.Recorder
	logger *slog.Logger
}

func NewService(db *gorm.DB, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{db: db, audit: recorder, logger: logger}
}

// RequestMeta carries per-request context into the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// TotalDays is the inclusive day count of a date range: a single-day
// request spans one day, not zero.
func TotalDays(start, end time.Time) decimal.Decimal {
	days := int64(math.Ceil(end.Sub(start).Hours()/24)) + 1
	return decimal.NewFromInt(days)
}

// defaultAllotment returns the starting allotment for a PTO type before HR
// has created or adjusted a balance row.
func defaultAllotment(t models.PTOType) decimal.Decimal {
	switch t {
	case models.PTOSick:
		return DefaultSickDays
	case models.PTOPersonal:
		return DefaultPersonalDays
	default:
		return DefaultVacationDays
	}
}

type CreateInput struct {
	Type      models.PTOType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Create submits a new PENDING request after checking it fits the remaining
// balance. No days are deducted here; deduction happens at Approve.
func (s *Service) Create(ctx context.Context, actorUserID, employeeID uuid.UUID, in CreateInput, meta RequestMeta) (*models.PTORequest, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidDateRange
	}

	totalDays := TotalDays(in.StartDate, in.EndDate)

	// A missing balance row means nothing has been approved yet, so the
	// full default allotment is available. The row itself is created
	// lazily on first approval.
	allotment := defaultAllotment(in.Type)
	used := decimal.Zero

	var balance models.PTOBalance
	err := s.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&balance).Error
	switch {
	case err == nil:
		allotment = balance.Allotment(in.Type)
		used = balance.Used(in.Type)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}

	available := allotment.Sub(used)
	if totalDays.GreaterThan(available) {
		return nil, &InsufficientBalanceError{
			Type:      in.Type,
			Requested: totalDays,
			Available: available,
		}
	}

	request := models.PTORequest{
		EmployeeID: employeeID,
		Type:       in.Type,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		TotalDays:  totalDays,
		Reason:     strings.TrimSpace(in.Reason),
		Status:     models.PTOPending,
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to create pto request: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actorUserID,
		Action:     models.ActionPTORequestCreate,
		EntityType: "pto_request",
		EntityID:   &request.ID,
		Details: map[string]any{
			"type":       request.Type,
			"total_days": request.TotalDays.String(),
		},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	return &request, nil
}

// Approve transitions a PENDING request to APPROVED and deducts its days
// from the employee's balance in the same transaction. The balance row is
// created with default allotments the first time an employee has a request
// approved.
func (s *Service) Approve(ctx context.Context, requestID, adminUserID uuid.UUID, notes string, meta RequestMeta) (*models.PTORequest, error) {
	var request models.PTORequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to load request: %w", err)
		}
		if request.Status != models.PTOPending {
			return ErrNotPending
		}

		now := time.Now()
		request.Status = models.PTOApproved
		request.ReviewedByID = &adminUserID
		request.ReviewedAt = &now
		if notes = strings.TrimSpace(notes); notes != "" {
			request.ReviewNotes = &notes
		}
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		var balance models.PTOBalance
		err := tx.Where("employee_id = ?", request.EmployeeID).First(&balance).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			balance = models.PTOBalance{
				EmployeeID:   request.EmployeeID,
				VacationDays: DefaultVacationDays,
				SickDays:     DefaultSickDays,
				PersonalDays: DefaultPersonalDays,
				VacationUsed: decimal.Zero,
				SickUsed:     decimal.Zero,
				PersonalUsed: decimal.Zero,
			}
			balance.SetUsed(request.Type, request.TotalDays)
			if err := tx.Create(&balance).Error; err != nil {
				return fmt.Errorf("failed to create balance: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load balance: %w", err)
		default:
			balance.SetUsed(request.Type, balance.Used(request.Type).Add(request.TotalDays))
			if err := tx.Save(&balance).Error; err != nil {
				return fmt.Errorf("failed to update balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &adminUserID,
		Action:     models.ActionPTORequestApprove,
		EntityType: "pto_request",
		EntityID:   &request.ID,
		Details: map[string]any{
			"type":       request.Type,
			"total_days": request.TotalDays.String(),
		},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	return &request, nil
}

// Deny transitions a PENDING request to DENIED. Unlike Approve, the reason
// is mandatory since the employee sees it as the recorded justification.
// Balances are untouched because nothing was deducted at creation.
func (s *Service) Deny(ctx context.Context, requestID, adminUserID uuid.UUID, reason string, meta RequestMeta) (*models.PTORequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var request models.PTORequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request.Status != models.PTOPending {
		return nil, ErrNotPending
	}

	now := time.Now()
	request.Status = models.PTODenied
	request.ReviewedByID = &adminUserID
	request.ReviewedAt = &now
	request.ReviewNotes = &reason
	if err := s.db.WithContext(ctx).Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &adminUserID,
		Action:     models.ActionPTORequestDeny,
		EntityType: "pto_request",
		EntityID:   &request.ID,
		Details: map[string]any{
			"type":   request.Type,
			"reason": reason,
		},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	return &request, nil
}

// Revoke walks an APPROVED request back: the request lands in the DENIED
// terminal state and the deducted days are restored to the balance, both in
// one transaction. The audit entry distinguishes a revocation from an
// ordinary denial.
func (s *Service) Revoke(ctx context.Context, requestID, adminUserID uuid.UUID, reason string, meta RequestMeta) (*models.PTORequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var request models.PTORequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to load request: %w", err)
		}
		if request.Status != models.PTOApproved {
			return ErrNotApproved
		}

		var balance models.PTOBalance
		if err := tx.Where("employee_id = ?", request.EmployeeID).First(&balance).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Approve always creates the row, so a missing one means the
				// books are already wrong.
				return ErrBalanceMissing
			}
			return fmt.Errorf("failed to load balance: %w", err)
		}

		restored := balance.Used(request.Type).Sub(request.TotalDays)
		if restored.IsNegative() {
			s.logger.Warn("used counter below requested restore, clamping to zero",
				"request_id", request.ID,
				"type", request.Type,
			)
			restored = decimal.Zero
		}
		balance.SetUsed(request.Type, restored)
		if err := tx.Save(&balance).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		now := time.Now()
		request.Status = models.PTODenied
		request.ReviewedByID = &adminUserID
		request.ReviewedAt = &now
		request.ReviewNotes = &reason
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &adminUserID,
		Action:     models.ActionPTORequestDeny,
		EntityType: "pto_request",
		EntityID:   &request.ID,
		Details: map[string]any{
			"type":            request.Type,
			"reason":          reason,
			"was_revoked":     true,
			"previous_status": models.PTOApproved,
		},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
	return &request, nil
}

// Cancel is the employee-initiated exit from PENDING. Only the owner may
// cancel, and only before an admin has acted on the request.
func (s *Service) Cancel(ctx context.Context, requestID, employeeID, actorUserID uuid.UUID, meta RequestMeta) (*models.PTORequest, error) {
	var request models.PTORequest
	if err := s.db.WithContext(ctx).First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request.EmployeeID != employeeID {
		return nil, ErrNotOwner
	}
	if request.Status != models.PTOPending {
		return nil, ErrNotPending
	}

	request.Status = models.PTOCancelled
	if err := s.db.WithContext(ctx).Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actorUserID,
		Action:     models.ActionPTORequestCancel,
		EntityType: "pto_request",
		EntityID:   &request.ID,
		Details:    map[string]any{"type": request.Type},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return &request, nil
}

// BalanceSummary is the per-type view an employee sees, with defaults
// substituted when no balance row exists yet.
type BalanceSummary struct {
	Type      models.PTOType  `json:"type"`
	Allotment decimal.Decimal `json:"allotment"`
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
}

// GetBalances returns the three per-type summaries for an employee.
func (s *Service) GetBalances(ctx context.Context, employeeID uuid.UUID) ([]BalanceSummary, error) {
	var balance models.PTOBalance
	err := s.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&balance).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}

	types := []models.PTOType{models.PTOVacation, models.PTOSick, models.PTOPersonal}
	summaries := make([]BalanceSummary, 0, len(types))
	for _, t := range types {
		allotment := defaultAllotment(t)
		used := decimal.Zero
		if err == nil {
			allotment = balance.Allotment(t)
			used = balance.Used(t)
		}
		summaries = append(summaries, BalanceSummary{
			Type:      t,
			Allotment: allotment,
			Used:      used,
			Remaining: allotment.Sub(used),
		})
	}
	return summaries, nil
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	EmployeeID *uuid.UUID
	Status     models.PTOStatus
}

// List returns requests newest first, with the employee preloaded for the
// admin console.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.PTORequest, error) {
	q := s.db.WithContext(ctx).Model(&models.PTORequest{}).Preload("Employee")

	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var requests []models.PTORequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// Get loads one request by id.
func (s *Service) Get(ctx context.Context, requestID uuid.UUID) (*models.PTORequest, error) {
	var request models.PTORequest
	if err := s.db.WithContext(ctx).Preload("Employee").First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &request, nil
}
