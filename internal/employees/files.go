package employees

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/database/models"
	"gorm.io/gorm"
)

type PayStubInput struct {
	PayPeriodStart time.Time
	PayPeriodEnd   time.Time
	FileName       string
	ContentType    string
	Data           []byte
}

// UploadPayStub stores the file in blob storage and records the metadata
// row. Admin only; employees view their own stubs through ViewPayStub.
func (s *Service) UploadPayStub(ctx context.Context, adminID, profileID uuid.UUID, in PayStubInput, meta RequestMeta) (*models.PayStub, error) {
	if _, err := s.Get(ctx, profileID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("paystubs/%s/%s%s", profileID, uuid.New(), path.Ext(in.FileName))
	url, err := s.blobs.Put(ctx, key, in.Data, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload pay stub: %w", err)
	}

	stub := models.PayStub{
		EmployeeID:     profileID,
		PayPeriodStart: in.PayPeriodStart,
		PayPeriodEnd:   in.PayPeriodEnd,
		FileName:       in.FileName,
		FileURL:        url,
		UploadedByID:   adminID,
	}
	if err := s.db.WithContext(ctx).Create(&stub).Error; err != nil {
		return nil, fmt.Errorf("failed to record pay stub: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &adminID,
		Action:     models.ActionPayStubUpload,
		EntityType: "pay_stub",
		EntityID:   &stub.ID,
		Details:    map[string]any{"employee_id": profileID, "file_name": in.FileName},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return &stub, nil
}

// ListPayStubs returns an employee's stubs newest period first.
func (s *Service) ListPayStubs(ctx context.Context, profileID uuid.UUID) ([]models.PayStub, error) {
	var stubs []models.PayStub
	err := s.db.WithContext(ctx).
		Where("employee_id = ?", profileID).
		Order("pay_period_end DESC").
		Find(&stubs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pay stubs: %w", err)
	}
	return stubs, nil
}

// ViewPayStub loads one stub and records the access. Employees may only
// view their own; admins pass a nil ownerProfileID to skip the check.
func (s *Service) ViewPayStub(ctx context.Context, actorUserID uuid.UUID, ownerProfileID *uuid.UUID, stubID uuid.UUID, meta RequestMeta) (*models.PayStub, error) {
	var stub models.PayStub
	if err := s.db.WithContext(ctx).First(&stub, "id = ?", stubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayStubNotFound
		}
		return nil, fmt.Errorf("failed to load pay stub: %w", err)
	}
	if ownerProfileID != nil && stub.EmployeeID != *ownerProfileID {
		return nil, ErrNotProfileOwner
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actorUserID,
		Action:     models.ActionPayStubView,
		EntityType: "pay_stub",
		EntityID:   &stub.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return &stub, nil
}

type DocumentInput struct {
	Type        models.DocumentType
	FileName    string
	ContentType string
	Data        []byte
}

// UploadDocument stores an identity or onboarding document for an employee.
func (s *Service) UploadDocument(ctx context.Context, actorUserID, profileID uuid.UUID, in DocumentInput, meta RequestMeta) (*models.EmployeeDocument, error) {
	if _, err := s.Get(ctx, profileID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("documents/%s/%s%s", profileID, uuid.New(), path.Ext(in.FileName))
	url, err := s.blobs.Put(ctx, key, in.Data, in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	doc := models.EmployeeDocument{
		EmployeeID:   profileID,
		Type:         in.Type,
		FileName:     in.FileName,
		FileURL:      url,
		UploadedByID: actorUserID,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actorUserID,
		Action:     models.ActionDocumentUpload,
		EntityType: "employee_document",
		EntityID:   &doc.ID,
		Details:    map[string]any{"employee_id": profileID, "type": in.Type},
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return &doc, nil
}

func (s *Service) ListDocuments(ctx context.Context, profileID uuid.UUID) ([]models.EmployeeDocument, error) {
	var docs []models.EmployeeDocument
	err := s.db.WithContext(ctx).
		Where("employee_id = ?", profileID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// ViewDocument mirrors ViewPayStub's ownership rule.
func (s *Service) ViewDocument(ctx context.Context, actorUserID uuid.UUID, ownerProfileID *uuid.UUID, docID uuid.UUID, meta RequestMeta) (*models.EmployeeDocument, error) {
	var doc models.EmployeeDocument
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if ownerProfileID != nil && doc.EmployeeID != *ownerProfileID {
		return nil, ErrNotProfileOwner
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:     &actorUserID,
		Action:     models.ActionDocumentView,
		EntityType: "employee_document",
		EntityID:   &doc.ID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
	return &doc, nil
}

// CreateAnnouncement publishes a portal-wide notice.
func (s *Service) CreateAnnouncement(ctx context.Context, adminID uuid.UUID, title, body string) (*models.Announcement, error) {
	announcement := models.Announcement{
		Title:       title,
		Body:        body,
		IsActive:    true,
		CreatedByID: adminID,
	}
	if err := s.db.WithContext(ctx).Create(&announcement).Error; err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	return &announcement, nil
}

// ListAnnouncements returns notices newest first; activeOnly hides retired
// ones for the employee portal.
func (s *Service) ListAnnouncements(ctx context.Context, activeOnly bool) ([]models.Announcement, error) {
	q := s.db.WithContext(ctx).Model(&models.Announcement{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var announcements []models.Announcement
	if err := q.Order("created_at DESC").Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

// UpdateAnnouncement rewrites a notice's title and body.
func (s *Service) UpdateAnnouncement(ctx context.Context, announcementID uuid.UUID, title, body string) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := s.db.WithContext(ctx).First(&announcement, "id = ?", announcementID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("failed to load announcement: %w", err)
	}

	announcement.Title = title
	announcement.Body = body
	if err := s.db.WithContext(ctx).Save(&announcement).Error; err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return &announcement, nil
}

// DeactivateAnnouncement retires a notice without deleting it.
func (s *Service) DeactivateAnnouncement(ctx context.Context, announcementID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("id = ?", announcementID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate announcement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}
