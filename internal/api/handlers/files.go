package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/api/middleware"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/employees"
)

// maxUploadBytes caps multipart uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// FilesHandler serves pay stubs, documents, and announcements for both the
// admin console and the employee portal.
type FilesHandler struct {
	employeeService *employees.Service
}

func NewFilesHandler(employeeService *employees.Service) *FilesHandler {
	return &FilesHandler{employeeService: employeeService}
}

// UploadPayStub accepts a multipart form with a "file" part plus
// pay_period_start and pay_period_end fields. Admin only.
func (h *FilesHandler) UploadPayStub(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	start, err := time.Parse(dto.DateLayout, r.FormValue("pay_period_start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "pay_period_start must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dto.DateLayout, r.FormValue("pay_period_end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "pay_period_end must be YYYY-MM-DD"})
		return
	}

	name, contentType, data, ok := readUpload(w, r)
	if !ok {
		return
	}

	adminID := middleware.GetUserID(r.Context())
	stub, err := h.employeeService.UploadPayStub(r.Context(), adminID, profileID, employees.PayStubInput{
		PayPeriodStart: start,
		PayPeriodEnd:   end,
		FileName:       name,
		ContentType:    contentType,
		Data:           data,
	}, employeesMeta(r))

	if err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to upload pay stub"})
		return
	}

	writeJSON(w, http.StatusCreated, stub)
}

// ListPayStubs lists stubs for an employee. Admin only.
func (h *FilesHandler) ListPayStubs(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	stubs, err := h.employeeService.ListPayStubs(r.Context(), profileID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list pay stubs"})
		return
	}

	writeJSON(w, http.StatusOK, stubs)
}

// ViewPayStub is the admin view; no ownership check applies.
func (h *FilesHandler) ViewPayStub(w http.ResponseWriter, r *http.Request) {
	stubID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid pay stub ID"})
		return
	}

	actorID := middleware.GetUserID(r.Context())
	stub, err := h.employeeService.ViewPayStub(r.Context(), actorID, nil, stubID, employeesMeta(r))
	if err != nil {
		h.writeFileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stub)
}

// ListOwnPayStubs lists the caller's stubs.
func (h *FilesHandler) ListOwnPayStubs(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.ownProfile(w, r)
	if !ok {
		return
	}

	stubs, err := h.employeeService.ListPayStubs(r.Context(), profile.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list pay stubs"})
		return
	}

	writeJSON(w, http.StatusOK, stubs)
}

// ViewOwnPayStub enforces that the stub belongs to the caller.
func (h *FilesHandler) ViewOwnPayStub(w http.ResponseWriter, r *http.Request) {
	stubID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid pay stub ID"})
		return
	}

	profile, ok := h.ownProfile(w, r)
	if !ok {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	stub, err := h.employeeService.ViewPayStub(r.Context(), actorID, &profile.ID, stubID, employeesMeta(r))
	if err != nil {
		h.writeFileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stub)
}

// UploadOwnDocument lets an employee attach an identity document to their
// own profile during onboarding. The "type" form field selects the document
// type and defaults to OTHER.
func (h *FilesHandler) UploadOwnDocument(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.ownProfile(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	docType := models.DocumentType(r.FormValue("type"))
	switch docType {
	case models.DocumentID, models.DocumentDriversLicense, models.DocumentPassport, models.DocumentOther:
	case "":
		docType = models.DocumentOther
	default:
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid document type"})
		return
	}

	name, contentType, data, ok := readUpload(w, r)
	if !ok {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	doc, err := h.employeeService.UploadDocument(r.Context(), actorID, profile.ID, employees.DocumentInput{
		Type:        docType,
		FileName:    name,
		ContentType: contentType,
		Data:        data,
	}, employeesMeta(r))

	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to upload document"})
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *FilesHandler) ListOwnDocuments(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.ownProfile(w, r)
	if !ok {
		return
	}

	docs, err := h.employeeService.ListDocuments(r.Context(), profile.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list documents"})
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

func (h *FilesHandler) ViewOwnDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid document ID"})
		return
	}

	profile, ok := h.ownProfile(w, r)
	if !ok {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	doc, err := h.employeeService.ViewDocument(r.Context(), actorID, &profile.ID, docID, employeesMeta(r))
	if err != nil {
		h.writeFileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// ListDocuments lists an employee's documents. Admin only.
func (h *FilesHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	docs, err := h.employeeService.ListDocuments(r.Context(), profileID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list documents"})
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

// ViewDocument is the admin view; no ownership check applies.
func (h *FilesHandler) ViewDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid document ID"})
		return
	}

	actorID := middleware.GetUserID(r.Context())
	doc, err := h.employeeService.ViewDocument(r.Context(), actorID, nil, docID, employeesMeta(r))
	if err != nil {
		h.writeFileError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// ListAnnouncements returns active announcements for the portal. Admins can
// pass ?all=true to include deactivated ones.
func (h *FilesHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if r.URL.Query().Get("all") == "true" && middleware.GetUserRole(r.Context()) == models.RoleAdmin {
		activeOnly = false
	}

	announcements, err := h.employeeService.ListAnnouncements(r.Context(), activeOnly)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list announcements"})
		return
	}

	writeJSON(w, http.StatusOK, announcements)
}

func (h *FilesHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req dto.AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	adminID := middleware.GetUserID(r.Context())
	announcement, err := h.employeeService.CreateAnnouncement(r.Context(), adminID, req.Title, req.Body)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create announcement"})
		return
	}

	writeJSON(w, http.StatusCreated, announcement)
}

func (h *FilesHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcementID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid announcement ID"})
		return
	}

	var req dto.AnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	announcement, err := h.employeeService.UpdateAnnouncement(r.Context(), announcementID, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, employees.ErrAnnouncementNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Announcement not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update announcement"})
		return
	}

	writeJSON(w, http.StatusOK, announcement)
}

func (h *FilesHandler) DeactivateAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcementID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid announcement ID"})
		return
	}

	if err := h.employeeService.DeactivateAnnouncement(r.Context(), announcementID); err != nil {
		if errors.Is(err, employees.ErrAnnouncementNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Announcement not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to deactivate announcement"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Announcement deactivated"})
}

func (h *FilesHandler) ownProfile(w http.ResponseWriter, r *http.Request) (*models.EmployeeProfile, bool) {
	userID := middleware.GetUserID(r.Context())
	profile, err := h.employeeService.GetByUserID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
		return nil, false
	}
	return profile, true
}

func (h *FilesHandler) writeFileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, employees.ErrPayStubNotFound), errors.Is(err, employees.ErrDocumentNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
	case errors.Is(err, employees.ErrNotProfileOwner):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Request failed"})
	}
}

// readUpload pulls the "file" part out of an already-parsed multipart form.
func readUpload(w http.ResponseWriter, r *http.Request) (name, contentType string, data []byte, ok bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "A file is required"})
		return "", "", nil, false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read file"})
		return "", "", nil, false
	}

	contentType = header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return header.Filename, contentType, data, true
}
