package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/api/middleware"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/employees"
	"github.com/novacreations/nova-hr/internal/pto"
)

type PTOHandler struct {
	ptoService      *pto.Service
	employeeService *employees.Service
}

func NewPTOHandler(ptoService *pto.Service, employeeService *employees.Service) *PTOHandler {
	return &PTOHandler{ptoService: ptoService, employeeService: employeeService}
}

// Create submits a time-off request for the caller's own profile.
func (h *PTOHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePTORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	profile, err := h.employeeService.GetByUserID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
		return
	}

	start, _ := time.Parse(dto.DateLayout, req.StartDate)
	end, _ := time.Parse(dto.DateLayout, req.EndDate)

	request, err := h.ptoService.Create(r.Context(), userID, profile.ID, pto.CreateInput{
		Type:      models.PTOType(req.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}, ptoMeta(r))

	if err != nil {
		var balErr *pto.InsufficientBalanceError
		switch {
		case errors.As(err, &balErr):
			writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{Error: balErr.Error()})
		case errors.Is(err, pto.ErrInvalidDateRange):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "End date must not be before start date"})
		case errors.Is(err, pto.ErrInvalidType):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Type must be VACATION, SICK, or PERSONAL"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create request"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

// ListOwn returns the caller's requests, newest first.
func (h *PTOHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	profile, err := h.employeeService.GetByUserID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
		return
	}

	filter := pto.ListFilter{EmployeeID: &profile.ID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = models.PTOStatus(status)
	}

	requests, err := h.ptoService.List(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list requests"})
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

// Cancel withdraws one of the caller's own pending requests.
func (h *PTOHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request ID"})
		return
	}

	userID := middleware.GetUserID(r.Context())
	profile, err := h.employeeService.GetByUserID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
		return
	}

	request, err := h.ptoService.Cancel(r.Context(), requestID, profile.ID, userID, ptoMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, pto.ErrRequestNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Request not found"})
		case errors.Is(err, pto.ErrNotOwner):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
		case errors.Is(err, pto.ErrNotPending):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Only pending requests can be cancelled"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to cancel request"})
		}
		return
	}

	writeJSON(w, http.StatusOK, request)
}

// Balances returns the caller's remaining allotments per type.
func (h *PTOHandler) Balances(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	profile, err := h.employeeService.GetByUserID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
		return
	}

	balances, err := h.ptoService.GetBalances(r.Context(), profile.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load balances"})
		return
	}

	writeJSON(w, http.StatusOK, balances)
}

// List returns requests across all employees. Admin only.
func (h *PTOHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter pto.ListFilter

	if raw := r.URL.Query().Get("employee_id"); raw != "" {
		employeeID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid employee ID"})
			return
		}
		filter.EmployeeID = &employeeID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = models.PTOStatus(status)
	}

	requests, err := h.ptoService.List(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list requests"})
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func (h *PTOHandler) Approve(w http.ResponseWriter, r *http.Request) {
	requestID, req, ok := h.decodeReview(w, r)
	if !ok {
		return
	}

	adminID := middleware.GetUserID(r.Context())
	request, err := h.ptoService.Approve(r.Context(), requestID, adminID, req.Notes, ptoMeta(r))
	if err != nil {
		h.writeReviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *PTOHandler) Deny(w http.ResponseWriter, r *http.Request) {
	requestID, req, ok := h.decodeReview(w, r)
	if !ok {
		return
	}

	adminID := middleware.GetUserID(r.Context())
	request, err := h.ptoService.Deny(r.Context(), requestID, adminID, req.Notes, ptoMeta(r))
	if err != nil {
		h.writeReviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *PTOHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	requestID, req, ok := h.decodeReview(w, r)
	if !ok {
		return
	}

	adminID := middleware.GetUserID(r.Context())
	request, err := h.ptoService.Revoke(r.Context(), requestID, adminID, req.Notes, ptoMeta(r))
	if err != nil {
		h.writeReviewError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *PTOHandler) decodeReview(w http.ResponseWriter, r *http.Request) (uuid.UUID, dto.ReviewPTORequest, bool) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request ID"})
		return uuid.Nil, dto.ReviewPTORequest{}, false
	}

	var req dto.ReviewPTORequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
			return uuid.Nil, dto.ReviewPTORequest{}, false
		}
	}
	return requestID, req, true
}

func (h *PTOHandler) writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pto.ErrRequestNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Request not found"})
	case errors.Is(err, pto.ErrNotPending):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Request has already been decided"})
	case errors.Is(err, pto.ErrNotApproved):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Only approved requests can be revoked"})
	case errors.Is(err, pto.ErrReasonRequired):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "A reason is required"})
	case errors.Is(err, pto.ErrBalanceMissing):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "No balance record exists for this employee"})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update request"})
	}
}
