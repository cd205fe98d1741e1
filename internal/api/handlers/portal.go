package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/api/middleware"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/employees"
)

// PortalHandler covers the employee self-service surface.
type PortalHandler struct {
	employeeService *employees.Service
}

func NewPortalHandler(employeeService *employees.Service) *PortalHandler {
	return &PortalHandler{employeeService: employeeService}
}

func (h *PortalHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.employeeService.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load profile"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *PortalHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	profile, err := h.employeeService.UpdateOwnProfile(r.Context(), userID, updateInputFromRequest(req), employeesMeta(r))
	if err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update profile"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *PortalHandler) UpdateBankDetails(w http.ResponseWriter, r *http.Request) {
	var req dto.BankDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	details, err := h.employeeService.UpdateBankDetails(r.Context(), userID, employees.BankDetailsInput{
		BankName:      req.BankName,
		AccountType:   models.AccountType(req.AccountType),
		RoutingNumber: req.RoutingNumber,
		AccountNumber: req.AccountNumber,
	}, employeesMeta(r))

	if err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to save bank details"})
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// CompleteOnboarding marks the caller's own onboarding as finished and kicks
// off the summary document generation.
func (h *PortalHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.employeeService.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load profile"})
		return
	}

	updated, err := h.employeeService.CompleteOnboarding(r.Context(), userID, profile.ID, employeesMeta(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to complete onboarding"})
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
