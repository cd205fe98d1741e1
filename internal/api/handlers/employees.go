package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/api/middleware"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/employees"
)

// EmployeeHandler covers the admin side of employee management.
type EmployeeHandler struct {
	employeeService *employees.Service
}

func NewEmployeeHandler(employeeService *employees.Service) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req dto.InviteEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	adminID := middleware.GetUserID(r.Context())
	profile, err := h.employeeService.Invite(r.Context(), adminID, employees.InviteInput{
		Email:        req.Email,
		TempPassword: req.TempPassword,
		FullName:     req.FullName,
		RoleTitle:    req.RoleTitle,
	}, employeesMeta(r))

	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "A user with this email already exists"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to invite employee"})
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.employeeService.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list employees"})
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	profile, err := h.employeeService.Get(r.Context(), profileID)
	if err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load employee"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	adminID := middleware.GetUserID(r.Context())
	profile, err := h.employeeService.Update(r.Context(), adminID, profileID, updateInputFromRequest(req), employeesMeta(r))
	if err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update employee"})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// SetPassword is the admin-side password reset for an employee account.
func (h *EmployeeHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	var req dto.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	adminID := middleware.GetUserID(r.Context())
	if err := h.employeeService.SetPassword(r.Context(), adminID, profileID, req.NewPassword, employeesMeta(r)); err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to set password"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password updated"})
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	adminID := middleware.GetUserID(r.Context())
	if err := h.employeeService.Delete(r.Context(), adminID, profileID, employeesMeta(r)); err != nil {
		if errors.Is(err, employees.ErrProfileNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Employee not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete employee"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Employee deleted"})
}

// updateInputFromRequest converts wire strings into typed fields. Validate
// has already run, so parses here cannot fail.
func updateInputFromRequest(req dto.UpdateEmployeeRequest) employees.UpdateInput {
	in := employees.UpdateInput{
		FullName:                     req.FullName,
		Phone:                        req.Phone,
		Address:                      req.Address,
		EmergencyContactName:         req.EmergencyContactName,
		EmergencyContactRelationship: req.EmergencyContactRelationship,
		EmergencyContactPhone:        req.EmergencyContactPhone,
		RoleTitle:                    req.RoleTitle,
	}

	if req.DateOfBirth != nil {
		dob, _ := time.Parse(dto.DateLayout, *req.DateOfBirth)
		in.DateOfBirth = &dob
	}
	if req.StartDate != nil {
		start, _ := time.Parse(dto.DateLayout, *req.StartDate)
		in.StartDate = &start
	}
	if req.EmploymentType != nil {
		et := models.EmploymentType(*req.EmploymentType)
		in.EmploymentType = &et
	}
	if req.Wage != nil {
		wage, _ := decimal.NewFromString(*req.Wage)
		in.Wage = &wage
	}
	if req.OnboardingStatus != nil {
		status := models.OnboardingStatus(*req.OnboardingStatus)
		in.OnboardingStatus = &status
	}
	return in
}
