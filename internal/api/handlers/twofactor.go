package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/api/middleware"
	"github.com/novacreations/nova-hr/internal/auth"
)

type TwoFactorHandler struct {
	authService *auth.Service
}

func NewTwoFactorHandler(authService *auth.Service) *TwoFactorHandler {
	return &TwoFactorHandler{authService: authService}
}

func (h *TwoFactorHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	setup, err := h.authService.SetupTwoFactor(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrTwoFactorAlreadyEnabled) {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Two-factor authentication is already enabled"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Setup failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.TwoFactorSetupResponse{
		Secret:     setup.Secret,
		OTPAuthURL: setup.OTPAuthURL,
	})
}

func (h *TwoFactorHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	codes, err := h.authService.VerifyTwoFactor(r.Context(), userID, req.Code, authMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTwoFactorAlreadyEnabled):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Two-factor authentication is already enabled"})
		case errors.Is(err, auth.ErrNoSetupPending):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "No two-factor setup in progress"})
		case errors.Is(err, auth.ErrInvalidTwoFactorCode):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid two-factor code"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Verification failed"})
		}
		return
	}

	// Backup codes are shown exactly once.
	writeJSON(w, http.StatusOK, dto.TwoFactorVerifyResponse{BackupCodes: codes})
}

func (h *TwoFactorHandler) Disable(w http.ResponseWriter, r *http.Request) {
	var req dto.TwoFactorDisableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	err := h.authService.DisableTwoFactor(r.Context(), userID, req.Password, authMeta(r))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTwoFactorNotEnabled):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Two-factor authentication is not enabled"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Password is incorrect"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Disable failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Two-factor authentication disabled"})
}
