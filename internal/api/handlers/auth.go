package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/api/middleware"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/employees"
)

type AuthHandler struct {
	authService     *auth.Service
	employeeService *employees.Service
	jwtService      *auth.JWTService
	audit           *audit.Recorder
}

func NewAuthHandler(authService *auth.Service, employeeService *employees.Service, jwtService *auth.JWTService, recorder *audit.Recorder) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		employeeService: employeeService,
		jwtService:      jwtService,
		audit:           recorder,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:         req.Email,
		Password:      req.Password,
		TwoFactorCode: req.TwoFactorCode,
	}, authMeta(r))

	if err != nil {
		var rateErr *auth.RateLimitedError
		switch {
		case errors.As(err, &rateErr):
			writeJSON(w, http.StatusTooManyRequests, dto.ErrorResponse{
				Error:      "Too many login attempts",
				RetryAfter: rateErr.RetryAfter,
			})
		case errors.Is(err, auth.ErrTwoFactorRequired):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{
				Error:             "Two-factor code required",
				TwoFactorRequired: true,
			})
		case errors.Is(err, auth.ErrInvalidTwoFactorCode):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{
				Error:             "Invalid two-factor code",
				TwoFactorRequired: true,
			})
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: auth.InvalidCredentialsMessage})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	h.setSessionCookie(w, resp.Token)
	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: resp.Token,
		User:  h.userDTO(r, resp.User),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Token invalidation is purely client side; the bearer token stays valid
	// until its natural expiry.
	if userID := middleware.GetUserID(r.Context()); userID != uuid.Nil {
		h.audit.Record(r.Context(), audit.Entry{
			UserID:     &userID,
			Action:     models.ActionLogout,
			EntityType: "user",
			EntityID:   &userID,
			IPAddress:  middleware.ClientIP(r),
			UserAgent:  r.UserAgent(),
		})
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, h.userDTO(r, user))
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	// The response is identical whether or not the account exists.
	if err := h.authService.ForgotPassword(r.Context(), req.Email, authMeta(r)); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Request failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{
		Message: "If an account exists for that email, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	err := h.authService.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword, authMeta(r))
	if err != nil {
		if errors.Is(err, auth.ErrResetTokenInvalid) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid or expired reset link"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Reset failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password has been reset"})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	userID := middleware.GetUserID(r.Context())
	err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, authMeta(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Current password is incorrect"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Change failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password changed"})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.jwtService.Expiry().Seconds()),
	})
}

func (h *AuthHandler) userDTO(r *http.Request, user *models.User) dto.UserDTO {
	out := dto.UserDTO{
		ID:               user.ID.String(),
		Email:            user.Email,
		Role:             string(user.Role),
		TwoFactorEnabled: user.TOTPEnabled,
	}
	if user.Role == models.RoleEmployee {
		if profile, err := h.employeeService.GetByUserID(r.Context(), user.ID); err == nil {
			out.OnboardingStatus = string(profile.OnboardingStatus)
		}
	}
	return out
}
