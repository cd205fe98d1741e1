package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/testutil"
)

func TestAuthHandler_Login(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("successful login", func(t *testing.T) {
		body := map[string]string{
			"email":    tc.Employee.Email,
			"password": "testpassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AuthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, tc.Employee.Email, resp.User.Email)
		assert.Equal(t, "EMPLOYEE", resp.User.Role)
		assert.Equal(t, "NOT_STARTED", resp.User.OnboardingStatus)

		// Check cookie is set
		cookies := rr.Result().Cookies()
		var tokenCookie *http.Cookie
		for _, c := range cookies {
			if c.Name == auth.TokenCookieName {
				tokenCookie = c
				break
			}
		}
		require.NotNil(t, tokenCookie)
		assert.Equal(t, resp.Token, tokenCookie.Value)
		assert.True(t, tokenCookie.HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := map[string]string{
			"email":    tc.Employee.Email,
			"password": "wrongpassword",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Invalid email or password", resp.Error)
	})

	t.Run("non-existent user gets the same error", func(t *testing.T) {
		body := map[string]string{
			"email":    "nobody@example.com",
			"password": "anypassword",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Invalid email or password", resp.Error)
	})

	t.Run("missing email", func(t *testing.T) {
		body := map[string]string{"password": "testpassword123"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		body := map[string]string{"email": tc.Employee.Email}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_LoginRateLimit(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	body := map[string]string{
		"email":    tc.Employee.Email,
		"password": "wrongpassword",
	}

	for i := 0; i < 5; i++ {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	// Sixth attempt is locked out even with the right password.
	body["password"] = "testpassword123"
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	var resp dto.ErrorResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Greater(t, resp.RetryAfter, 0)

	// A different account is unaffected.
	adminBody := map[string]string{
		"email":    tc.Admin.Email,
		"password": "adminpassword123",
	}
	req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", adminBody)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("clears the session cookie", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/logout", nil, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		cookies := rr.Result().Cookies()
		var tokenCookie *http.Cookie
		for _, c := range cookies {
			if c.Name == auth.TokenCookieName {
				tokenCookie = c
				break
			}
		}
		require.NotNil(t, tokenCookie)
		assert.Empty(t, tokenCookie.Value)
		assert.Equal(t, -1, tokenCookie.MaxAge)
	})

	t.Run("requires authentication", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/logout", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("returns the current user", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/me", nil, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.UserDTO
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, tc.Employee.Email, resp.Email)
		assert.False(t, resp.TwoFactorEnabled)
	})

	t.Run("rejects missing token", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/me", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/me", nil, "not-a-token")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("wrong current password", func(t *testing.T) {
		body := map[string]string{
			"current_password": "wrongpassword",
			"new_password":     "newpassword456",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/change-password", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("new password too short", func(t *testing.T) {
		body := map[string]string{
			"current_password": "testpassword123",
			"new_password":     "short",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/change-password", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("successful change", func(t *testing.T) {
		body := map[string]string{
			"current_password": "testpassword123",
			"new_password":     "newpassword456",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/change-password", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		// Old password no longer works.
		loginBody := map[string]string{
			"email":    tc.Employee.Email,
			"password": "testpassword123",
		}
		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", loginBody)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		loginBody["password"] = "newpassword456"
		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", loginBody)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("known email", func(t *testing.T) {
		body := map[string]string{"email": tc.Employee.Email}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/forgot-password", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown email gets the same response", func(t *testing.T) {
		body := map[string]string{"email": "stranger@example.com"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/forgot-password", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/forgot-password", map[string]string{})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("bogus token", func(t *testing.T) {
		body := map[string]string{
			"email":        tc.Employee.Email,
			"token":        "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
			"new_password": "newpassword456",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/reset-password", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/reset-password", map[string]string{})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
