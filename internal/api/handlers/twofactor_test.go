package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novacreations/nova-hr/internal/api/dto"
	"github.com/novacreations/nova-hr/internal/testutil"
)

func TestTwoFactorHandler_Lifecycle(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	var secret string

	t.Run("setup returns a secret and otpauth url", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/2fa/setup", nil, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.TwoFactorSetupResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		require.NotEmpty(t, resp.Secret)
		assert.Contains(t, resp.OTPAuthURL, "otpauth://totp/")
		secret = resp.Secret
	})

	t.Run("verify with a wrong code does not enable", func(t *testing.T) {
		body := map[string]string{"code": "000000"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/2fa/verify", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("verify returns backup codes", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)

		body := map[string]string{"code": code}
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/2fa/verify", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.TwoFactorVerifyResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Len(t, resp.BackupCodes, 8)
	})

	t.Run("setup again conflicts", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/2fa/setup", nil, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("login now requires a code", func(t *testing.T) {
		body := map[string]string{
			"email":    tc.Employee.Email,
			"password": "testpassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		var resp dto.ErrorResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.True(t, resp.TwoFactorRequired)

		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)
		body["two_factor_code"] = code

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("disable with the wrong password", func(t *testing.T) {
		body := map[string]string{"password": "wrongpassword"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/2fa/disable", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("disable turns the second factor off", func(t *testing.T) {
		body := map[string]string{"password": "testpassword123"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/2fa/disable", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		// Password alone is enough again.
		loginBody := map[string]string{
			"email":    tc.Employee.Email,
			"password": "testpassword123",
		}
		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", loginBody)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestTwoFactorHandler_VerifyWithoutSetup(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	body := map[string]string{"code": "123456"}

	req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/auth/2fa/verify", body, tc.EmployeeToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
