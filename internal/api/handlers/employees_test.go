package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/testutil"
)

func TestEmployeeHandler_Invite(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("creates user and profile", func(t *testing.T) {
		body := map[string]string{
			"email":         "newhire@example.com",
			"temp_password": "welcomeaboard1",
			"full_name":     "New Hire",
			"role_title":    "Shift Lead",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/employees", body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp models.EmployeeProfile
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "New Hire", resp.FullName)
		assert.Equal(t, models.OnboardingNotStarted, resp.OnboardingStatus)

		// The new hire can log in with the temporary password.
		loginBody := map[string]string{
			"email":    "newhire@example.com",
			"password": "welcomeaboard1",
		}
		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", loginBody)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := map[string]string{
			"email":         tc.Employee.Email,
			"temp_password": "welcomeaboard1",
			"full_name":     "Duplicate",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/employees", body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("short temporary password", func(t *testing.T) {
		body := map[string]string{
			"email":         "another@example.com",
			"temp_password": "short",
			"full_name":     "Another Hire",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/employees", body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("employees cannot invite", func(t *testing.T) {
		body := map[string]string{
			"email":         "sneaky@example.com",
			"temp_password": "welcomeaboard1",
			"full_name":     "Sneaky",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/employees", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestEmployeeHandler_GetAndList(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("lists profiles", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/employees", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []models.EmployeeProfile
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Len(t, resp, 1)
	})

	t.Run("gets one profile", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String(), nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.EmployeeProfile
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, tc.EmployeeProfile.ID, resp.ID)
	})

	t.Run("unknown profile", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/employees/00000000-0000-0000-0000-000000000000", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/employees/not-a-uuid", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("admin sets employment terms", func(t *testing.T) {
		body := map[string]string{
			"role_title":      "Store Manager",
			"employment_type": "SALARY",
			"wage":            "52000.00",
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String(), body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.EmployeeProfile
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Store Manager", resp.RoleTitle)
		require.NotNil(t, resp.EmploymentType)
		assert.Equal(t, models.EmploymentSalary, *resp.EmploymentType)
	})

	t.Run("rejects a bad employment type", func(t *testing.T) {
		body := map[string]string{"employment_type": "GIG"}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String(), body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects a bad wage", func(t *testing.T) {
		body := map[string]string{"wage": "lots"}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String(), body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestEmployeeHandler_SetPassword(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("resets the employee's password", func(t *testing.T) {
		body := map[string]string{"new_password": "freshpassword1"}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String()+"/password", body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		loginBody := map[string]string{
			"email":    tc.Employee.Email,
			"password": "freshpassword1",
		}
		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", loginBody)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("short password", func(t *testing.T) {
		body := map[string]string{"new_password": "short"}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String()+"/password", body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("employees cannot reset passwords", func(t *testing.T) {
		body := map[string]string{"new_password": "freshpassword2"}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String()+"/password", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestPTORequest(t, tc.DB, tc.EmployeeProfile.ID, models.PTOVacation, 2)

	req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String(), nil, tc.AdminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var users int64
	require.NoError(t, tc.DB.Model(&models.User{}).Where("id = ?", tc.Employee.ID).Count(&users).Error)
	assert.Zero(t, users)

	var requests int64
	require.NoError(t, tc.DB.Model(&models.PTORequest{}).Where("employee_id = ?", tc.EmployeeProfile.ID).Count(&requests).Error)
	assert.Zero(t, requests)
}
