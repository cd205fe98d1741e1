package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/testutil"
)

func TestPortalHandler_Profile(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("returns own profile", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/portal/profile", nil, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.EmployeeProfile
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, tc.EmployeeProfile.ID, resp.ID)
	})

	t.Run("first edit moves onboarding to in progress", func(t *testing.T) {
		body := map[string]string{
			"phone":   "555-0100",
			"address": "12 Main St",
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/portal/profile", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.EmployeeProfile
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "555-0100", resp.Phone)
		assert.Equal(t, models.OnboardingInProgress, resp.OnboardingStatus)
	})

	t.Run("cannot change employment terms", func(t *testing.T) {
		body := map[string]string{
			"role_title": "CEO",
			"wage":       "999999",
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/portal/profile", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.EmployeeProfile
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Barista", resp.RoleTitle)
		assert.Nil(t, resp.Wage)
	})
}

func TestPortalHandler_BankDetails(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("stores details with only last four visible", func(t *testing.T) {
		body := map[string]string{
			"bank_name":      "First National",
			"account_type":   "CHECKING",
			"routing_number": "021000021",
			"account_number": "123456789012",
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/portal/bank-details", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.BankDetails
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "9012", resp.Last4Account)
		assert.True(t, resp.Confirmed)
	})

	t.Run("rejects a short routing number", func(t *testing.T) {
		body := map[string]string{
			"bank_name":      "First National",
			"account_type":   "CHECKING",
			"routing_number": "123",
			"account_number": "123456789012",
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/portal/bank-details", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPortalHandler_CompleteOnboarding(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/portal/onboarding/complete", nil, tc.EmployeeToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.EmployeeProfile
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, models.OnboardingCompleted, resp.OnboardingStatus)
	assert.NotNil(t, resp.OnboardingCompletedAt)

	// The summary document lands in the employee's file list.
	listReq := testutil.AuthenticatedRequest(t, "GET", "/api/v1/portal/documents", nil, tc.EmployeeToken)
	listRR := httptest.NewRecorder()
	router.ServeHTTP(listRR, listReq)

	assert.Equal(t, http.StatusOK, listRR.Code)

	var docs []models.EmployeeDocument
	testutil.ParseJSONResponse(t, listRR, &docs)
	require.Len(t, docs, 1)
	assert.Equal(t, "onboarding-summary.pdf", docs[0].FileName)
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, fileBody []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(fileBody)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestFilesHandler_PayStubs(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	uploadPath := "/api/v1/admin/employees/" + tc.EmployeeProfile.ID.String() + "/paystubs"

	t.Run("admin uploads a stub", func(t *testing.T) {
		buf, contentType := multipartUpload(t, map[string]string{
			"pay_period_start": "2026-08-01",
			"pay_period_end":   "2026-08-15",
		}, "stub.pdf", []byte("%PDF-1.4 test"))

		req := httptest.NewRequest("POST", uploadPath, buf)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("missing pay period fields", func(t *testing.T) {
		buf, contentType := multipartUpload(t, nil, "stub.pdf", []byte("%PDF-1.4 test"))

		req := httptest.NewRequest("POST", uploadPath, buf)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("employee sees and views own stubs", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/portal/paystubs", nil, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var stubs []models.PayStub
		testutil.ParseJSONResponse(t, rr, &stubs)
		require.Len(t, stubs, 1)

		req = testutil.AuthenticatedRequest(t, "GET", "/api/v1/portal/paystubs/"+stubs[0].ID.String(), nil, tc.EmployeeToken)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("another employee cannot view the stub", func(t *testing.T) {
		otherUser, _ := testutil.CreateTestEmployee(t, tc.DB)
		otherToken := testutil.GenerateTestToken(t, tc.JWTService, otherUser)

		var stub models.PayStub
		require.NoError(t, tc.DB.First(&stub).Error)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/portal/paystubs/"+stub.ID.String(), nil, otherToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestFilesHandler_Documents(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("employee uploads an identity document", func(t *testing.T) {
		buf, contentType := multipartUpload(t, map[string]string{"type": "PASSPORT"}, "passport.jpg", []byte("jpegdata"))

		req := httptest.NewRequest("POST", "/api/v1/portal/documents", buf)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var doc models.EmployeeDocument
		testutil.ParseJSONResponse(t, rr, &doc)
		assert.Equal(t, models.DocumentPassport, doc.Type)
	})

	t.Run("rejects an unknown document type", func(t *testing.T) {
		buf, contentType := multipartUpload(t, map[string]string{"type": "DIPLOMA"}, "diploma.pdf", []byte("pdf"))

		req := httptest.NewRequest("POST", "/api/v1/portal/documents", buf)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("admin lists the employee's documents", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/employees/"+tc.EmployeeProfile.ID.String()+"/documents", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var docs []models.EmployeeDocument
		testutil.ParseJSONResponse(t, rr, &docs)
		assert.Len(t, docs, 1)
	})
}

func TestFilesHandler_Announcements(t *testing.T) {
	router, tc := testRouter(t)
	defer tc.Cleanup()

	t.Run("admin creates an announcement", func(t *testing.T) {
		body := map[string]string{
			"title": "Holiday hours",
			"body":  "We close early on the 24th.",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/announcements", body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("employees see active announcements", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/announcements", nil, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp []models.Announcement
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Len(t, resp, 1)
	})

	t.Run("admin edits an announcement", func(t *testing.T) {
		var announcement models.Announcement
		require.NoError(t, tc.DB.First(&announcement).Error)

		body := map[string]string{
			"title": "Holiday hours (updated)",
			"body":  "We close at noon on the 24th.",
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/announcements/"+announcement.ID.String(), body, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.Announcement
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "Holiday hours (updated)", resp.Title)
	})

	t.Run("deactivated announcements drop out", func(t *testing.T) {
		var announcement models.Announcement
		require.NoError(t, tc.DB.First(&announcement).Error)

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/admin/announcements/"+announcement.ID.String(), nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		req = testutil.AuthenticatedRequest(t, "GET", "/api/v1/announcements", nil, tc.EmployeeToken)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var resp []models.Announcement
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Empty(t, resp)
	})

	t.Run("employees cannot create announcements", func(t *testing.T) {
		body := map[string]string{"title": "Party", "body": "My place"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/announcements", body, tc.EmployeeToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
