package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/pkg/crypto"
	"github.com/shopspring/decimal"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.EmployeeProfile{},
		&models.BankDetails{},
		&models.PTOBalance{},
		&models.PTORequest{},
		&models.PasswordResetToken{},
		&models.PayStub{},
		&models.EmployeeDocument{},
		&models.Announcement{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// SilentLogger returns a slog.Logger that discards everything
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestRecorder creates an audit recorder backed by the test database
func CreateTestRecorder(db *gorm.DB) *audit.Recorder {
	return audit.NewRecorder(db, SilentLogger())
}

// CreateTestEncryptor creates an encryptor with a throwaway key
func CreateTestEncryptor(t *testing.T) *crypto.Encryptor {
	t.Helper()

	enc, err := crypto.NewEncryptor("")
	if err != nil {
		t.Fatalf("failed to create test encryptor: %v", err)
	}
	return enc
}

// CreateTestAdmin creates an admin user
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("adminpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "admin-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}

	return user
}

// CreateTestEmployee creates an employee user with a profile
func CreateTestEmployee(t *testing.T, db *gorm.DB) (*models.User, *models.EmployeeProfile) {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "employee-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Role:         models.RoleEmployee,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test employee user: %v", err)
	}

	profile := &models.EmployeeProfile{
		Base: models.Base{
			ID: uuid.New(),
		},
		UserID:           user.ID,
		FullName:         "Test Employee",
		RoleTitle:        "Barista",
		OnboardingStatus: models.OnboardingNotStarted,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test employee profile: %v", err)
	}

	return user, profile
}

// CreateTestBalance creates a PTO balance for an employee with the given
// allotments and nothing used
func CreateTestBalance(t *testing.T, db *gorm.DB, employeeID uuid.UUID, vacation, sick, personal int) *models.PTOBalance {
	t.Helper()

	balance := &models.PTOBalance{
		Base: models.Base{
			ID: uuid.New(),
		},
		EmployeeID:   employeeID,
		VacationDays: decimal.NewFromInt(int64(vacation)),
		SickDays:     decimal.NewFromInt(int64(sick)),
		PersonalDays: decimal.NewFromInt(int64(personal)),
		VacationUsed: decimal.Zero,
		SickUsed:     decimal.Zero,
		PersonalUsed: decimal.Zero,
	}

	if err := db.Create(balance).Error; err != nil {
		t.Fatalf("failed to create test balance: %v", err)
	}

	return balance
}

// CreateTestPTORequest creates a pending PTO request
func CreateTestPTORequest(t *testing.T, db *gorm.DB, employeeID uuid.UUID, ptoType models.PTOType, days int) *models.PTORequest {
	t.Helper()

	start := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	req := &models.PTORequest{
		Base: models.Base{
			ID: uuid.New(),
		},
		EmployeeID: employeeID,
		Type:       ptoType,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, days-1),
		TotalDays:  decimal.NewFromInt(int64(days)),
		Reason:     "Test request",
		Status:     models.PTOPending,
	}

	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create test pto request: %v", err)
	}

	return req
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB              *gorm.DB
	JWTService      *auth.JWTService
	Admin           *models.User
	Employee        *models.User
	EmployeeProfile *models.EmployeeProfile
	AdminToken      string
	EmployeeToken   string
}

// NewTestContext creates a complete test setup with DB, users, and tokens
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	admin := CreateTestAdmin(t, db)
	employee, profile := CreateTestEmployee(t, db)

	return &TestSetup{
		DB:              db,
		JWTService:      jwtService,
		Admin:           admin,
		Employee:        employee,
		EmployeeProfile: profile,
		AdminToken:      GenerateTestToken(t, jwtService, admin),
		EmployeeToken:   GenerateTestToken(t, jwtService, employee),
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
