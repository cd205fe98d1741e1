package handlers_test

import (
	"testing"
	"time"

	"github.com/novacreations/nova-hr/internal/api"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/employees"
	"github.com/novacreations/nova-hr/internal/mail"
	"github.com/novacreations/nova-hr/internal/pdf"
	"github.com/novacreations/nova-hr/internal/pto"
	"github.com/novacreations/nova-hr/internal/storage"
	"github.com/novacreations/nova-hr/internal/testutil"
)

// testRouter wires the full API surface against an in-memory database so
// handler tests exercise routing, auth middleware, and role checks together.
func testRouter(t *testing.T) (*api.Router, *testutil.TestSetup) {
	t.Helper()

	tc := testutil.NewTestContext(t)
	logger := testutil.SilentLogger()
	recorder := testutil.CreateTestRecorder(tc.DB)
	encryptor := testutil.CreateTestEncryptor(t)

	authService := auth.NewService(
		tc.DB, tc.JWTService, encryptor,
		auth.NewMemoryAttemptStore(), recorder,
		mail.NewLogMailer(logger), logger,
		auth.ServiceConfig{
			LoginAttempts: 5,
			LoginWindow:   15 * time.Minute,
			BaseURL:       "http://localhost:3000",
		},
	)
	employeeService := employees.NewService(
		tc.DB, authService, encryptor,
		storage.NewMemoryStore(), mail.NewLogMailer(logger),
		pdf.NewRenderer(), recorder, logger,
		"http://localhost:3000",
	)
	ptoService := pto.NewService(tc.DB, recorder, logger)

	router := api.NewRouter(api.RouterConfig{
		DB:              tc.DB,
		Logger:          logger,
		JWTService:      tc.JWTService,
		AuthService:     authService,
		EmployeeService: employeeService,
		PTOService:      ptoService,
		AuditRecorder:   recorder,
	})

	return router, tc
}
