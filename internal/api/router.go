package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/novacreations/nova-hr/internal/api/handlers"
	"github.com/novacreations/nova-hr/internal/api/middleware"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/database/models"
	"github.com/novacreations/nova-hr/internal/employees"
	"github.com/novacreations/nova-hr/internal/pto"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB              *gorm.DB
	Redis           *redis.Client
	Logger          *slog.Logger
	JWTService      *auth.JWTService
	AuthService     *auth.Service
	EmployeeService *employees.Service
	PTOService      *pto.Service
	AuditRecorder   *audit.Recorder
	AllowedOrigins  []string // CORS allowed origins
	RateLimitReqs   int      // Rate limit requests per window
	RateLimitSecs   int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.EmployeeService, cfg.JWTService, cfg.AuditRecorder)
	twoFactorHandler := handlers.NewTwoFactorHandler(cfg.AuthService)
	ptoHandler := handlers.NewPTOHandler(cfg.PTOService, cfg.EmployeeService)
	employeeHandler := handlers.NewEmployeeHandler(cfg.EmployeeService)
	portalHandler := handlers.NewPortalHandler(cfg.EmployeeService)
	filesHandler := handlers.NewFilesHandler(cfg.EmployeeService)
	auditLogHandler := handlers.NewAuditLogHandler(cfg.AuditRecorder)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/auth/reset-password", authHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
			r.Post("/auth/change-password", authHandler.ChangePassword)

			// Two-factor enrollment
			r.Route("/auth/2fa", func(r chi.Router) {
				r.Post("/setup", twoFactorHandler.Setup)
				r.Post("/verify", twoFactorHandler.Verify)
				r.Post("/disable", twoFactorHandler.Disable)
			})

			// Employee self-service portal
			r.Route("/portal", func(r chi.Router) {
				r.Get("/profile", portalHandler.GetProfile)
				r.Put("/profile", portalHandler.UpdateProfile)
				r.Put("/bank-details", portalHandler.UpdateBankDetails)
				r.Post("/onboarding/complete", portalHandler.CompleteOnboarding)

				r.Get("/paystubs", filesHandler.ListOwnPayStubs)
				r.Get("/paystubs/{id}", filesHandler.ViewOwnPayStub)

				r.Get("/documents", filesHandler.ListOwnDocuments)
				r.Post("/documents", filesHandler.UploadOwnDocument)
				r.Get("/documents/{id}", filesHandler.ViewOwnDocument)
			})

			// Time off
			r.Route("/pto", func(r chi.Router) {
				r.Get("/", ptoHandler.ListOwn)
				r.Post("/", ptoHandler.Create)
				r.Post("/{id}/cancel", ptoHandler.Cancel)
				r.Get("/balances", ptoHandler.Balances)
			})

			// Announcements (read side)
			r.Get("/announcements", filesHandler.ListAnnouncements)

			// Admin console
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", employeeHandler.List)
					r.Post("/", employeeHandler.Invite)
					r.Get("/{id}", employeeHandler.Get)
					r.Put("/{id}", employeeHandler.Update)
					r.Put("/{id}/password", employeeHandler.SetPassword)
					r.Delete("/{id}", employeeHandler.Delete)

					r.Get("/{id}/paystubs", filesHandler.ListPayStubs)
					r.Post("/{id}/paystubs", filesHandler.UploadPayStub)
					r.Get("/{id}/documents", filesHandler.ListDocuments)
				})

				r.Get("/paystubs/{id}", filesHandler.ViewPayStub)
				r.Get("/documents/{id}", filesHandler.ViewDocument)

				r.Route("/pto", func(r chi.Router) {
					r.Get("/", ptoHandler.List)
					r.Post("/{id}/approve", ptoHandler.Approve)
					r.Post("/{id}/deny", ptoHandler.Deny)
					r.Post("/{id}/revoke", ptoHandler.Revoke)
				})

				r.Post("/announcements", filesHandler.CreateAnnouncement)
				r.Put("/announcements/{id}", filesHandler.UpdateAnnouncement)
				r.Delete("/announcements/{id}", filesHandler.DeactivateAnnouncement)

				r.Get("/audit-logs", auditLogHandler.List)
			})
		})
	})

	return &Router{r}
}
