package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/novacreations/nova-hr/internal/api"
	"github.com/novacreations/nova-hr/internal/audit"
	"github.com/novacreations/nova-hr/internal/auth"
	"github.com/novacreations/nova-hr/internal/database"
	"github.com/novacreations/nova-hr/internal/employees"
	"github.com/novacreations/nova-hr/internal/mail"
	"github.com/novacreations/nova-hr/internal/pdf"
	"github.com/novacreations/nova-hr/internal/pto"
	"github.com/novacreations/nova-hr/internal/storage"
	"github.com/novacreations/nova-hr/internal/tasks"
	"github.com/novacreations/nova-hr/pkg/config"
	"github.com/novacreations/nova-hr/pkg/crypto"
	"github.com/novacreations/nova-hr/pkg/queue"
	"github.com/novacreations/nova-hr/pkg/util"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting Nova HR server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis, falling back to in-memory rate limiting", "error", err)
		redisClient = nil
	}

	// Login attempt tracking shares Redis with the job queue so lockouts
	// survive restarts and apply across replicas.
	var attempts auth.AttemptStore
	var asynqClient *asynq.Client
	if redisClient != nil {
		attempts = auth.NewRedisAttemptStore(redisClient)
		asynqClient = queue.NewClient(&cfg.Redis)
	} else {
		memStore := auth.NewMemoryAttemptStore()
		memStore.StartCleanup(context.Background(), 5*time.Minute)
		attempts = memStore
	}

	// Encryptor for TOTP secrets and bank details
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}
	if cfg.Encryption.Key == "" {
		logger.Warn("ENCRYPTION_KEY not set, using generated key - encrypted fields will be unreadable after restart")
	}

	// Outbound email goes through the worker when the queue is up, otherwise
	// straight to SMTP, otherwise to the log.
	var mailer mail.Mailer
	switch {
	case asynqClient != nil:
		mailer = tasks.NewQueueMailer(asynqClient, logger)
	case cfg.SMTP.Configured():
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	default:
		logger.Warn("SMTP not configured, emails will be logged instead of sent")
		mailer = mail.NewLogMailer(logger)
	}

	// Blob storage for pay stubs and documents
	var blobs storage.BlobStore
	if cfg.Storage.AccessKeyID != "" || cfg.Storage.Endpoint != "" {
		s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to create S3 store", "error", err)
			os.Exit(1)
		}
		blobs = s3Store
	} else {
		logger.Warn("S3 not configured, uploads will be held in memory")
		blobs = storage.NewMemoryStore()
	}

	// Initialize services
	recorder := audit.NewRecorder(db, logger)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	authService := auth.NewService(db, jwtService, encryptor, attempts, recorder, mailer, logger, auth.ServiceConfig{
		LoginAttempts: cfg.RateLimit.LoginAttempts,
		LoginWindow:   cfg.RateLimit.LoginWindow(),
		BaseURL:       cfg.Server.BaseURL,
	})
	employeeService := employees.NewService(db, authService, encryptor, blobs, mailer, pdf.NewRenderer(), recorder, logger, cfg.Server.BaseURL)
	ptoService := pto.NewService(db, recorder, logger)

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:              db,
		Redis:           redisClient,
		Logger:          logger,
		JWTService:      jwtService,
		AuthService:     authService,
		EmployeeService: employeeService,
		PTOService:      ptoService,
		AuditRecorder:   recorder,
		RateLimitReqs:   cfg.RateLimit.APIRequests,
		RateLimitSecs:   cfg.RateLimit.APIWindowSeconds,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Close Asynq client
	if asynqClient != nil {
		asynqClient.Close()
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("server stopped")
}
