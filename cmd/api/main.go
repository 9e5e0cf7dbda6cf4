package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"

	"github.com/skproperty/brokerage-api/internal/config"
	"github.com/skproperty/brokerage-api/internal/database"
	"github.com/skproperty/brokerage-api/internal/handlers"
	"github.com/skproperty/brokerage-api/internal/jobs"
	"github.com/skproperty/brokerage-api/internal/middleware"
	"github.com/skproperty/brokerage-api/internal/repository"
	"github.com/skproperty/brokerage-api/internal/services"
	"github.com/skproperty/brokerage-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Pick the storage backend. Postgres when reachable, otherwise the
	// in-memory store so the scheduler and API still come up.
	repos := buildRepositories(cfg)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg)

	// Start the reminder scheduler
	svcs.Scheduler.Start()

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Stop the scheduler and the background worker
	svcs.Scheduler.Stop()
	worker.Shutdown()
	logger.Info("Scheduler and background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func buildRepositories(cfg *config.Config) *repository.Repositories {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory storage. Data will not survive a restart.")
		return repository.NewInMemoryRepositories()
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Warn("Failed to connect to database, using in-memory storage", "error", err)
		return repository.NewInMemoryRepositories()
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return repository.NewRepositories(db)
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", h.Health.Index)

		// Reminders
		v1.GET("/reminders", h.Reminder.Index)
		v1.POST("/reminders", h.Reminder.Create)
		v1.GET("/reminders/due", h.Reminder.Due)
		v1.GET("/reminders/overdue", h.Reminder.Overdue)
		v1.GET("/reminders/:reminder_id", h.Reminder.Show)
		v1.PUT("/reminders/:reminder_id", h.Reminder.Update)
		v1.PUT("/reminders/:reminder_id/complete", h.Reminder.Complete)
		v1.PUT("/reminders/:reminder_id/cancel", h.Reminder.Cancel)
		v1.PUT("/reminders/:reminder_id/mark-sent", h.Reminder.MarkSent)

		// Notifications
		v1.POST("/notifications/send-reminder/:reminder_id", h.Notification.SendReminder)
		v1.POST("/notifications/check-reminders", h.Notification.CheckReminders)
		v1.GET("/notifications/status", h.Notification.Status)
		v1.GET("/notifications/config", h.Notification.Config)
		v1.POST("/notifications/test", h.Notification.Test)

		// Payments
		v1.GET("/payments", h.Payment.Index)
		v1.POST("/payments", h.Payment.Create)
		v1.GET("/payments/:payment_id", h.Payment.Show)

		// Alerts
		v1.GET("/alerts", h.Alert.Index)
		v1.PUT("/alerts/:alert_id/read", h.Alert.MarkRead)

		// Background jobs
		v1.GET("/jobs/status", h.Job.Status)
	}

	return router
}
