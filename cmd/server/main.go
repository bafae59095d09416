// Package main is the entry point for the CRASH crime-reporting backend.
// It provides a REST API for citizen incident reports, report-scoped
// messaging, media evidence uploads, checkpoint schedules, filtered crime
// analytics and PDF case-file exports.
//
// Architecture:
//   - Reports are reverse-geocoded and auto-assigned to the nearest office
//   - Analytics aggregations and PDF exports share one filter routine
//   - A redis lock serializes refreshes of the analytics summary cache
//   - Media evidence is stored in Supabase-compatible object storage
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crashph/crash-server/internal/config"
	"github.com/crashph/crash-server/internal/database"
	"github.com/crashph/crash-server/internal/geo"
	"github.com/crashph/crash-server/internal/handlers"
	"github.com/crashph/crash-server/internal/middleware"
	"github.com/crashph/crash-server/internal/services"
	"github.com/crashph/crash-server/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// apiHandlers groups everything the router mounts.
type apiHandlers struct {
	auth       *handlers.AuthHandler
	report     *handlers.ReportHandler
	message    *handlers.MessageHandler
	checkpoint *handlers.CheckpointHandler
	media      *handlers.MediaHandler
	office     *handlers.OfficeHandler
	analytics  *handlers.AnalyticsHandler
	export     *handlers.ExportHandler
	admin      *handlers.AdminHandler
	health     *handlers.HealthHandler
}

// newRouter builds the full middleware chain and API route tree.
func newRouter(cfg *config.Config, logger *zap.Logger, h apiHandlers) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecureHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting
	r.Use(middleware.RateLimit(cfg.RateLimitRPM))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", h.health.Check)
		r.Get("/health/ready", h.health.Ready)

		// Authentication
		r.Post("/auth/login", h.auth.Login)

		// Report endpoints (public — the citizen app is unauthenticated)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", h.report.List)
			r.Post("/", h.report.Create)

			r.Get("/summary_resolved", h.report.SummaryResolved)
			r.Get("/summary/top-locations", h.analytics.TopLocationSummary)
			r.Get("/resolved", h.report.Resolved)
			r.With(middleware.RequireAuth(cfg.JWTSecret)).Get("/resolved/export", h.export.Resolved)

			r.Route("/{reportID}", func(r chi.Router) {
				r.Get("/", h.report.Get)
				r.Put("/", h.report.Update)
				r.Patch("/", h.report.Update)
				r.Delete("/", h.report.Delete)
				r.Get("/route", h.report.Route)
				r.With(middleware.RequireAuth(cfg.JWTSecret)).Get("/export", h.export.CaseFile)

				// Report-scoped message thread
				r.Get("/messages", h.message.List)
				r.Post("/messages", h.message.Create)
				r.Put("/messages/{messageID}", h.message.Update)
			})
		})

		// Checkpoint endpoints
		r.Route("/checkpoints", func(r chi.Router) {
			r.Get("/", h.checkpoint.List)
			r.Get("/active", h.checkpoint.Active)
			r.Get("/{checkpointID}", h.checkpoint.Get)
			r.With(middleware.RequireAuth(cfg.JWTSecret)).Post("/", h.checkpoint.Create)
			r.With(middleware.RequireAuth(cfg.JWTSecret)).Put("/{checkpointID}", h.checkpoint.Update)
			r.With(middleware.RequireAuth(cfg.JWTSecret)).Delete("/{checkpointID}", h.checkpoint.Delete)
		})

		// Media evidence
		r.Route("/media", func(r chi.Router) {
			r.Post("/", h.media.Upload)
			r.Get("/", h.media.List)
			r.Get("/{mediaID}", h.media.Get)
			r.With(middleware.RequireAuth(cfg.JWTSecret)).Delete("/{mediaID}", h.media.Delete)
		})

		// Analytics endpoints (police dashboard)
		r.Route("/analytics", func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			r.Get("/summary/overview", h.analytics.Overview)
			r.Get("/hotspots/locations", h.analytics.Locations)
			r.Get("/hotspots/categories", h.analytics.Categories)
			r.Get("/export", h.export.Analytics)
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWTSecret))
			r.Use(middleware.RequireRole("admin"))

			r.Route("/police-offices", func(r chi.Router) {
				r.Post("/", h.office.Create)
				r.Get("/", h.office.List)
				r.Get("/{officeID}", h.office.Get)
				r.Put("/{officeID}", h.office.Update)
				r.Delete("/{officeID}", h.office.Delete)
			})

			r.Get("/map/data", h.admin.MapData)
			r.Post("/analytics/update", h.analytics.Update)
		})
	})

	return r
}

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting CRASH server",
		"port", cfg.Port,
		"env", cfg.Environment,
		"storage_url", cfg.StorageURL,
	)

	// Initialize database connection pool
	db, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize redis (analytics refresh lock)
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	// Outbound clients
	geoClient := geo.NewClient(cfg.MapsBaseURL, cfg.MapsAPIKey, sugar)
	store := storage.NewClient(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket, sugar)

	// Initialize services
	authSvc := services.NewAuthService(db, cfg.JWTSecret, sugar)
	reportSvc := services.NewReportService(db, geoClient, sugar)
	messageSvc := services.NewMessageService(db, sugar)
	checkpointSvc := services.NewCheckpointService(db, sugar)
	mediaSvc := services.NewMediaService(db, store, sugar)
	officeSvc := services.NewOfficeService(db, sugar)
	analyticsSvc := services.NewAnalyticsService(db, sugar)
	summarySvc := services.NewSummaryService(db, services.NewRefreshLock(rdb), sugar)

	// Optional background refresh of the analytics summary cache
	if cfg.SummaryRefreshInterval > 0 {
		go summarySvc.Start(context.Background(), time.Duration(cfg.SummaryRefreshInterval)*time.Minute)
	}

	// Initialize handlers and build the router
	r := newRouter(cfg, logger, apiHandlers{
		auth:       handlers.NewAuthHandler(authSvc, sugar),
		report:     handlers.NewReportHandler(reportSvc, sugar),
		message:    handlers.NewMessageHandler(messageSvc, sugar),
		checkpoint: handlers.NewCheckpointHandler(checkpointSvc, sugar),
		media:      handlers.NewMediaHandler(mediaSvc, sugar),
		office:     handlers.NewOfficeHandler(officeSvc, sugar),
		analytics:  handlers.NewAnalyticsHandler(analyticsSvc, summarySvc, sugar),
		export:     handlers.NewExportHandler(analyticsSvc, reportSvc, officeSvc, sugar),
		admin:      handlers.NewAdminHandler(reportSvc, officeSvc, checkpointSvc, sugar),
		health:     handlers.NewHealthHandler(db, rdb, sugar),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
