package handlers

import (
	"net/http"
	"time"

	"github.com/crashph/crash-server/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var startTime = time.Now()

// HealthHandler provides health check endpoints
type HealthHandler struct {
	db     *pgxpool.Pool
	redis  *redis.Client
	logger *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb, logger: logger}
}

// Check handles GET /api/v1/health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: "1.0.0",
		Uptime:  time.Since(startTime).String(),
	})
}

// Ready handles GET /api/v1/health/ready (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	redisStatus := "connected"
	if err := h.db.Ping(r.Context()); err != nil {
		dbStatus = "disconnected"
	}
	if err := h.redis.Ping(r.Context()).Err(); err != nil {
		redisStatus = "disconnected"
	}

	if dbStatus != "connected" || redisStatus != "connected" {
		respondJSON(w, http.StatusServiceUnavailable, models.HealthStatus{
			Status:   "not ready",
			Version:  "1.0.0",
			Database: dbStatus,
			Redis:    redisStatus,
		})
		return
	}

	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:   "ready",
		Version:  "1.0.0",
		Uptime:   time.Since(startTime).String(),
		Database: dbStatus,
		Redis:    redisStatus,
	})
}
