package main

import (
	"net/http"
	"testing"

	"github.com/crashph/crash-server/internal/config"
	"github.com/crashph/crash-server/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testRouter(t *testing.T) *chi.Mux {
	t.Helper()

	cfg := &config.Config{
		AllowedOrigins: []string{"*"},
		RateLimitRPM:   60,
		JWTSecret:      "test-secret",
	}
	logger := zap.NewNop()
	sugar := logger.Sugar()

	// Route matching never invokes a handler, so none of them need
	// backing connections here.
	return newRouter(cfg, logger, apiHandlers{
		auth:       handlers.NewAuthHandler(nil, sugar),
		report:     handlers.NewReportHandler(nil, sugar),
		message:    handlers.NewMessageHandler(nil, sugar),
		checkpoint: handlers.NewCheckpointHandler(nil, sugar),
		media:      handlers.NewMediaHandler(nil, sugar),
		office:     handlers.NewOfficeHandler(nil, sugar),
		analytics:  handlers.NewAnalyticsHandler(nil, nil, sugar),
		export:     handlers.NewExportHandler(nil, nil, nil, sugar),
		admin:      handlers.NewAdminHandler(nil, nil, nil, sugar),
		health:     handlers.NewHealthHandler(nil, nil, sugar),
	})
}

func TestRouterMountsAPIRoutes(t *testing.T) {
	r := testRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/health"},
		{http.MethodGet, "/api/v1/health/ready"},
		{http.MethodPost, "/api/v1/auth/login"},

		{http.MethodGet, "/api/v1/reports"},
		{http.MethodPost, "/api/v1/reports"},
		{http.MethodGet, "/api/v1/reports/summary_resolved"},
		{http.MethodGet, "/api/v1/reports/summary/top-locations"},
		{http.MethodGet, "/api/v1/reports/resolved"},
		{http.MethodGet, "/api/v1/reports/resolved/export"},
		{http.MethodGet, "/api/v1/reports/11111111-1111-1111-1111-111111111111"},
		{http.MethodPut, "/api/v1/reports/11111111-1111-1111-1111-111111111111"},
		{http.MethodGet, "/api/v1/reports/11111111-1111-1111-1111-111111111111/route"},
		{http.MethodGet, "/api/v1/reports/11111111-1111-1111-1111-111111111111/export"},
		{http.MethodGet, "/api/v1/reports/11111111-1111-1111-1111-111111111111/messages"},
		{http.MethodPost, "/api/v1/reports/11111111-1111-1111-1111-111111111111/messages"},
		{http.MethodPut, "/api/v1/reports/11111111-1111-1111-1111-111111111111/messages/22222222-2222-2222-2222-222222222222"},

		{http.MethodGet, "/api/v1/checkpoints"},
		{http.MethodGet, "/api/v1/checkpoints/active"},
		{http.MethodGet, "/api/v1/checkpoints/33333333-3333-3333-3333-333333333333"},
		{http.MethodPut, "/api/v1/checkpoints/33333333-3333-3333-3333-333333333333"},
		{http.MethodDelete, "/api/v1/checkpoints/33333333-3333-3333-3333-333333333333"},

		{http.MethodPost, "/api/v1/media"},
		{http.MethodGet, "/api/v1/media"},
		{http.MethodGet, "/api/v1/media/44444444-4444-4444-4444-444444444444"},

		{http.MethodGet, "/api/v1/analytics/summary/overview"},
		{http.MethodGet, "/api/v1/analytics/hotspots/locations"},
		{http.MethodGet, "/api/v1/analytics/hotspots/categories"},
		{http.MethodGet, "/api/v1/analytics/export"},

		{http.MethodGet, "/api/v1/admin/police-offices"},
		{http.MethodGet, "/api/v1/admin/map/data"},
		{http.MethodPost, "/api/v1/admin/analytics/update"},
	}

	for _, rt := range routes {
		rctx := chi.NewRouteContext()
		assert.True(t, r.Match(rctx, rt.method, rt.path), "%s %s not routed", rt.method, rt.path)
	}
}

func TestRouterAnalyticsPathsNotFlat(t *testing.T) {
	r := testRouter(t)

	// The dashboard paths are nested under summary/ and hotspots/.
	for _, path := range []string{
		"/api/v1/analytics/overview",
		"/api/v1/analytics/locations",
		"/api/v1/analytics/categories",
	} {
		rctx := chi.NewRouteContext()
		assert.False(t, r.Match(rctx, http.MethodGet, path), "%s should not be routed", path)
	}
}
