package app

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invpulse/internal/config"
	apierrors "invpulse/internal/errors"
	"invpulse/internal/infrastructure"
	"invpulse/internal/services"
	ws "invpulse/internal/websocket"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceFile = filepath.Join(dir, "inventory.csv")
	cfg.Paths.DataDir = dir
	cfg.Paths.ReportsDir = filepath.Join(dir, "reports")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")
	cfg.RateLimit.Enabled = false

	logger := slog.Default()
	metrics := infrastructure.NewMetrics()
	hub := ws.NewHub(logger)

	app := &Application{
		Config:       cfg,
		Hub:          hub,
		Dashboard:    services.NewDashboardService(cfg, logger, metrics, hub),
		Metrics:      metrics,
		Logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
	}
	app.Router = app.setupRouter()
	return app
}

func TestRouter_Health(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_UnknownPathReturnsStructuredError(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.ErrorCode)
}

func TestRouter_DashboardBeforeRefresh(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/kpis", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "NO_SNAPSHOT", apiErr.ErrorCode)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
