package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"invpulse/internal/config"
	apierrors "invpulse/internal/errors"
	"invpulse/internal/infrastructure"
	custommw "invpulse/internal/middleware"
	"invpulse/internal/services"
	handlers "invpulse/internal/transport/http"
	ws "invpulse/internal/websocket"
)

const (
	AppName = "InvPulse - Grocery Inventory Dashboard"
	Version = "v1.0.0"
)

// Application is the composition root: it owns the configuration, the
// pipeline service, the websocket hub, and the HTTP server, wired together
// with dependency injection.
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Hub       *ws.Hub
	Dashboard *services.DashboardService
	Metrics   *infrastructure.Metrics
	Logger    *slog.Logger

	errorHandler *apierrors.ErrorHandler
	upgrader     websocket.Upgrader
}

// NewApplication loads configuration and builds the full dependency graph.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("source_file", cfg.Paths.SourceFile))

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	metrics := infrastructure.NewMetrics()
	hub := ws.NewHub(logger)
	dashboard := services.NewDashboardService(cfg, logger, metrics, hub)

	app := &Application{
		Config:       cfg,
		Hub:          hub,
		Dashboard:    dashboard,
		Metrics:      metrics,
		Logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is served from the same origin as the API.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// setupRouter builds the chi router with the full middleware chain and all
// route mounts.
func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.MetricsRecorder(a.Metrics))

	if a.Config.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(a.Config.RateLimit.RPS, a.Config.RateLimit.Burst, a.Logger)
		r.Use(limiter.Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger, a.errorHandler)
	healthHandler := handlers.NewHealthHandler(Version)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", healthHandler.Routes())
		r.Mount("/dashboard", dashboardHandler.Routes())
	})

	r.Get("/ws", a.handleWebSocket)
	r.Handle("/metrics", a.Metrics.Handler())

	return r
}

// handleWebSocket upgrades the connection and hands it to the hub.
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		a.Logger.ErrorContext(r.Context(), "websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()))
		return
	}
	ws.ServeWS(a.Hub, conn, a.Logger)
}

// Run starts the hub and the HTTP server, performs the initial pipeline
// run, and blocks until the context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	a.Hub.Start()
	defer a.Hub.Stop()

	// Load the snapshot before accepting traffic so the first request does
	// not race the first pipeline run. A missing source file is reported by
	// the service and the dashboard starts empty.
	if err := a.Dashboard.Refresh(ctx); err != nil {
		return fmt.Errorf("initial pipeline run failed: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if closeErr := infrastructure.CloseLogFile(); closeErr != nil {
		a.Logger.Warn("failed to close log file", slog.String("error", closeErr.Error()))
	}

	a.Logger.Info("application stopped")
	return err
}
