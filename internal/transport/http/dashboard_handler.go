package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "invpulse/internal/errors"
	"invpulse/internal/dataprocessing"
	"invpulse/internal/services"
	"invpulse/pkg/contracts/domain"
)

// DashboardServiceInterface is the contract the handler needs from the
// dashboard service. Narrow on purpose so tests can stub it.
type DashboardServiceInterface interface {
	Refresh(ctx context.Context) error
	KPIs(ctx context.Context, thresholdDays int) (*domain.KPISet, error)
	Categories(ctx context.Context) ([]domain.CategorySummary, error)
	TopProducts(ctx context.Context) ([]domain.ProductRevenue, error)
	Statuses(ctx context.Context) ([]domain.StatusCount, error)
	Expiring(ctx context.Context, thresholdDays int) ([]domain.InventoryRecord, error)
	Diagnostics(ctx context.Context) (dataprocessing.Diagnostics, services.RunInfo)
}

// thresholdQuery is the validated shape of the threshold_days parameter.
type thresholdQuery struct {
	ThresholdDays int `validate:"min=0,max=365"`
}

// DashboardHandler serves the dashboard data contracts.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/kpis", h.GetKPIs)
	r.Get("/categories", h.GetCategories)
	r.Get("/top-products", h.GetTopProducts)
	r.Get("/statuses", h.GetStatuses)
	r.Get("/expiring", h.GetExpiring)
	r.Get("/diagnostics", h.GetDiagnostics)
	r.Post("/refresh", h.PostRefresh)

	return r
}

// GetKPIs handles GET /api/dashboard/kpis?threshold_days=N.
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	threshold, ok := h.thresholdParam(w, r)
	if !ok {
		return
	}

	kpis, err := h.service.KPIs(r.Context(), threshold)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, kpis)
}

// GetCategories handles GET /api/dashboard/categories.
func (h *DashboardHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, categories)
}

// GetTopProducts handles GET /api/dashboard/top-products.
func (h *DashboardHandler) GetTopProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.TopProducts(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, products)
}

// GetStatuses handles GET /api/dashboard/statuses.
func (h *DashboardHandler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.service.Statuses(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, statuses)
}

// GetExpiring handles GET /api/dashboard/expiring?threshold_days=N,
// returning matching rows sorted ascending by days-to-expire.
func (h *DashboardHandler) GetExpiring(w http.ResponseWriter, r *http.Request) {
	threshold, ok := h.thresholdParam(w, r)
	if !ok {
		return
	}

	rows, err := h.service.Expiring(r.Context(), threshold)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, rows)
}

// GetDiagnostics handles GET /api/dashboard/diagnostics.
func (h *DashboardHandler) GetDiagnostics(w http.ResponseWriter, r *http.Request) {
	diags, info := h.service.Diagnostics(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"run":         info,
		"diagnostics": diags,
	})
}

// PostRefresh handles POST /api/dashboard/refresh, re-running the pipeline.
func (h *DashboardHandler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "manual refresh requested")

	if err := h.service.Refresh(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusInternalServerError, "PIPELINE_FAILED", "Pipeline run failed", err.Error()))
		return
	}

	_, info := h.service.Diagnostics(r.Context())
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, info)
}

// thresholdParam parses and validates the optional threshold_days query
// parameter. Zero means "use the configured default".
func (h *DashboardHandler) thresholdParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("threshold_days")
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("threshold_days", "must be an integer"))
		return 0, false
	}

	if err := h.validate.Struct(thresholdQuery{ThresholdDays: value}); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("threshold_days", "must be between 0 and 365"))
		return 0, false
	}

	return value, true
}

// handleServiceError maps service sentinels onto API errors.
func (h *DashboardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoSnapshot) {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoSnapshot)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
