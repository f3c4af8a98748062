package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the dashboard service.
// One instance is created per application and shared through the service
// container.
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns    *prometheus.CounterVec
	RowsProcessed   prometheus.Counter
	FieldFallbacks  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a metrics set on a private registry so tests can
// instantiate it repeatedly without duplicate-registration panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PipelineRuns: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "invpulse_pipeline_runs_total",
			Help: "Pipeline runs by outcome (ok, empty, error).",
		}, []string{"outcome"}),
		RowsProcessed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "invpulse_rows_processed_total",
			Help: "Inventory rows normalized across all runs.",
		}),
		FieldFallbacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "invpulse_field_fallbacks_total",
			Help: "Cells or columns replaced with defaults, by column.",
		}, []string{"column"}),
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invpulse_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
