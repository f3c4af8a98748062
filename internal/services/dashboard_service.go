package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"invpulse/internal/analytics"
	"invpulse/internal/config"
	"invpulse/internal/dataprocessing"
	"invpulse/internal/files"
	"invpulse/internal/infrastructure"
	"invpulse/pkg/contracts/domain"
)

// EventBroadcaster pushes run events to connected dashboard clients.
// Satisfied by the websocket hub; nil disables push updates.
type EventBroadcaster interface {
	Broadcast(eventType string, data interface{})
}

// RunInfo summarizes one pipeline run for push events and the diagnostics
// endpoint.
type RunInfo struct {
	RunID        string    `json:"run_id"`
	Reference    time.Time `json:"reference"`
	Rows         int       `json:"rows"`
	WarningCount int       `json:"warning_count"`
	LoadedAt     time.Time `json:"loaded_at"`
	SourceFile   string    `json:"source_file"`
}

// DashboardService runs the ingestion pipeline and holds the resulting
// snapshot for the HTTP layer. Each Refresh is one pipeline run: the
// reference "today" is captured exactly once per run, so every aggregation
// over the same snapshot is deterministic.
type DashboardService struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	hub     EventBroadcaster

	// now is the clock used to capture the per-run reference timestamp.
	// Injectable for tests.
	now func() time.Time

	mu       sync.RWMutex
	snapshot *dataprocessing.Snapshot
	diags    dataprocessing.Diagnostics
	lastRun  RunInfo
}

// NewDashboardService creates the service. The metrics set and broadcaster
// may be nil (in the one-shot report binary, for example).
func NewDashboardService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics, hub EventBroadcaster) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "dashboard_service")),
		metrics: metrics,
		hub:     hub,
		now:     time.Now,
	}
}

// Refresh runs the pipeline over the configured source file and swaps in
// the new snapshot.
//
// A missing source file is the empty-table case, not a crash: the service
// keeps an empty snapshot, logs a warning, and the dashboard shows a
// user-facing notice. Only the caller decides whether that is fatal.
func (s *DashboardService) Refresh(ctx context.Context) error {
	ref := s.now()
	runID := uuid.New().String()

	raw, err := s.loadSource(ctx)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WarnContext(ctx, "source file not found, serving empty dashboard",
				slog.String("source_file", s.cfg.Paths.SourceFile),
				slog.String("run_id", runID))
			s.swap(dataprocessing.EmptySnapshot(ref), nil, runID, ref)
			s.countRun("empty")
			return nil
		}
		s.logger.ErrorContext(ctx, "source file unreadable, serving empty dashboard",
			slog.String("source_file", s.cfg.Paths.SourceFile),
			slog.String("run_id", runID),
			slog.String("error", err.Error()))
		s.swap(dataprocessing.EmptySnapshot(ref), nil, runID, ref)
		s.countRun("error")
		return nil
	}

	snap, diags := dataprocessing.Normalize(raw, ref)

	for _, d := range diags.Warnings() {
		s.logger.WarnContext(ctx, "column fell back to default",
			slog.String("column", d.Column),
			slog.String("reason", d.Reason),
			slog.Int("affected_rows", d.AffectedRows),
			slog.String("run_id", runID))
		if s.metrics != nil {
			s.metrics.FieldFallbacks.WithLabelValues(d.Column).Add(float64(d.AffectedRows))
		}
	}

	s.swap(snap, diags, runID, ref)
	s.countRun("ok")
	if s.metrics != nil {
		s.metrics.RowsProcessed.Add(float64(len(snap.Records)))
	}

	s.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", runID),
		slog.Int("rows", len(snap.Records)),
		slog.Int("warnings", len(diags.Warnings())))

	return nil
}

// loadSource reads the configured file into a raw table, dispatching on
// the file extension. When the configured file is missing, the newest
// parseable file in the data directory is used instead, so operators can
// drop a fresh export without editing configuration.
func (s *DashboardService) loadSource(ctx context.Context) (*dataprocessing.RawTable, error) {
	path := s.cfg.Paths.SourceFile

	if _, err := os.Stat(path); os.IsNotExist(err) {
		discovered, derr := files.NewDiscovery(s.cfg.Paths.DataDir).NewestSource()
		if derr != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "configured source missing, using newest file in data dir",
			slog.String("configured", path),
			slog.String("discovered", discovered.Path))
		path = discovered.Path
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		return dataprocessing.ParseXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	raw, err := dataprocessing.ParseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw, nil
}

func (s *DashboardService) swap(snap *dataprocessing.Snapshot, diags dataprocessing.Diagnostics, runID string, ref time.Time) {
	info := RunInfo{
		RunID:        runID,
		Reference:    ref,
		Rows:         len(snap.Records),
		WarningCount: len(diags.Warnings()),
		LoadedAt:     s.now(),
		SourceFile:   s.cfg.Paths.SourceFile,
	}

	s.mu.Lock()
	s.snapshot = snap
	s.diags = diags
	s.lastRun = info
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast("snapshot:refresh", info)
	}
}

func (s *DashboardService) countRun(outcome string) {
	if s.metrics != nil {
		s.metrics.PipelineRuns.WithLabelValues(outcome).Inc()
	}
}

// KPIs aggregates the current snapshot with the given expiry threshold.
// A non-positive threshold uses the configured default.
func (s *DashboardService) KPIs(ctx context.Context, thresholdDays int) (*domain.KPISet, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}

	if thresholdDays <= 0 {
		thresholdDays = s.cfg.Dashboard.ThresholdDays
	}

	kpi := analytics.Aggregate(records, analytics.Options{ThresholdDays: thresholdDays})
	if kpi == nil {
		return nil, ErrNoSnapshot
	}
	return kpi, nil
}

// Categories returns the by-category grouping of the current snapshot.
func (s *DashboardService) Categories(ctx context.Context) ([]domain.CategorySummary, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return analytics.ByCategory(records), nil
}

// TopProducts returns the top-10-by-revenue ranking of the current
// snapshot.
func (s *DashboardService) TopProducts(ctx context.Context) ([]domain.ProductRevenue, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return analytics.TopProductsByRevenue(records), nil
}

// Statuses returns the per-status row counts of the current snapshot.
func (s *DashboardService) Statuses(ctx context.Context) ([]domain.StatusCount, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	return analytics.ByStatus(records), nil
}

// Expiring returns the rows expiring within the threshold, ascending by
// days-to-expire. A non-positive threshold uses the configured default.
func (s *DashboardService) Expiring(ctx context.Context, thresholdDays int) ([]domain.InventoryRecord, error) {
	records, err := s.records()
	if err != nil {
		return nil, err
	}
	if thresholdDays <= 0 {
		thresholdDays = s.cfg.Dashboard.ThresholdDays
	}
	return analytics.ExpiringWithin(records, thresholdDays), nil
}

// Diagnostics returns the per-column outcomes and run info of the last
// pipeline run.
func (s *DashboardService) Diagnostics(ctx context.Context) (dataprocessing.Diagnostics, RunInfo) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diags, s.lastRun
}

// records returns the current snapshot's rows, or ErrNoSnapshot when no
// data is loaded. Callers must treat the slice as immutable.
func (s *DashboardService) records() ([]domain.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Empty() {
		return nil, ErrNoSnapshot
	}
	return s.snapshot.Records, nil
}
