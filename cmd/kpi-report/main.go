// Command kpi-report runs the ingestion pipeline once and writes the KPI
// report CSVs, without starting the HTTP server. It is the batch companion
// of cmd/web for cron jobs and ad-hoc analysis.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"invpulse/internal/config"
	"invpulse/internal/exporter"
	"invpulse/internal/infrastructure"
	"invpulse/internal/services"
)

func main() {
	sourceFlag := flag.String("source", "", "inventory source file (overrides configuration)")
	outFlag := flag.String("out", "", "reports output directory (overrides configuration)")
	thresholdFlag := flag.Int("threshold-days", 0, "expiring-soon horizon in days (0 uses configuration)")
	flag.Parse()

	if err := run(*sourceFlag, *outFlag, *thresholdFlag); err != nil {
		slog.Error("report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(source, out string, thresholdDays int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if source != "" {
		cfg.Paths.SourceFile = source
	}
	if out != "" {
		cfg.Paths.ReportsDir = out
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	svc := services.NewDashboardService(cfg, logger, nil, nil)

	if err := svc.Refresh(ctx); err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	kpi, err := svc.KPIs(ctx, thresholdDays)
	if err != nil {
		return fmt.Errorf("no data to report on: %w", err)
	}

	products, err := svc.TopProducts(ctx)
	if err != nil {
		return err
	}
	categories, err := svc.Categories(ctx)
	if err != nil {
		return err
	}
	expiring, err := svc.Expiring(ctx, thresholdDays)
	if err != nil {
		return err
	}

	writer := exporter.NewCSVWriter(cfg.Paths.ReportsDir)
	if err := writer.WriteKPISet(kpi); err != nil {
		return err
	}
	if err := writer.WriteTopProducts(products); err != nil {
		return err
	}
	if err := writer.WriteCategorySummaries(categories); err != nil {
		return err
	}
	if err := writer.WriteExpiringItems(expiring); err != nil {
		return err
	}

	_, info := svc.Diagnostics(ctx)
	logger.Info("report written",
		slog.String("reports_dir", cfg.Paths.ReportsDir),
		slog.Int("rows", info.Rows),
		slog.Int("warnings", info.WarningCount),
		slog.Int("threshold_days", kpi.ThresholdDays))

	return nil
}
