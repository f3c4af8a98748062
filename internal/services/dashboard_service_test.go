package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invpulse/internal/config"
)

const testFeed = `Product_Name,Category,Supplier_ID,Stock_Quantity,Reorder_Level,Reorder_Quantity,Sales_Volume,Unit_Price,percentage,Status,Expiration_Date
Milk,Dairy,S1,100,50,40,30,$2.00,10%,In Stock,2025-06-20
Bread,Bakery,S2,10,50,40,60,$5.00,5%,Backordered,2025-07-25
Mystery,,S3,20,5,10,15,,,In Stock,
`

// fakeHub records broadcasts for assertions.
type fakeHub struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeHub) Broadcast(eventType string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func newTestService(t *testing.T, feed string) (*DashboardService, *fakeHub) {
	t.Helper()

	dir := t.TempDir()
	source := filepath.Join(dir, "inventory.csv")
	if feed != "" {
		require.NoError(t, os.WriteFile(source, []byte(feed), 0644))
	}

	cfg := config.Default()
	cfg.Paths.SourceFile = source
	cfg.Paths.DataDir = dir
	cfg.Paths.ReportsDir = filepath.Join(dir, "reports")

	hub := &fakeHub{}
	svc := NewDashboardService(cfg, slog.Default(), nil, hub)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc, hub
}

func TestRefreshAndKPIs(t *testing.T) {
	svc, hub := newTestService(t, testFeed)
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx))

	kpi, err := svc.KPIs(ctx, 0)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, kpi.TotalInventoryValue, 1e-9)
	assert.Equal(t, 1, kpi.StockOutRiskCount)
	assert.Equal(t, 1, kpi.ExpiringSoonCount)
	assert.Equal(t, 1, kpi.NearExpiredCount)
	assert.Equal(t, 30, kpi.ThresholdDays, "zero threshold falls back to configured default")

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Contains(t, hub.events, "snapshot:refresh")
}

func TestKPIs_CustomThreshold(t *testing.T) {
	svc, _ := newTestService(t, testFeed)
	ctx := context.Background()
	require.NoError(t, svc.Refresh(ctx))

	kpi, err := svc.KPIs(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, kpi.ThresholdDays)
	assert.Equal(t, 1, kpi.ExpiringSoonCount)
}

func TestKPIs_NoRefreshYet(t *testing.T) {
	svc, _ := newTestService(t, testFeed)

	_, err := svc.KPIs(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRefresh_MissingSourceIsNotFatal(t *testing.T) {
	svc, hub := newTestService(t, "")
	ctx := context.Background()

	// A missing source surfaces as an empty dashboard, never as an error
	// from Refresh.
	require.NoError(t, svc.Refresh(ctx))

	_, err := svc.KPIs(ctx, 0)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, info := svc.Diagnostics(ctx)
	assert.Equal(t, 0, info.Rows)

	hub.mu.Lock()
	defer hub.mu.Unlock()
	assert.Contains(t, hub.events, "snapshot:refresh")
}

func TestRefresh_FallsBackToNewestFileInDataDir(t *testing.T) {
	svc, _ := newTestService(t, "")
	ctx := context.Background()

	// Configured source is absent, but an export was dropped into the
	// data directory under a different name.
	dropped := filepath.Join(svc.cfg.Paths.DataDir, "export_2025-06-14.csv")
	require.NoError(t, os.WriteFile(dropped, []byte(testFeed), 0644))

	require.NoError(t, svc.Refresh(ctx))

	_, info := svc.Diagnostics(ctx)
	assert.Equal(t, 3, info.Rows)
}

func TestRefresh_Deterministic(t *testing.T) {
	svc, _ := newTestService(t, testFeed)
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx))
	first, err := svc.KPIs(ctx, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(ctx))
	second, err := svc.KPIs(ctx, 0)
	require.NoError(t, err)

	// Same bytes, same injected clock: byte-identical numeric outputs.
	assert.Equal(t, first, second)
}

func TestProjections(t *testing.T) {
	svc, _ := newTestService(t, testFeed)
	ctx := context.Background()
	require.NoError(t, svc.Refresh(ctx))

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "Dairy", categories[0].Category, "largest inventory value first")

	products, err := svc.TopProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Bread", products[0].ProductName) // 60 * $5

	statuses, err := svc.Statuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, "In Stock", statuses[0].Status)
	assert.Equal(t, 2, statuses[0].Count)

	expiring, err := svc.Expiring(ctx, 30)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "Milk", expiring[0].ProductName)
}

func TestDiagnosticsSurfaceWarnings(t *testing.T) {
	// Feed without a margin column: the pipeline defaults it and the
	// diagnostics endpoint must say so.
	feed := "Product_Name,Unit_Price,Stock_Quantity\nMilk,$2.00,10\n"
	svc, _ := newTestService(t, feed)
	ctx := context.Background()
	require.NoError(t, svc.Refresh(ctx))

	diags, info := svc.Diagnostics(ctx)
	assert.Equal(t, 1, info.Rows)
	assert.NotEmpty(t, diags.Warnings())
	assert.Greater(t, info.WarningCount, 0)
}
