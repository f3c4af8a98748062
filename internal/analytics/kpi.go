package analytics

import (
	"math"

	"invpulse/pkg/contracts/domain"
)

const (
	// DefaultThresholdDays is the general "expiring soon" horizon.
	DefaultThresholdDays = 30
	// NearExpiredDays is the short horizon for near-expired stock. Fixed,
	// not configurable: "near-expired" means one week by definition.
	NearExpiredDays = 7
	// TopProductCount caps the by-product revenue ranking.
	TopProductCount = 10
)

// Options configures the aggregation run.
type Options struct {
	// ThresholdDays is the horizon for the ExpiringSoonCount KPI and the
	// expiring-rows projection. Zero or negative falls back to the default.
	ThresholdDays int `validate:"min=0"`
}

// DefaultOptions returns the standard 30-day aggregation options.
func DefaultOptions() Options {
	return Options{ThresholdDays: DefaultThresholdDays}
}

func (o Options) thresholdDays() int {
	if o.ThresholdDays <= 0 {
		return DefaultThresholdDays
	}
	return o.ThresholdDays
}

// Aggregate reduces a normalized record set to the scalar KPI set. It
// returns nil for an empty input; callers must check before rendering.
func Aggregate(records []domain.InventoryRecord, opts Options) *domain.KPISet {
	if len(records) == 0 {
		return nil
	}

	threshold := opts.thresholdDays()
	kpi := &domain.KPISet{ThresholdDays: threshold}

	var (
		turnoverSum    float64
		turnoverCount  int
		marginSum      float64
		marginCount    int
		weightedMargin float64 // sum(revenue x margin)
		totalStock     float64
		totalReorder   float64
		totalDailySale float64
	)

	for i := range records {
		r := &records[i]

		kpi.TotalInventoryValue += r.InventoryValue
		if r.StockOutRisk {
			kpi.StockOutRiskCount++
		}
		if r.ExpiresWithin(threshold) {
			kpi.ExpiringSoonCount++
		}
		if r.ExpiresWithin(NearExpiredDays) {
			kpi.NearExpiredCount++
			kpi.NearExpiredValue += r.InventoryValue
		}

		if r.TurnoverRate != nil {
			turnoverSum += *r.TurnoverRate
			turnoverCount++
		}
		if r.Margin != nil && !math.IsInf(*r.Margin, 0) && !math.IsNaN(*r.Margin) {
			marginSum += *r.Margin
			marginCount++
			weightedMargin += r.TotalRevenue * *r.Margin
		}

		totalStock += float64(r.StockQuantity)
		totalReorder += float64(r.ReorderQuantity)
		totalDailySale += r.AvgDailySales
	}

	kpi.AvgTurnoverRate = safeDivide(turnoverSum, float64(turnoverCount))
	kpi.AvgMargin = safeDivide(marginSum, float64(marginCount))
	kpi.GMROII = safeDivide(weightedMargin, kpi.TotalInventoryValue)
	kpi.CoverageDays = safeDivide(totalStock, totalDailySale)
	kpi.FillRate = safeDivide(totalStock, totalReorder)

	return kpi
}

// safeDivide implements the dashboard-wide ratio policy: a zero denominator
// yields 0, never NaN or infinity.
func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
