package domain

// KPISet is the scalar output contract of the aggregation engine. Every
// ratio KPI substitutes 0 when its denominator is 0; the presentation layer
// formats these values directly and cannot render null.
type KPISet struct {
	TotalInventoryValue float64 `json:"total_inventory_value"`
	StockOutRiskCount   int     `json:"stock_out_risk_count"`
	AvgTurnoverRate     float64 `json:"avg_turnover_rate"`
	AvgMargin           float64 `json:"avg_margin"`
	ExpiringSoonCount   int     `json:"expiring_soon_count"`  // within ThresholdDays
	NearExpiredCount    int     `json:"near_expired_count"`   // fixed 7-day horizon
	GMROII              float64 `json:"gmroii"`               // margin-weighted revenue / inventory value
	CoverageDays        float64 `json:"coverage_days"`        // stock / average daily sales
	NearExpiredValue    float64 `json:"near_expired_value"`   // inventory value expiring within 7 days
	FillRate            float64 `json:"fill_rate"`            // stock / reorder quantity

	// ThresholdDays records the horizon used for ExpiringSoonCount so the
	// presentation layer can label the card without re-reading config.
	ThresholdDays int `json:"threshold_days"`
}

// CategorySummary is one row of the by-category grouping consumed by the
// category charts.
type CategorySummary struct {
	Category            string  `json:"category"`
	TotalInventoryValue float64 `json:"total_inventory_value"`
	MeanSalesVolume     float64 `json:"mean_sales_volume"`
	MeanMargin          float64 `json:"mean_margin"`
	SupplierCount       int     `json:"supplier_count"`
}

// ProductRevenue is one row of the top-products-by-revenue ranking.
type ProductRevenue struct {
	ProductName  string  `json:"product_name"`
	TotalRevenue float64 `json:"total_revenue"`
}

// StatusCount is one row of the by-status grouping.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
