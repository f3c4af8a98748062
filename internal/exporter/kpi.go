package exporter

import (
	"fmt"

	"invpulse/pkg/contracts/domain"
)

// Report file names written under the reports directory.
const (
	KPIFileName          = "inventory_kpis.csv"
	TopProductsFileName  = "top_products_by_revenue.csv"
	CategoriesFileName   = "category_summary.csv"
	ExpiringFileName     = "expiring_items.csv"
)

// WriteKPISet exports the scalar KPI set as a two-column key/value CSV,
// matching the cards the dashboard renders.
func (w *CSVWriter) WriteKPISet(kpi *domain.KPISet) error {
	if kpi == nil {
		return fmt.Errorf("no KPI set to export")
	}

	records := [][]string{
		{"Total Inventory Value", formatFloat(kpi.TotalInventoryValue)},
		{"Stock Out Risk Items", formatInt(kpi.StockOutRiskCount)},
		{"Avg Inventory Turnover Rate", formatFloat(kpi.AvgTurnoverRate)},
		{"Average Product Margin", formatFraction(kpi.AvgMargin)},
		{fmt.Sprintf("Expiring Soon Items (%d Days)", kpi.ThresholdDays), formatInt(kpi.ExpiringSoonCount)},
		{"Near Expired Items (7 Days)", formatInt(kpi.NearExpiredCount)},
		{"Near Expired Value", formatFloat(kpi.NearExpiredValue)},
		{"GMROII", formatFraction(kpi.GMROII)},
		{"Inventory Coverage (Days)", formatFloat(kpi.CoverageDays)},
		{"Fill Rate", formatFraction(kpi.FillRate)},
	}

	return w.WriteSimpleCSV(KPIFileName, []string{"KPI", "Value"}, records)
}

// WriteTopProducts exports the top-products-by-revenue ranking.
func (w *CSVWriter) WriteTopProducts(products []domain.ProductRevenue) error {
	records := make([][]string, 0, len(products))
	for _, p := range products {
		records = append(records, []string{p.ProductName, formatFloat(p.TotalRevenue)})
	}
	return w.WriteSimpleCSV(TopProductsFileName, []string{"Product", "Total Revenue"}, records)
}

// WriteCategorySummaries exports the by-category grouping.
func (w *CSVWriter) WriteCategorySummaries(categories []domain.CategorySummary) error {
	records := make([][]string, 0, len(categories))
	for _, c := range categories {
		records = append(records, []string{
			c.Category,
			formatFloat(c.TotalInventoryValue),
			formatFloat(c.MeanSalesVolume),
			formatFraction(c.MeanMargin),
			formatInt(c.SupplierCount),
		})
	}
	headers := []string{"Category", "Total Inventory Value", "Mean Sales Volume", "Mean Margin", "Suppliers"}
	return w.WriteSimpleCSV(CategoriesFileName, headers, records)
}

// WriteExpiringItems exports the expiry projection, already sorted
// ascending by days-to-expire by the aggregation engine.
func (w *CSVWriter) WriteExpiringItems(records []domain.InventoryRecord) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, []string{
			r.ProductName,
			r.Category,
			formatDays(r.DaysToExpire),
			formatInt(r.StockQuantity),
			formatFloat(r.InventoryValue),
			formatBool(r.StockOutRisk),
		})
	}
	headers := []string{"Product", "Category", "Days To Expire", "Stock", "Inventory Value", "Stock Out Risk"}
	return w.WriteSimpleCSV(ExpiringFileName, headers, rows)
}
