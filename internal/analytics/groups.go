package analytics

import (
	"sort"

	"invpulse/pkg/contracts/domain"
)

// ByCategory groups records by category and computes the per-category
// figures the category charts consume. Output is ordered by total
// inventory value descending, category name ascending on ties.
func ByCategory(records []domain.InventoryRecord) []domain.CategorySummary {
	type bucket struct {
		summary     domain.CategorySummary
		salesSum    float64
		marginSum   float64
		marginCount int
		rowCount    int
		suppliers   map[string]struct{}
	}

	buckets := make(map[string]*bucket)
	var order []string

	for i := range records {
		r := &records[i]
		b, ok := buckets[r.Category]
		if !ok {
			b = &bucket{
				summary:   domain.CategorySummary{Category: r.Category},
				suppliers: make(map[string]struct{}),
			}
			buckets[r.Category] = b
			order = append(order, r.Category)
		}
		b.summary.TotalInventoryValue += r.InventoryValue
		b.salesSum += r.SalesVolume
		b.rowCount++
		if r.Margin != nil {
			b.marginSum += *r.Margin
			b.marginCount++
		}
		if r.SupplierID != "" {
			b.suppliers[r.SupplierID] = struct{}{}
		} else if r.SupplierName != "" {
			b.suppliers[r.SupplierName] = struct{}{}
		}
	}

	out := make([]domain.CategorySummary, 0, len(order))
	for _, cat := range order {
		b := buckets[cat]
		b.summary.MeanSalesVolume = safeDivide(b.salesSum, float64(b.rowCount))
		b.summary.MeanMargin = safeDivide(b.marginSum, float64(b.marginCount))
		b.summary.SupplierCount = len(b.suppliers)
		out = append(out, b.summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalInventoryValue != out[j].TotalInventoryValue {
			return out[i].TotalInventoryValue > out[j].TotalInventoryValue
		}
		return out[i].Category < out[j].Category
	})

	return out
}

// TopProductsByRevenue sums revenue per product and returns the top
// TopProductCount products, descending. Ties keep original input order
// (stable sort over first-seen order), so the ranking is deterministic.
func TopProductsByRevenue(records []domain.InventoryRecord) []domain.ProductRevenue {
	totals := make(map[string]int) // product -> index into out
	var out []domain.ProductRevenue

	for i := range records {
		r := &records[i]
		if idx, ok := totals[r.ProductName]; ok {
			out[idx].TotalRevenue += r.TotalRevenue
			continue
		}
		totals[r.ProductName] = len(out)
		out = append(out, domain.ProductRevenue{
			ProductName:  r.ProductName,
			TotalRevenue: r.TotalRevenue,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue > out[j].TotalRevenue
	})

	if len(out) > TopProductCount {
		out = out[:TopProductCount]
	}
	return out
}

// ByStatus counts records per operational status, ordered by count
// descending then status name so the chart legend is stable.
func ByStatus(records []domain.InventoryRecord) []domain.StatusCount {
	counts := make(map[string]int)
	var order []string

	for i := range records {
		status := records[i].Status
		if status == "" {
			status = domain.UnknownCategory
		}
		if _, ok := counts[status]; !ok {
			order = append(order, status)
		}
		counts[status]++
	}

	out := make([]domain.StatusCount, 0, len(order))
	for _, status := range order {
		out = append(out, domain.StatusCount{Status: status, Count: counts[status]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})

	return out
}

// ExpiringWithin returns the records expiring within the given horizon,
// sorted ascending by days-to-expire. Records with an unparsable
// expiration date are excluded, never treated as already expired.
func ExpiringWithin(records []domain.InventoryRecord, days int) []domain.InventoryRecord {
	var out []domain.InventoryRecord
	for i := range records {
		if records[i].ExpiresWithin(days) {
			out = append(out, records[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DaysToExpire < *out[j].DaysToExpire
	})

	return out
}
