package domain

import (
	"time"
)

// UnknownCategory is the category assigned to records whose source row has
// no usable category value. Grouping never sees a blank category.
const UnknownCategory = "Unknown"

// InventoryRecord represents one normalized row of the grocery inventory
// feed, including the derived metrics computed during normalization.
// Pointer fields are nil when the source cell was missing or unparsable;
// a nil value is distinct from zero and is excluded from averages.
type InventoryRecord struct {
	// Identity
	ProductName  string `json:"product_name"`
	Category     string `json:"category"`
	SupplierID   string `json:"supplier_id,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`

	// Quantities
	StockQuantity   int     `json:"stock_quantity"`
	ReorderLevel    int     `json:"reorder_level"`
	ReorderQuantity int     `json:"reorder_quantity"`
	SalesVolume     float64 `json:"sales_volume"`

	// Monetary and rate fields
	UnitPrice    *float64 `json:"unit_price"`              // currency string on input, e.g. "$12.50"
	Margin       *float64 `json:"margin"`                  // fraction, e.g. "1.96%" -> 0.0196, unclamped
	TurnoverRate *float64 `json:"turnover_rate,omitempty"` // absent rows excluded from averages

	// Temporal fields
	DateReceived   *time.Time `json:"date_received,omitempty"`
	LastOrderDate  *time.Time `json:"last_order_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`

	// Operational status, free-text ("In Stock", "Backordered", ...)
	Status string `json:"status"`

	// Derived metrics
	InventoryValue float64 `json:"inventory_value"`  // stock quantity x unit price
	TotalRevenue   float64 `json:"total_revenue"`    // sales volume x unit price
	StockOutRisk   bool    `json:"stock_out_risk"`   // stock quantity <= reorder level
	DaysToExpire   *int    `json:"days_to_expire"`   // signed, nil when expiration unparsable
	AvgDailySales  float64 `json:"avg_daily_sales"`  // sales volume / 30, clamped to 1 when zero
}

// HasPrice reports whether the record carries a usable unit price.
func (r *InventoryRecord) HasPrice() bool {
	return r.UnitPrice != nil
}

// ExpiresWithin reports whether the record expires within the given number
// of days. Records with an unparsable expiration date are never counted.
func (r *InventoryRecord) ExpiresWithin(days int) bool {
	return r.DaysToExpire != nil && *r.DaysToExpire <= days
}
