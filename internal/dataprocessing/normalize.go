package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"invpulse/pkg/contracts/domain"
)

// Source column names. Header cells are trimmed before lookup, so these
// match regardless of stray whitespace in the feed.
const (
	ColProductName     = "Product_Name"
	ColCategory        = "Category"
	ColCategoryLegacy  = "Catagory" // misspelled in the original feed
	ColSupplierID      = "Supplier_ID"
	ColSupplierName    = "Supplier_Name"
	ColStockQuantity   = "Stock_Quantity"
	ColReorderLevel    = "Reorder_Level"
	ColReorderQuantity = "Reorder_Quantity"
	ColSalesVolume     = "Sales_Volume"
	ColUnitPrice       = "Unit_Price"
	ColMargin          = "percentage"
	ColTurnoverRate    = "Inventory_Turnover_Rate"
	ColStatus          = "Status"
	ColDateReceived    = "Date_Received"
	ColLastOrderDate   = "Last_Order_Date"
	ColExpirationDate  = "Expiration_Date"
)

// dateLayouts are tried in order when parsing the three date columns.
// Inventory feeds mix ISO dates with US-style slashed dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Snapshot is the output of one normalization run: the normalized records
// plus the reference timestamp they were computed against. Records are not
// mutated after the snapshot is built.
type Snapshot struct {
	Records   []domain.InventoryRecord `json:"records"`
	Reference time.Time                `json:"reference"`
}

// Empty reports whether the snapshot carries no rows. An empty snapshot is
// the sentinel for an unreadable or missing source.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Records) == 0
}

// EmptySnapshot returns the empty-table sentinel for the given reference
// date.
func EmptySnapshot(ref time.Time) *Snapshot {
	return &Snapshot{Reference: ref}
}

// Normalize converts a raw inventory table into a normalized snapshot.
//
// The reference date is supplied by the caller, never sampled internally,
// so the function is pure: identical (table, ref) inputs yield identical
// snapshots. All per-field problems are absorbed into documented defaults
// and reported through the returned Diagnostics; Normalize itself never
// fails.
func Normalize(raw *RawTable, ref time.Time) (*Snapshot, Diagnostics) {
	var diags Diagnostics

	if raw == nil || raw.Len() == 0 {
		return EmptySnapshot(ref), diags
	}

	cols := resolveColumns(raw, &diags)
	records := make([]domain.InventoryRecord, 0, raw.Len())

	for i := 0; i < raw.Len(); i++ {
		rec := domain.InventoryRecord{
			ProductName:  cols.cell(raw, i, ColProductName),
			SupplierID:   cols.cell(raw, i, ColSupplierID),
			SupplierName: cols.cell(raw, i, ColSupplierName),
			Status:       cols.cell(raw, i, ColStatus),
		}

		// Every record gets a category before any grouping happens.
		rec.Category = cols.cell(raw, i, ColCategory)
		if rec.Category == "" {
			rec.Category = domain.UnknownCategory
		}

		rec.StockQuantity = cols.intCell(raw, i, ColStockQuantity)
		rec.ReorderLevel = cols.intCell(raw, i, ColReorderLevel)
		rec.ReorderQuantity = cols.intCell(raw, i, ColReorderQuantity)
		rec.SalesVolume = cols.floatCell(raw, i, ColSalesVolume)

		if cols.has(ColUnitPrice) {
			rec.UnitPrice = cols.currencyCell(raw, i)
		}
		if cols.has(ColMargin) {
			rec.Margin = cols.percentCell(raw, i)
		} else {
			// Margin column absent: neutral default, so KPI math that
			// averages margins keeps working.
			zero := 0.0
			rec.Margin = &zero
		}
		if cols.has(ColTurnoverRate) {
			rec.TurnoverRate = cols.optionalFloatCell(raw, i, ColTurnoverRate)
		}

		rec.DateReceived = cols.dateCell(raw, i, ColDateReceived)
		rec.LastOrderDate = cols.dateCell(raw, i, ColLastOrderDate)
		rec.ExpirationDate = cols.dateCell(raw, i, ColExpirationDate)

		deriveColumns(&rec, cols, ref)
		records = append(records, rec)
	}

	cols.flush(&diags)

	return &Snapshot{Records: records, Reference: ref}, diags
}

// deriveColumns fills the computed per-row metrics. Absent inputs produce
// the documented defaults (0 for value and revenue, false for risk flags,
// nil for days-to-expire) rather than a missing-field fault.
func deriveColumns(rec *domain.InventoryRecord, cols *columnSet, ref time.Time) {
	if rec.UnitPrice != nil {
		rec.InventoryValue = float64(rec.StockQuantity) * *rec.UnitPrice
		rec.TotalRevenue = rec.SalesVolume * *rec.UnitPrice
	}

	if cols.has(ColReorderLevel) && cols.has(ColStockQuantity) {
		rec.StockOutRisk = rec.StockQuantity <= rec.ReorderLevel
	}

	if rec.ExpirationDate != nil {
		days := daysBetween(ref, *rec.ExpirationDate)
		rec.DaysToExpire = &days
	}

	// Average daily sales feeds coverage-ratio division downstream, so a
	// zero or non-finite result is clamped to 1.
	ads := rec.SalesVolume / 30
	if ads == 0 || math.IsInf(ads, 0) || math.IsNaN(ads) {
		ads = 1
	}
	rec.AvgDailySales = ads
}

// daysBetween returns the signed whole-day difference between two
// timestamps, compared on calendar days so that an expiration on the
// reference date yields exactly 0.
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// parseCurrency coerces a currency cell like "$1,200.50" or " 12.0 " into
// a number. Parse failures return nil, never zero: a null price must stay
// distinguishable from a free product.
func parseCurrency(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parsePercent coerces a percentage cell like "1.96%" into a fraction
// (0.0196). Values outside [0,1] are preserved as-is; interpreting margins
// above 100% is the caller's call.
func parsePercent(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	frac := v / 100
	return &frac
}

// parseDate tries each known layout in order and returns nil when none
// matches. Date problems are never fatal; downstream computations
// propagate the nil.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// columnSet resolves column positions once per run and tallies per-cell
// fallbacks so each column produces at most one diagnostic.
type columnSet struct {
	index    map[string]int
	fallback map[string]int
	missing  []string
}

func resolveColumns(raw *RawTable, diags *Diagnostics) *columnSet {
	cols := &columnSet{
		index:    make(map[string]int),
		fallback: make(map[string]int),
	}

	names := []string{
		ColProductName, ColSupplierID, ColSupplierName,
		ColStockQuantity, ColReorderLevel, ColReorderQuantity,
		ColSalesVolume, ColUnitPrice, ColMargin, ColTurnoverRate,
		ColStatus, ColDateReceived, ColLastOrderDate, ColExpirationDate,
	}
	for _, name := range names {
		if idx := raw.Column(name); idx >= 0 {
			cols.index[name] = idx
		} else {
			cols.missing = append(cols.missing, name)
		}
	}

	// The category column appears under two spellings in the wild.
	if idx := raw.Column(ColCategory); idx >= 0 {
		cols.index[ColCategory] = idx
	} else if idx := raw.Column(ColCategoryLegacy); idx >= 0 {
		cols.index[ColCategory] = idx
	} else {
		cols.missing = append(cols.missing, ColCategory)
	}

	for _, name := range cols.missing {
		diags.defaulted(name, "column not present in source", raw.Len())
	}

	return cols
}

func (c *columnSet) has(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *columnSet) cell(raw *RawTable, row int, name string) string {
	idx, ok := c.index[name]
	if !ok {
		return ""
	}
	return raw.Cell(row, idx)
}

func (c *columnSet) intCell(raw *RawTable, row int, name string) int {
	s := c.cell(raw, row, name)
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Quantities sometimes arrive as "12.0" from spreadsheet exports.
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int(f)
		}
		c.fallback[name]++
		return 0
	}
	return v
}

func (c *columnSet) floatCell(raw *RawTable, row int, name string) float64 {
	s := c.cell(raw, row, name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.fallback[name]++
		return 0
	}
	return v
}

func (c *columnSet) optionalFloatCell(raw *RawTable, row int, name string) *float64 {
	s := c.cell(raw, row, name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.fallback[name]++
		return nil
	}
	return &v
}

func (c *columnSet) currencyCell(raw *RawTable, row int) *float64 {
	s := c.cell(raw, row, ColUnitPrice)
	v := parseCurrency(s)
	if v == nil && s != "" {
		c.fallback[ColUnitPrice]++
	}
	return v
}

func (c *columnSet) percentCell(raw *RawTable, row int) *float64 {
	s := c.cell(raw, row, ColMargin)
	v := parsePercent(s)
	if v == nil && s != "" {
		c.fallback[ColMargin]++
	}
	return v
}

func (c *columnSet) dateCell(raw *RawTable, row int, name string) *time.Time {
	s := c.cell(raw, row, name)
	v := parseDate(s)
	if v == nil && s != "" {
		c.fallback[name]++
	}
	return v
}

// flush converts accumulated per-cell outcomes into diagnostics, in the
// column order used during resolution so output is deterministic. Every
// resolved column is reported, clean columns included; missing columns were
// already recorded during resolution.
func (c *columnSet) flush(diags *Diagnostics) {
	order := []string{
		ColProductName, ColCategory, ColSupplierID, ColSupplierName,
		ColStockQuantity, ColReorderLevel, ColReorderQuantity,
		ColSalesVolume, ColUnitPrice, ColMargin, ColTurnoverRate,
		ColStatus, ColDateReceived, ColLastOrderDate, ColExpirationDate,
	}
	for _, name := range order {
		if !c.has(name) {
			continue
		}
		if n := c.fallback[name]; n > 0 {
			diags.defaulted(name, "unparsable cells replaced with defaults", n)
		} else {
			diags.ok(name)
		}
	}
}
