// Package analytics implements the aggregation engine for the inventory
// KPI dashboard. It consumes a normalized inventory snapshot and produces
// the scalar KPI set plus the grouped summaries the presentation layer
// renders as cards and charts.
//
// # Components
//
//   - kpi.go: scalar reductions over all rows (totals, averages, ratios)
//   - groups.go: grouped projections (by category, by product, by status,
//     by expiry horizon)
//
// # Division-by-zero policy
//
// Every ratio KPI (GMROII, coverage, fill rate, averages) substitutes 0
// when its denominator is 0. This is unconditional: the dashboard formats
// these values as percentages and multipliers and cannot render null, so a
// zero denominator is routine, not exceptional.
//
// # Determinism
//
// All groupings are deterministically ordered and all ranking ties are
// broken by original input order, so repeated aggregation over the same
// snapshot is byte-identical.
package analytics
