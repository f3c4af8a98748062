// Package http provides the HTTP transport layer for the inventory KPI
// dashboard. Handlers are thin: they validate parameters, delegate to the
// dashboard service, and render the domain contracts as JSON. All error
// responses flow through the central ErrorHandler so the shape is uniform.
//
// The routes under /api/dashboard are the only data contract the
// presentation layer may depend on: the scalar KPI set plus the tabular
// projections (top products, categories, statuses, expiring rows).
package http
