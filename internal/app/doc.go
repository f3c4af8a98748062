// Package app wires the inventory dashboard together: configuration,
// structured logging, Prometheus metrics, the ingestion pipeline service,
// the websocket hub, and the chi HTTP router. The cmd binaries stay thin
// and delegate everything to this package.
package app
