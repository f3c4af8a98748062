package services

import "errors"

// Sentinel errors returned by the dashboard service. The HTTP layer maps
// these onto API error responses.
var (
	// ErrNoSnapshot means no pipeline run has produced data yet, or the
	// last run found an empty or missing source.
	ErrNoSnapshot = errors.New("no inventory snapshot loaded")
)
