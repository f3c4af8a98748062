// Package dataprocessing provides the ingestion and normalization pipeline
// for grocery inventory feeds. It handles the complete journey from raw
// tabular input to a normalized, analysis-ready snapshot.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Parser: Reads CSV or Excel sources into a RawTable
// 2. Normalizer: Repairs headers, coerces currency/percentage/date cells,
// and computes derived per-row columns
// 3. Diagnostics: Tagged per-column results describing every fallback the
// normalizer applied
//
// # Usage
//
// Basic pipeline example:
//
//	raw, err := dataprocessing.ParseCSV(file)
//	if err != nil {
//	    return err
//	}
//	snap, diags := dataprocessing.Normalize(raw, time.Now())
//	for _, d := range diags.Warnings() {
//	    logger.Warn("column fell back to default", "column", d.Column, "reason", d.Reason)
//	}
//
// # Purity
//
// Normalize is a pure function of (table, reference date). The reference
// "today" is always injected by the caller and captured once per run, so
// repeated aggregation over the same snapshot is deterministic and two runs
// over identical bytes produce field-for-field identical snapshots.
//
// # Error Handling
//
// Only an unreadable source is fatal, and even that is the caller's call:
// the parser returns the error, the normalizer never does. Every per-field
// problem (missing column, unparsable cell) is absorbed into a documented
// default plus a Diagnostic; no row is ever dropped for a bad cell.
package dataprocessing
