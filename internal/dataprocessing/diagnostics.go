package dataprocessing

// FieldStatus tags the outcome of normalizing one source column.
type FieldStatus string

const (
	// FieldOK means every cell in the column normalized cleanly.
	FieldOK FieldStatus = "ok"
	// FieldDefaulted means the column was missing or some of its cells
	// could not be parsed, and a documented default was substituted.
	FieldDefaulted FieldStatus = "defaulted"
)

// Diagnostic describes the outcome of normalizing one column. The pipeline
// never aborts for a recoverable field problem; it records one of these
// instead so the caller can surface a non-fatal notice to the end user.
type Diagnostic struct {
	Column       string      `json:"column"`
	Status       FieldStatus `json:"status"`
	Reason       string      `json:"reason,omitempty"`
	AffectedRows int         `json:"affected_rows,omitempty"`
}

// Diagnostics is the ordered list of per-column outcomes for one pipeline
// run.
type Diagnostics []Diagnostic

// Warnings returns only the diagnostics where a default was applied.
func (d Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Status == FieldDefaulted {
			out = append(out, diag)
		}
	}
	return out
}

// ok records a clean column outcome.
func (d *Diagnostics) ok(column string) {
	*d = append(*d, Diagnostic{Column: column, Status: FieldOK})
}

// defaulted records a fallback outcome for a column.
func (d *Diagnostics) defaulted(column, reason string, affected int) {
	*d = append(*d, Diagnostic{
		Column:       column,
		Status:       FieldDefaulted,
		Reason:       reason,
		AffectedRows: affected,
	})
}
