package exporter

import (
	"fmt"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal
// places, so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatFraction formats a fraction (e.g. a margin) with 4 decimal places.
func formatFraction(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// formatInt formats an integer value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatDays formats an optional days-to-expire value; nil exports empty.
func formatDays(d *int) string {
	if d == nil {
		return ""
	}
	return formatInt(*d)
}
