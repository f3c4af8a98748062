package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// RawTable holds one source table fully in memory: a header row plus data
// rows of string cells. Header cells are whitespace-trimmed at parse time so
// trailing or leading spaces in the source never cause a missing-column
// fault downstream.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the index of the named header, or -1 when the table does
// not carry that column. Lookup is exact after whitespace trimming.
func (t *RawTable) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at (row, col), or "" when the row is too
// short. Ragged rows are routine in hand-maintained feeds and are not an
// error.
func (t *RawTable) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// ParseCSV reads an inventory CSV into a RawTable. The first record is
// treated as the header row. Rows with a varying number of fields are
// accepted; short rows read as empty cells.
func ParseCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return &RawTable{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &RawTable{Headers: headers, Rows: records[1:]}, nil
}
