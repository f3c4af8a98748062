package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads an inventory workbook into a RawTable. Feeds exported
// from spreadsheet tools arrive as .xlsx as often as .csv, so both are
// accepted as equivalent tabular sources.
//
// The sheet holding the inventory data is located by scanning for a header
// row that mentions the product-name column; if no sheet matches, the
// first sheet with any rows is used.
func ParseXLSX(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string

	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil || len(sheetRows) == 0 {
			continue
		}
		if sheetName == "" {
			rows = sheetRows
			sheetName = name
		}
		headerText := strings.ToLower(strings.Join(sheetRows[0], " "))
		if strings.Contains(headerText, "product_name") {
			rows = sheetRows
			sheetName = name
			break
		}
	}

	if sheetName == "" {
		return nil, fmt.Errorf("no sheet with data found in workbook")
	}

	slog.Debug("found inventory data in sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &RawTable{Headers: headers, Rows: rows[1:]}, nil
}
