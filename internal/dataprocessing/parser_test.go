package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantHeaders []string
		wantRows    int
		wantErr     bool
	}{
		{
			name:        "basic table",
			input:       "Product_Name,Unit_Price\nMilk,$2.00\nBread,$1.50\n",
			wantHeaders: []string{"Product_Name", "Unit_Price"},
			wantRows:    2,
		},
		{
			name:        "headers trimmed",
			input:       " Product_Name , Unit_Price \nMilk,$2.00\n",
			wantHeaders: []string{"Product_Name", "Unit_Price"},
			wantRows:    1,
		},
		{
			name:        "ragged rows accepted",
			input:       "Product_Name,Unit_Price,Status\nMilk,$2.00\nBread,$1.50,In Stock,extra\n",
			wantHeaders: []string{"Product_Name", "Unit_Price", "Status"},
			wantRows:    2,
		},
		{
			name:        "header only",
			input:       "Product_Name,Unit_Price\n",
			wantHeaders: []string{"Product_Name", "Unit_Price"},
			wantRows:    0,
		},
		{
			name:     "empty input",
			input:    "",
			wantRows: 0,
		},
		{
			name:    "broken quoting",
			input:   "Product_Name\n\"unterminated\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeaders, raw.Headers)
			assert.Equal(t, tt.wantRows, raw.Len())
		})
	}
}

func TestRawTable_Cell(t *testing.T) {
	raw, err := ParseCSV(strings.NewReader("A,B\nx, y \nshort\n"))
	require.NoError(t, err)

	assert.Equal(t, "x", raw.Cell(0, 0))
	assert.Equal(t, "y", raw.Cell(0, 1), "cells are trimmed")
	assert.Equal(t, "", raw.Cell(1, 1), "short rows read as empty cells")
	assert.Equal(t, "", raw.Cell(0, -1))
}

func TestRawTable_Column(t *testing.T) {
	raw, err := ParseCSV(strings.NewReader("Product_Name,Unit_Price\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, raw.Column("Product_Name"))
	assert.Equal(t, 1, raw.Column("Unit_Price"))
	assert.Equal(t, -1, raw.Column("Nope"))
}
