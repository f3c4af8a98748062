package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invpulse/pkg/contracts/domain"
)

func intPtr(v int) *int { return &v }

func TestByCategory(t *testing.T) {
	records := []domain.InventoryRecord{
		{Category: "Dairy", InventoryValue: 100, SalesVolume: 30, Margin: floatPtr(0.10), SupplierID: "S1"},
		{Category: "Dairy", InventoryValue: 50, SalesVolume: 10, Margin: floatPtr(0.20), SupplierID: "S2"},
		{Category: "Bakery", InventoryValue: 200, SalesVolume: 40, SupplierID: "S1"},
		{Category: "Dairy", InventoryValue: 25, SalesVolume: 20, SupplierID: "S1"},
	}

	got := ByCategory(records)
	require.Len(t, got, 2)

	// Ordered by total inventory value descending.
	assert.Equal(t, "Bakery", got[0].Category)
	assert.InDelta(t, 200.0, got[0].TotalInventoryValue, 1e-9)
	assert.Equal(t, 1, got[0].SupplierCount)
	assert.Equal(t, 0.0, got[0].MeanMargin, "no margins in the group yields 0")

	dairy := got[1]
	assert.Equal(t, "Dairy", dairy.Category)
	assert.InDelta(t, 175.0, dairy.TotalInventoryValue, 1e-9)
	assert.InDelta(t, 20.0, dairy.MeanSalesVolume, 1e-9)
	assert.InDelta(t, 0.15, dairy.MeanMargin, 1e-9, "nil margins excluded from the mean")
	assert.Equal(t, 2, dairy.SupplierCount, "distinct suppliers, not rows")
}

func TestTopProductsByRevenue(t *testing.T) {
	// Fifteen distinct products: the ranking keeps exactly ten, descending.
	var records []domain.InventoryRecord
	for i := 1; i <= 15; i++ {
		records = append(records, domain.InventoryRecord{
			ProductName:  fmt.Sprintf("P%02d", i),
			TotalRevenue: float64(i * 10),
		})
	}

	got := TopProductsByRevenue(records)
	require.Len(t, got, 10)

	assert.Equal(t, "P15", got[0].ProductName)
	assert.InDelta(t, 150.0, got[0].TotalRevenue, 1e-9)
	assert.Equal(t, "P06", got[9].ProductName)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalRevenue, got[i].TotalRevenue)
	}
}

func TestTopProductsByRevenue_StableTies(t *testing.T) {
	records := []domain.InventoryRecord{
		{ProductName: "First", TotalRevenue: 100},
		{ProductName: "Second", TotalRevenue: 100},
		{ProductName: "Third", TotalRevenue: 100},
	}

	got := TopProductsByRevenue(records)
	require.Len(t, got, 3)
	// Ties resolve by original input order.
	assert.Equal(t, "First", got[0].ProductName)
	assert.Equal(t, "Second", got[1].ProductName)
	assert.Equal(t, "Third", got[2].ProductName)
}

func TestTopProductsByRevenue_SumsDuplicateProducts(t *testing.T) {
	records := []domain.InventoryRecord{
		{ProductName: "Milk", TotalRevenue: 40},
		{ProductName: "Bread", TotalRevenue: 50},
		{ProductName: "Milk", TotalRevenue: 30},
	}

	got := TopProductsByRevenue(records)
	require.Len(t, got, 2)
	assert.Equal(t, "Milk", got[0].ProductName)
	assert.InDelta(t, 70.0, got[0].TotalRevenue, 1e-9)
}

func TestByStatus(t *testing.T) {
	records := []domain.InventoryRecord{
		{Status: "In Stock"},
		{Status: "Backordered"},
		{Status: "In Stock"},
		{Status: ""},
	}

	got := ByStatus(records)
	require.Len(t, got, 3)
	assert.Equal(t, domain.StatusCount{Status: "In Stock", Count: 2}, got[0])
	assert.Equal(t, domain.StatusCount{Status: "Backordered", Count: 1}, got[1])
	assert.Equal(t, domain.StatusCount{Status: "Unknown", Count: 1}, got[2])
}

func TestExpiringWithin(t *testing.T) {
	records := []domain.InventoryRecord{
		{ProductName: "Later", DaysToExpire: intPtr(25)},
		{ProductName: "Tomorrow", DaysToExpire: intPtr(1)},
		{ProductName: "Expired", DaysToExpire: intPtr(-3)},
		{ProductName: "No date"},
		{ProductName: "Far out", DaysToExpire: intPtr(90)},
	}

	got := ExpiringWithin(records, 30)
	require.Len(t, got, 3)

	// Ascending by days-to-expire; nil dates excluded.
	assert.Equal(t, "Expired", got[0].ProductName)
	assert.Equal(t, "Tomorrow", got[1].ProductName)
	assert.Equal(t, "Later", got[2].ProductName)
}
