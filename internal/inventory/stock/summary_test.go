package stock

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeLevels(t *testing.T) {
	price := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	records := []LevelRecord{
		// critical in W1
		{ProductID: "p1", WarehouseID: "W1", Quantity: 5, ReorderLevel: 50, UnitPrice: price("10.00")},
		// high in W1 (same warehouse counted once)
		{ProductID: "p2", WarehouseID: "W1", Quantity: 20, ReorderLevel: 50, UnitPrice: price("2.50")},
		// moderate in W2
		{ProductID: "p3", WarehouseID: "W2", Quantity: 40, ReorderLevel: 50, UnitPrice: nil},
		// adequately stocked, contributes value but no alert
		{ProductID: "p4", WarehouseID: "W3", Quantity: 100, ReorderLevel: 50, UnitPrice: price("1.00")},
		// reorder level 0, never alerts
		{ProductID: "p5", WarehouseID: "W4", Quantity: 0, ReorderLevel: 0, UnitPrice: price("99.99")},
	}

	got := SummarizeLevels(records)

	assert.Equal(t, 3, got.TotalAlerts)
	assert.Equal(t, 1, got.CriticalAlerts)
	assert.Equal(t, 2, got.WarehousesAffected)
	// 5*10 + 20*2.50 + 0 (missing price) + 100*1 + 0*99.99
	assert.True(t, decimal.RequireFromString("200.00").Equal(got.TotalStockValue),
		"total stock value = %s", got.TotalStockValue)
}

func TestSummarizeLevels_Empty(t *testing.T) {
	got := SummarizeLevels(nil)
	assert.Equal(t, 0, got.TotalAlerts)
	assert.Equal(t, 0, got.CriticalAlerts)
	assert.Equal(t, 0, got.WarehousesAffected)
	assert.True(t, got.TotalStockValue.IsZero())
}

func TestSummarizeBatches(t *testing.T) {
	today := date(2025, time.June, 15)

	records := []BatchRecord{
		{Quantity: 100, ExpiryDate: ptrTime(date(2025, time.May, 1))},   // expired
		{Quantity: 50, ExpiryDate: ptrTime(date(2025, time.June, 20))},  // expiring soon
		{Quantity: 30, ExpiryDate: ptrTime(date(2025, time.July, 15))},  // expiring soon (day 30)
		{Quantity: 200, ExpiryDate: ptrTime(date(2026, time.March, 1))}, // active
		{Quantity: 10, ExpiryDate: nil},                                 // no expiry
	}

	got := SummarizeBatches(records, today)

	assert.Equal(t, 5, got.TotalBatches)
	assert.Equal(t, 390, got.TotalQuantity)
	assert.Equal(t, 1, got.ExpiredBatches)
	assert.Equal(t, 2, got.ExpiringBatches)
}
