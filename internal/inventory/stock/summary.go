package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// LevelRecord is the slice of a stock level needed for aggregation
type LevelRecord struct {
	ProductID    string
	WarehouseID  string
	Quantity     int
	ReorderLevel int
	UnitPrice    *decimal.Decimal
}

// BatchRecord is the slice of a batch needed for aggregation
type BatchRecord struct {
	Quantity   int
	ExpiryDate *time.Time
}

// LevelSummary rolls up per-record classifications for dashboard cards
type LevelSummary struct {
	TotalAlerts        int             `json:"total_alerts"`
	CriticalAlerts     int             `json:"critical_alerts"`
	TotalStockValue    decimal.Decimal `json:"total_stock_value"`
	WarehousesAffected int             `json:"warehouses_affected"`
}

// BatchSummary rolls up per-batch classifications for dashboard cards
type BatchSummary struct {
	TotalBatches    int `json:"total_batches"`
	TotalQuantity   int `json:"total_quantity"`
	ExpiredBatches  int `json:"expired_batches"`
	ExpiringBatches int `json:"expiring_batches"`
}

// SummarizeLevels aggregates stock level records in a single pass. A missing
// unit price counts as zero toward the total stock value.
func SummarizeLevels(records []LevelRecord) LevelSummary {
	summary := LevelSummary{TotalStockValue: decimal.Zero}
	affected := make(map[string]struct{})

	for _, r := range records {
		if r.UnitPrice != nil {
			value := r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
			summary.TotalStockValue = summary.TotalStockValue.Add(value)
		}

		c := ClassifyLevel(r.Quantity, r.ReorderLevel)
		if !c.IsAlert() {
			continue
		}

		summary.TotalAlerts++
		if c.Severity == SeverityCritical {
			summary.CriticalAlerts++
		}
		affected[r.WarehouseID] = struct{}{}
	}

	summary.WarehousesAffected = len(affected)
	return summary
}

// SummarizeBatches aggregates batch records in a single pass
func SummarizeBatches(records []BatchRecord, today time.Time) BatchSummary {
	var summary BatchSummary

	for _, r := range records {
		summary.TotalBatches++
		summary.TotalQuantity += r.Quantity

		switch ClassifyBatch(r.ExpiryDate, today).Status {
		case BatchExpired:
			summary.ExpiredBatches++
		case BatchExpiringSoon:
			summary.ExpiringBatches++
		}
	}

	return summary
}
