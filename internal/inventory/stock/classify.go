// Package stock holds the pure classification and validation rules for the
// inventory lifecycle: low-stock severity banding, batch expiry states,
// reorder suggestions and transfer request validation. Nothing in this
// package touches the database or the network; classifications are computed
// on read and never stored.
package stock

// Severity is the low-stock severity band for a stock level
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityModerate Severity = "MODERATE"
	SeverityNone     Severity = "NONE"
)

// LevelClassification is the result of classifying a stock level
type LevelClassification struct {
	Severity         Severity `json:"severity"`
	PercentOfReorder float64  `json:"percent_of_reorder"`
}

// ClassifyLevel bands a (quantity, reorder level) pair into a low-stock
// severity. A reorder level of 0 disables classification for the record,
// and a quantity at or above the reorder level is adequately stocked.
func ClassifyLevel(quantityInStock, reorderLevel int) LevelClassification {
	if reorderLevel == 0 {
		return LevelClassification{Severity: SeverityNone, PercentOfReorder: 0}
	}

	percent := float64(quantityInStock) / float64(reorderLevel) * 100

	if quantityInStock >= reorderLevel {
		return LevelClassification{Severity: SeverityNone, PercentOfReorder: percent}
	}

	switch {
	case percent <= 30:
		return LevelClassification{Severity: SeverityCritical, PercentOfReorder: percent}
	case percent <= 60:
		return LevelClassification{Severity: SeverityHigh, PercentOfReorder: percent}
	default:
		return LevelClassification{Severity: SeverityModerate, PercentOfReorder: percent}
	}
}

// IsAlert reports whether the classification represents a low-stock alert
func (c LevelClassification) IsAlert() bool {
	return c.Severity != SeverityNone
}
