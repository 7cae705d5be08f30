package stock

import "time"

// BatchStatus is the expiry lifecycle state of a batch
type BatchStatus string

const (
	BatchNoExpiry     BatchStatus = "NO_EXPIRY"
	BatchExpired      BatchStatus = "EXPIRED"
	BatchExpiringSoon BatchStatus = "EXPIRING_SOON"
	BatchActive       BatchStatus = "ACTIVE"
)

// ExpiringSoonWindowDays is the inclusive window in which a batch counts as
// expiring soon. Day 0 (expires today) and day 30 are both inside it.
const ExpiringSoonWindowDays = 30

// BatchClassification is the result of classifying a batch's expiry date
type BatchClassification struct {
	Status          BatchStatus `json:"status"`
	DaysUntilExpiry *int        `json:"days_until_expiry"`
}

// ClassifyBatch turns an expiry date into a lifecycle state and a
// days-remaining count. Comparisons use date-only granularity; the
// time-of-day on either argument is ignored.
func ClassifyBatch(expiryDate *time.Time, today time.Time) BatchClassification {
	if expiryDate == nil {
		return BatchClassification{Status: BatchNoExpiry, DaysUntilExpiry: nil}
	}

	days := daysBetween(truncateToDate(today), truncateToDate(*expiryDate))

	var status BatchStatus
	switch {
	case days < 0:
		status = BatchExpired
	case days <= ExpiringSoonWindowDays:
		status = BatchExpiringSoon
	default:
		status = BatchActive
	}

	return BatchClassification{Status: status, DaysUntilExpiry: &days}
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
