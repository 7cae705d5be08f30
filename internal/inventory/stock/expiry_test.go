package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassifyBatch(t *testing.T) {
	today := date(2025, time.June, 15)

	tests := []struct {
		name       string
		expiryDate *time.Time
		wantStatus BatchStatus
		wantDays   *int
	}{
		{
			name:       "no expiry date",
			expiryDate: nil,
			wantStatus: BatchNoExpiry,
			wantDays:   nil,
		},
		{
			name:       "expired yesterday",
			expiryDate: ptrTime(date(2025, time.June, 14)),
			wantStatus: BatchExpired,
			wantDays:   ptrInt(-1),
		},
		{
			name:       "expired long ago",
			expiryDate: ptrTime(date(2025, time.January, 1)),
			wantStatus: BatchExpired,
			wantDays:   ptrInt(-165),
		},
		{
			name:       "expires today",
			expiryDate: ptrTime(date(2025, time.June, 15)),
			wantStatus: BatchExpiringSoon,
			wantDays:   ptrInt(0),
		},
		{
			name:       "expires in 30 days is still expiring soon",
			expiryDate: ptrTime(date(2025, time.July, 15)),
			wantStatus: BatchExpiringSoon,
			wantDays:   ptrInt(30),
		},
		{
			name:       "expires in 31 days is active",
			expiryDate: ptrTime(date(2025, time.July, 16)),
			wantStatus: BatchActive,
			wantDays:   ptrInt(31),
		},
		{
			name:       "expires next year",
			expiryDate: ptrTime(date(2026, time.June, 15)),
			wantStatus: BatchActive,
			wantDays:   ptrInt(365),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyBatch(tt.expiryDate, today)
			assert.Equal(t, tt.wantStatus, got.Status)

			if tt.wantDays == nil {
				assert.Nil(t, got.DaysUntilExpiry)
			} else {
				require.NotNil(t, got.DaysUntilExpiry)
				assert.Equal(t, *tt.wantDays, *got.DaysUntilExpiry)
			}
		})
	}
}

func TestClassifyBatch_IgnoresTimeOfDay(t *testing.T) {
	// 23:59 today vs 00:01 on the expiry date must not shift the day count
	today := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)
	expiry := time.Date(2025, time.June, 16, 0, 1, 0, 0, time.UTC)

	got := ClassifyBatch(&expiry, today)
	require.NotNil(t, got.DaysUntilExpiry)
	assert.Equal(t, 1, *got.DaysUntilExpiry)
	assert.Equal(t, BatchExpiringSoon, got.Status)
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrInt(i int) *int              { return &i }
