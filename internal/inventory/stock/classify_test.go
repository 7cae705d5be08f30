package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyLevel(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		reorderLevel int
		wantSeverity Severity
		wantPercent  float64
	}{
		{
			name:         "zero reorder level disables classification",
			quantity:     0,
			reorderLevel: 0,
			wantSeverity: SeverityNone,
			wantPercent:  0,
		},
		{
			name:         "zero reorder level with stock",
			quantity:     500,
			reorderLevel: 0,
			wantSeverity: SeverityNone,
			wantPercent:  0,
		},
		{
			name:         "quantity equals reorder level",
			quantity:     50,
			reorderLevel: 50,
			wantSeverity: SeverityNone,
			wantPercent:  100,
		},
		{
			name:         "quantity above reorder level",
			quantity:     80,
			reorderLevel: 50,
			wantSeverity: SeverityNone,
			wantPercent:  160,
		},
		{
			name:         "empty stock is critical",
			quantity:     0,
			reorderLevel: 50,
			wantSeverity: SeverityCritical,
			wantPercent:  0,
		},
		{
			name:         "exactly 30 percent is critical",
			quantity:     30,
			reorderLevel: 100,
			wantSeverity: SeverityCritical,
			wantPercent:  30,
		},
		{
			name:         "just above 30 percent is high",
			quantity:     31,
			reorderLevel: 100,
			wantSeverity: SeverityHigh,
			wantPercent:  31,
		},
		{
			name:         "exactly 60 percent is high",
			quantity:     60,
			reorderLevel: 100,
			wantSeverity: SeverityHigh,
			wantPercent:  60,
		},
		{
			name:         "just above 60 percent is moderate",
			quantity:     61,
			reorderLevel: 100,
			wantSeverity: SeverityModerate,
			wantPercent:  61,
		},
		{
			name:         "just below reorder level is moderate",
			quantity:     99,
			reorderLevel: 100,
			wantSeverity: SeverityModerate,
			wantPercent:  99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyLevel(tt.quantity, tt.reorderLevel)
			assert.Equal(t, tt.wantSeverity, got.Severity)
			assert.InDelta(t, tt.wantPercent, got.PercentOfReorder, 0.0001)
		})
	}
}

func TestLevelClassification_IsAlert(t *testing.T) {
	assert.False(t, ClassifyLevel(100, 50).IsAlert())
	assert.True(t, ClassifyLevel(10, 50).IsAlert())
	assert.False(t, ClassifyLevel(0, 0).IsAlert())
}
