package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestedReorderQuantity(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int
		reorder    int
		configured *int
		want       int
	}{
		{
			name:     "default wins over small shortfall",
			quantity: 10,
			reorder:  50,
			want:     50,
		},
		{
			name:       "shortfall wins over small configured quantity",
			quantity:   10,
			reorder:    100,
			configured: ptrInt(30),
			want:       90,
		},
		{
			name:       "configured quantity wins over shortfall",
			quantity:   40,
			reorder:    50,
			configured: ptrInt(200),
			want:       200,
		},
		{
			name:     "no shortfall falls back to default",
			quantity: 80,
			reorder:  50,
			want:     50,
		},
		{
			name:       "no shortfall falls back to configured",
			quantity:   80,
			reorder:    50,
			configured: ptrInt(25),
			want:       25,
		},
		{
			name:     "shortfall above default",
			quantity: 0,
			reorder:  120,
			want:     120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestedReorderQuantity(tt.quantity, tt.reorder, tt.configured)
			assert.Equal(t, tt.want, got)
		})
	}
}
