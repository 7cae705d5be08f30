package stock

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransfer(t *testing.T) {
	tests := []struct {
		name       string
		input      TransferInput
		available  int
		wantValid  bool
		wantErrors map[string]string
	}{
		{
			name: "valid transfer",
			input: TransferInput{
				ProductID:       "p1",
				FromWarehouseID: "W1",
				ToWarehouseID:   "W2",
				Quantity:        "5",
			},
			available:  10,
			wantValid:  true,
			wantErrors: map[string]string{},
		},
		{
			name: "missing product and same warehouse and zero quantity",
			input: TransferInput{
				ProductID:       "",
				FromWarehouseID: "A",
				ToWarehouseID:   "A",
				Quantity:        "0",
			},
			available: 10,
			wantValid: false,
			wantErrors: map[string]string{
				"productId":     "Please select a product",
				"toWarehouseId": "Source and destination warehouses must be different",
				"quantity":      "Enter a valid quantity greater than 0",
			},
		},
		{
			name:      "everything missing",
			input:     TransferInput{},
			available: 0,
			wantValid: false,
			wantErrors: map[string]string{
				"productId":       "Please select a product",
				"fromWarehouseId": "Please select source warehouse",
				// Both warehouse fields are empty, so the equality rule fires
				// and overwrites the missing-destination message.
				"toWarehouseId": "Source and destination warehouses must be different",
				"quantity":      "Enter a valid quantity greater than 0",
			},
		},
		{
			name: "missing destination only",
			input: TransferInput{
				ProductID:       "p1",
				FromWarehouseID: "W1",
				ToWarehouseID:   "",
				Quantity:        "5",
			},
			available: 10,
			wantValid: false,
			wantErrors: map[string]string{
				"toWarehouseId": "Please select destination warehouse",
			},
		},
		{
			name: "quantity exceeds available stock",
			input: TransferInput{
				ProductID:       "p1",
				FromWarehouseID: "W1",
				ToWarehouseID:   "W2",
				Quantity:        "20",
			},
			available: 10,
			wantValid: false,
			wantErrors: map[string]string{
				"quantity": "Insufficient stock. Available: 10",
			},
		},
		{
			name: "quantity equal to available stock is allowed",
			input: TransferInput{
				ProductID:       "p1",
				FromWarehouseID: "W1",
				ToWarehouseID:   "W2",
				Quantity:        "10",
			},
			available:  10,
			wantValid:  true,
			wantErrors: map[string]string{},
		},
		{
			name: "non-numeric quantity",
			input: TransferInput{
				ProductID:       "p1",
				FromWarehouseID: "W1",
				ToWarehouseID:   "W2",
				Quantity:        "abc",
			},
			available: 10,
			wantValid: false,
			wantErrors: map[string]string{
				"quantity": "Enter a valid quantity greater than 0",
			},
		},
		{
			name: "negative quantity",
			input: TransferInput{
				ProductID:       "p1",
				FromWarehouseID: "W1",
				ToWarehouseID:   "W2",
				Quantity:        "-3",
			},
			available: 10,
			wantValid: false,
			wantErrors: map[string]string{
				"quantity": "Enter a valid quantity greater than 0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTransfer(tt.input, tt.available)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantErrors, got.Errors)
		})
	}
}

func TestValidateTransfer_AccumulatesAllErrors(t *testing.T) {
	// All rules run; nothing short-circuits on the first failure
	got := ValidateTransfer(TransferInput{Quantity: "x"}, 0)
	assert.False(t, got.Valid)
	assert.Len(t, got.Errors, 4)
}

func TestNewTransferNumber_Format(t *testing.T) {
	number := NewTransferNumber()
	assert.Regexp(t, regexp.MustCompile(`^ST\d{16}$`), number)
}

func TestNewTransferNumber_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		n := NewTransferNumber()
		_, dup := seen[n]
		require.False(t, dup, "duplicate transfer number %s", n)
		seen[n] = struct{}{}
	}
}
