package stock

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Transfer statuses
const (
	TransferPending   = "pending"
	TransferApproved  = "approved"
	TransferRejected  = "rejected"
	TransferCompleted = "completed"
)

// TransferInput is a proposed inter-warehouse transfer as submitted by the
// user. Quantity arrives as a string because it comes from a form field.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        string
}

// ValidationResult accumulates field-level validation errors
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// ValidateTransfer checks a proposed transfer against the selected endpoints
// and the available stock at the source. All rules run independently and
// their messages accumulate; nothing short-circuits. The same-warehouse
// check overwrites the missing-destination message on the same field.
func ValidateTransfer(input TransferInput, availableStockAtSource int) ValidationResult {
	errs := make(map[string]string)

	if strings.TrimSpace(input.ProductID) == "" {
		errs["productId"] = "Please select a product"
	}

	if strings.TrimSpace(input.FromWarehouseID) == "" {
		errs["fromWarehouseId"] = "Please select source warehouse"
	}

	if strings.TrimSpace(input.ToWarehouseID) == "" {
		errs["toWarehouseId"] = "Please select destination warehouse"
	}
	if input.ToWarehouseID == input.FromWarehouseID {
		errs["toWarehouseId"] = "Source and destination warehouses must be different"
	}

	qty, err := strconv.Atoi(strings.TrimSpace(input.Quantity))
	if err != nil || qty <= 0 {
		errs["quantity"] = "Enter a valid quantity greater than 0"
	} else if qty > availableStockAtSource {
		errs["quantity"] = fmt.Sprintf("Insufficient stock. Available: %d", availableStockAtSource)
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// NewTransferNumber generates a user-visible transfer number in the form
// "ST" + epoch millis + 3-digit zero-padded random suffix, e.g.
// ST1713456789000042.
func NewTransferNumber() string {
	return fmt.Sprintf("ST%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}
