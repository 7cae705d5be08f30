package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// Product events
	EventProductCreated = "inventory.product.created"
	EventProductUpdated = "inventory.product.updated"
	EventProductDeleted = "inventory.product.deleted"

	// Stock events
	EventStockAdjusted = "inventory.stock.adjusted"

	// Transfer events
	EventTransferRequested = "inventory.transfer.requested"
	EventTransferApproved  = "inventory.transfer.approved"
	EventTransferRejected  = "inventory.transfer.rejected"
	EventTransferCompleted = "inventory.transfer.completed"

	// Alert events
	EventAlertGenerated = "inventory.alert.generated"

	// Invoice events
	EventInvoiceCreated = "sales.invoice.created"
	EventInvoiceIssued  = "sales.invoice.issued"
	EventInvoicePaid    = "sales.invoice.paid"

	// Delivery events
	EventDeliveryDispatched = "sales.delivery.dispatched"
	EventDeliveryDelivered  = "sales.delivery.delivered"
)

// Exchange names
const (
	ExchangeInventoryEvents = "inventory.events"
	ExchangeSalesEvents     = "sales.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Product Events

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Category  string `json:"category"`
	UnitPrice string `json:"unit_price"`
}

// ProductUpdatedEvent is published when a product is updated
type ProductUpdatedEvent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	UnitPrice string `json:"unit_price"`
}

// ProductDeletedEvent is published when a product is deleted
type ProductDeletedEvent struct {
	ProductID string `json:"product_id"`
}

// Stock Events

// StockAdjustedEvent is published when a stock level changes
type StockAdjustedEvent struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Adjustment  int    `json:"adjustment"`
	NewQuantity int    `json:"new_quantity"`
	Reason      string `json:"reason"`
}

// Transfer Events

// TransferRequestedEvent is published when a stock transfer is requested
type TransferRequestedEvent struct {
	TransferID      string `json:"transfer_id"`
	TransferNumber  string `json:"transfer_number"`
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int    `json:"quantity"`
	RequestedBy     string `json:"requested_by"`
}

// TransferApprovedEvent is published when a transfer is approved and stock moves
type TransferApprovedEvent struct {
	TransferID      string `json:"transfer_id"`
	TransferNumber  string `json:"transfer_number"`
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int    `json:"quantity"`
	ApprovedBy      string `json:"approved_by"`
}

// TransferRejectedEvent is published when a transfer is rejected
type TransferRejectedEvent struct {
	TransferID     string `json:"transfer_id"`
	TransferNumber string `json:"transfer_number"`
	RejectedBy     string `json:"rejected_by"`
	Reason         string `json:"reason,omitempty"`
}

// TransferCompletedEvent is published when a transfer is marked completed
type TransferCompletedEvent struct {
	TransferID     string `json:"transfer_id"`
	TransferNumber string `json:"transfer_number"`
}

// Alert Events

// AlertGeneratedEvent is published when an alert is generated
type AlertGeneratedEvent struct {
	AlertID     string `json:"alert_id"`
	AlertType   string `json:"alert_type"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	ProductID   string `json:"product_id,omitempty"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	BatchID     string `json:"batch_id,omitempty"`
}

// Invoice Events

// InvoiceCreatedEvent is published when an invoice is created
type InvoiceCreatedEvent struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	RetailerID    string `json:"retailer_id"`
	Total         string `json:"total"`
}

// InvoiceIssuedEvent is published when an invoice is issued
type InvoiceIssuedEvent struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	RetailerID    string `json:"retailer_id"`
	Total         string `json:"total"`
}

// InvoicePaidEvent is published when an invoice is paid
type InvoicePaidEvent struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	RetailerID    string `json:"retailer_id"`
	Total         string `json:"total"`
}

// Delivery Events

// DeliveryDispatchedEvent is published when a delivery leaves the warehouse
type DeliveryDispatchedEvent struct {
	DeliveryID string `json:"delivery_id"`
	InvoiceID  string `json:"invoice_id"`
	DriverName string `json:"driver_name"`
	Vehicle    string `json:"vehicle,omitempty"`
}

// DeliveryDeliveredEvent is published when a delivery is confirmed delivered
type DeliveryDeliveredEvent struct {
	DeliveryID  string    `json:"delivery_id"`
	InvoiceID   string    `json:"invoice_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}
