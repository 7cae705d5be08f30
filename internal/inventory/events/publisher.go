package events

import (
	"context"

	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/pkg/logger"
	"github.com/osas/osas-backend/pkg/messaging"
)

// InventoryEventPublisher publishes inventory-related events
type InventoryEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a new inventory event publisher
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*InventoryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "inventory-service", log)
	if err != nil {
		return nil, err
	}

	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PublishProductCreated publishes a product created event
func (p *InventoryEventPublisher) PublishProductCreated(ctx context.Context, product *repository.Product) {
	if p == nil {
		return
	}

	data := messaging.ProductCreatedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		Category:  deref(product.Category),
		UnitPrice: product.UnitPrice.String(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventProductCreated, data); err != nil {
		p.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to publish product created event")
	}
}

// PublishProductUpdated publishes a product updated event
func (p *InventoryEventPublisher) PublishProductUpdated(ctx context.Context, product *repository.Product) {
	if p == nil {
		return
	}

	data := messaging.ProductUpdatedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		UnitPrice: product.UnitPrice.String(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventProductUpdated, data); err != nil {
		p.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to publish product updated event")
	}
}

// PublishProductDeleted publishes a product deleted event
func (p *InventoryEventPublisher) PublishProductDeleted(ctx context.Context, productID string) {
	if p == nil {
		return
	}

	data := messaging.ProductDeletedEvent{ProductID: productID}

	if err := p.publisher.Publish(ctx, messaging.EventProductDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("product_id", productID).Msg("failed to publish product deleted event")
	}
}

// PublishStockAdjusted publishes a stock adjusted event
func (p *InventoryEventPublisher) PublishStockAdjusted(ctx context.Context, productID, warehouseID string, adjustment, newQuantity int, reason string) {
	if p == nil {
		return
	}

	data := messaging.StockAdjustedEvent{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Adjustment:  adjustment,
		NewQuantity: newQuantity,
		Reason:      reason,
	}

	if err := p.publisher.Publish(ctx, messaging.EventStockAdjusted, data); err != nil {
		p.logger.Error().Err(err).Str("product_id", productID).Msg("failed to publish stock adjusted event")
	}
}

// PublishTransferRequested publishes a transfer requested event
func (p *InventoryEventPublisher) PublishTransferRequested(ctx context.Context, transfer *repository.StockTransfer) {
	if p == nil {
		return
	}

	data := messaging.TransferRequestedEvent{
		TransferID:      transfer.ID,
		TransferNumber:  transfer.TransferNumber,
		ProductID:       transfer.ProductID,
		FromWarehouseID: transfer.FromWarehouseID,
		ToWarehouseID:   transfer.ToWarehouseID,
		Quantity:        transfer.Quantity,
		RequestedBy:     deref(transfer.RequestedBy),
	}

	if err := p.publisher.Publish(ctx, messaging.EventTransferRequested, data); err != nil {
		p.logger.Error().Err(err).Str("transfer_id", transfer.ID).Msg("failed to publish transfer requested event")
	}
}

// PublishTransferApproved publishes a transfer approved event
func (p *InventoryEventPublisher) PublishTransferApproved(ctx context.Context, transfer *repository.StockTransfer) {
	if p == nil {
		return
	}

	data := messaging.TransferApprovedEvent{
		TransferID:      transfer.ID,
		TransferNumber:  transfer.TransferNumber,
		ProductID:       transfer.ProductID,
		FromWarehouseID: transfer.FromWarehouseID,
		ToWarehouseID:   transfer.ToWarehouseID,
		Quantity:        transfer.Quantity,
		ApprovedBy:      deref(transfer.ApprovedBy),
	}

	if err := p.publisher.Publish(ctx, messaging.EventTransferApproved, data); err != nil {
		p.logger.Error().Err(err).Str("transfer_id", transfer.ID).Msg("failed to publish transfer approved event")
	}
}

// PublishTransferRejected publishes a transfer rejected event
func (p *InventoryEventPublisher) PublishTransferRejected(ctx context.Context, transfer *repository.StockTransfer) {
	if p == nil {
		return
	}

	data := messaging.TransferRejectedEvent{
		TransferID:     transfer.ID,
		TransferNumber: transfer.TransferNumber,
		RejectedBy:     deref(transfer.ApprovedBy),
		Reason:         deref(transfer.RejectionReason),
	}

	if err := p.publisher.Publish(ctx, messaging.EventTransferRejected, data); err != nil {
		p.logger.Error().Err(err).Str("transfer_id", transfer.ID).Msg("failed to publish transfer rejected event")
	}
}

// PublishTransferCompleted publishes a transfer completed event
func (p *InventoryEventPublisher) PublishTransferCompleted(ctx context.Context, transfer *repository.StockTransfer) {
	if p == nil {
		return
	}

	data := messaging.TransferCompletedEvent{
		TransferID:     transfer.ID,
		TransferNumber: transfer.TransferNumber,
	}

	if err := p.publisher.Publish(ctx, messaging.EventTransferCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("transfer_id", transfer.ID).Msg("failed to publish transfer completed event")
	}
}

// PublishAlertGenerated publishes an alert generated event
func (p *InventoryEventPublisher) PublishAlertGenerated(ctx context.Context, alert *repository.Alert) {
	if p == nil {
		return
	}

	data := messaging.AlertGeneratedEvent{
		AlertID:     alert.ID,
		AlertType:   alert.AlertType,
		Severity:    alert.Severity,
		Message:     alert.Message,
		ProductID:   alert.ProductID,
		WarehouseID: deref(alert.WarehouseID),
		BatchID:     deref(alert.BatchID),
	}

	if err := p.publisher.Publish(ctx, messaging.EventAlertGenerated, data); err != nil {
		p.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("failed to publish alert generated event")
	}
}
