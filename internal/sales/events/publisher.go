package events

import (
	"context"

	"github.com/osas/osas-backend/internal/sales/repository"
	"github.com/osas/osas-backend/pkg/logger"
	"github.com/osas/osas-backend/pkg/messaging"
)

// SalesEventPublisher publishes sales-related events
type SalesEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewSalesEventPublisher creates a new sales event publisher
func NewSalesEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*SalesEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeSalesEvents, "sales-service", log)
	if err != nil {
		return nil, err
	}

	return &SalesEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishInvoiceCreated publishes an invoice created event
func (p *SalesEventPublisher) PublishInvoiceCreated(ctx context.Context, invoice *repository.Invoice) {
	if p == nil {
		return
	}

	data := messaging.InvoiceCreatedEvent{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		RetailerID:    invoice.RetailerID,
		Total:         invoice.Total.String(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventInvoiceCreated, data); err != nil {
		p.logger.Error().Err(err).Str("invoice_id", invoice.ID).Msg("failed to publish invoice created event")
	}
}

// PublishInvoiceIssued publishes an invoice issued event
func (p *SalesEventPublisher) PublishInvoiceIssued(ctx context.Context, invoice *repository.Invoice) {
	if p == nil {
		return
	}

	data := messaging.InvoiceIssuedEvent{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		RetailerID:    invoice.RetailerID,
		Total:         invoice.Total.String(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventInvoiceIssued, data); err != nil {
		p.logger.Error().Err(err).Str("invoice_id", invoice.ID).Msg("failed to publish invoice issued event")
	}
}

// PublishInvoicePaid publishes an invoice paid event
func (p *SalesEventPublisher) PublishInvoicePaid(ctx context.Context, invoice *repository.Invoice) {
	if p == nil {
		return
	}

	data := messaging.InvoicePaidEvent{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		RetailerID:    invoice.RetailerID,
		Total:         invoice.Total.String(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventInvoicePaid, data); err != nil {
		p.logger.Error().Err(err).Str("invoice_id", invoice.ID).Msg("failed to publish invoice paid event")
	}
}

// PublishDeliveryDispatched publishes a delivery dispatched event
func (p *SalesEventPublisher) PublishDeliveryDispatched(ctx context.Context, delivery *repository.Delivery) {
	if p == nil {
		return
	}

	driver := ""
	if delivery.DriverName != nil {
		driver = *delivery.DriverName
	}
	vehicle := ""
	if delivery.Vehicle != nil {
		vehicle = *delivery.Vehicle
	}

	data := messaging.DeliveryDispatchedEvent{
		DeliveryID: delivery.ID,
		InvoiceID:  delivery.InvoiceID,
		DriverName: driver,
		Vehicle:    vehicle,
	}

	if err := p.publisher.Publish(ctx, messaging.EventDeliveryDispatched, data); err != nil {
		p.logger.Error().Err(err).Str("delivery_id", delivery.ID).Msg("failed to publish delivery dispatched event")
	}
}

// PublishDeliveryDelivered publishes a delivery delivered event
func (p *SalesEventPublisher) PublishDeliveryDelivered(ctx context.Context, delivery *repository.Delivery) {
	if p == nil {
		return
	}

	data := messaging.DeliveryDeliveredEvent{
		DeliveryID: delivery.ID,
		InvoiceID:  delivery.InvoiceID,
	}
	if delivery.DeliveredAt != nil {
		data.DeliveredAt = *delivery.DeliveredAt
	}

	if err := p.publisher.Publish(ctx, messaging.EventDeliveryDelivered, data); err != nil {
		p.logger.Error().Err(err).Str("delivery_id", delivery.ID).Msg("failed to publish delivery delivered event")
	}
}
