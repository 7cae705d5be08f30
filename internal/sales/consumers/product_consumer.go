package consumers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/osas/osas-backend/internal/sales/repository"
	"github.com/osas/osas-backend/pkg/logger"
	"github.com/osas/osas-backend/pkg/messaging"
)

// ProductEventConsumer keeps the local product cache in sync with the
// inventory service's catalog
type ProductEventConsumer struct {
	consumer    *messaging.Consumer
	productRepo *repository.ProductCacheRepository
	logger      *logger.Logger
}

// NewProductEventConsumer creates a new product event consumer
func NewProductEventConsumer(rmq *messaging.RabbitMQ, productRepo *repository.ProductCacheRepository, log *logger.Logger) (*ProductEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "sales-service.product-events", log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeInventoryEvents, "inventory.product.#"); err != nil {
		return nil, err
	}

	c := &ProductEventConsumer{
		consumer:    consumer,
		productRepo: productRepo,
		logger:      log,
	}

	consumer.RegisterHandler(messaging.EventProductCreated, c.handleProductCreated)
	consumer.RegisterHandler(messaging.EventProductUpdated, c.handleProductUpdated)
	consumer.RegisterHandler(messaging.EventProductDeleted, c.handleProductDeleted)

	return c, nil
}

// Start starts consuming messages
func (c *ProductEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *ProductEventConsumer) handleProductCreated(ctx context.Context, event *messaging.Event) error {
	var data messaging.ProductCreatedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	price, err := decimal.NewFromString(data.UnitPrice)
	if err != nil {
		c.logger.Warn().Str("product_id", data.ProductID).Str("unit_price", data.UnitPrice).Msg("unparseable unit price, caching as zero")
		price = decimal.Zero
	}

	c.logger.Info().
		Str("product_id", data.ProductID).
		Str("sku", data.SKU).
		Msg("received product created event")

	return c.productRepo.Set(ctx, &repository.CachedProduct{
		ProductID: data.ProductID,
		Name:      data.Name,
		SKU:       data.SKU,
		UnitPrice: price,
	})
}

func (c *ProductEventConsumer) handleProductUpdated(ctx context.Context, event *messaging.Event) error {
	var data messaging.ProductUpdatedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	price, err := decimal.NewFromString(data.UnitPrice)
	if err != nil {
		c.logger.Warn().Str("product_id", data.ProductID).Str("unit_price", data.UnitPrice).Msg("unparseable unit price, caching as zero")
		price = decimal.Zero
	}

	c.logger.Info().
		Str("product_id", data.ProductID).
		Msg("received product updated event")

	return c.productRepo.Set(ctx, &repository.CachedProduct{
		ProductID: data.ProductID,
		Name:      data.Name,
		SKU:       data.SKU,
		UnitPrice: price,
	})
}

func (c *ProductEventConsumer) handleProductDeleted(ctx context.Context, event *messaging.Event) error {
	var data messaging.ProductDeletedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("product_id", data.ProductID).
		Msg("received product deleted event")

	return c.productRepo.Delete(ctx, data.ProductID)
}
