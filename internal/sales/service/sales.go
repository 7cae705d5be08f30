package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osas/osas-backend/internal/sales/events"
	"github.com/osas/osas-backend/internal/sales/repository"
	"github.com/osas/osas-backend/pkg/errors"
	"github.com/osas/osas-backend/pkg/logger"
)

// SalesService handles retailer, invoice and delivery business logic
type SalesService struct {
	retailerRepo *repository.RetailerRepository
	productRepo  *repository.ProductCacheRepository
	invoiceRepo  *repository.InvoiceRepository
	deliveryRepo *repository.DeliveryRepository
	publisher    *events.SalesEventPublisher
	logger       *logger.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(
	retailerRepo *repository.RetailerRepository,
	productRepo *repository.ProductCacheRepository,
	invoiceRepo *repository.InvoiceRepository,
	deliveryRepo *repository.DeliveryRepository,
	publisher *events.SalesEventPublisher,
	log *logger.Logger,
) *SalesService {
	return &SalesService{
		retailerRepo: retailerRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		deliveryRepo: deliveryRepo,
		publisher:    publisher,
		logger:       log,
	}
}

// NewInvoiceNumber generates a user-visible invoice number in the form
// "INV" + epoch millis + 3-digit zero-padded random suffix.
func NewInvoiceNumber() string {
	return fmt.Sprintf("INV%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// LineInput is a requested invoice line: a product and a quantity. Pricing
// comes from the product cache, never from the caller.
type LineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Retailer operations

// CreateRetailer creates a new retailer
func (s *SalesService) CreateRetailer(ctx context.Context, retailer *repository.Retailer) error {
	return s.retailerRepo.Create(ctx, retailer)
}

// GetRetailer gets a retailer by ID
func (s *SalesService) GetRetailer(ctx context.Context, id string) (*repository.Retailer, error) {
	return s.retailerRepo.GetByID(ctx, id)
}

// ListRetailers lists retailers with pagination
func (s *SalesService) ListRetailers(ctx context.Context, page, perPage int) ([]repository.Retailer, int64, error) {
	return s.retailerRepo.List(ctx, page, perPage)
}

// UpdateRetailer updates a retailer
func (s *SalesService) UpdateRetailer(ctx context.Context, retailer *repository.Retailer) error {
	return s.retailerRepo.Update(ctx, retailer)
}

// DeleteRetailer soft-deletes a retailer
func (s *SalesService) DeleteRetailer(ctx context.Context, id string) error {
	return s.retailerRepo.Delete(ctx, id)
}

// ListProducts lists the locally cached product catalog
func (s *SalesService) ListProducts(ctx context.Context) ([]repository.CachedProduct, error) {
	return s.productRepo.List(ctx)
}

// Invoice operations

// CreateInvoice prices the requested lines against the product cache and
// records a draft invoice. All money math uses exact decimals; the tax rate
// is a percentage applied to the subtotal.
func (s *SalesService) CreateInvoice(ctx context.Context, retailerID string, taxRate decimal.Decimal, notes *string, lines []LineInput) (*repository.Invoice, error) {
	retailer, err := s.retailerRepo.GetByID(ctx, retailerID)
	if err != nil {
		return nil, err
	}
	if !retailer.IsActive {
		return nil, errors.Conflict("retailer is inactive")
	}

	if len(lines) == 0 {
		return nil, errors.Validation(map[string]string{"lines": "An invoice needs at least one line"})
	}
	if taxRate.IsNegative() {
		return nil, errors.Validation(map[string]string{"taxRate": "Tax rate cannot be negative"})
	}

	invoice := &repository.Invoice{
		InvoiceNumber: NewInvoiceNumber(),
		RetailerID:    retailerID,
		Status:        repository.InvoiceDraft,
		TaxRate:       taxRate,
		Notes:         notes,
	}

	subtotal := decimal.Zero
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, errors.Validation(map[string]string{
				"lines[" + strconv.Itoa(i) + "].quantity": "Enter a valid quantity greater than 0",
			})
		}

		product, err := s.productRepo.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		lineTotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		invoice.Lines = append(invoice.Lines, repository.InvoiceLine{
			ProductID:   product.ProductID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.UnitPrice,
			LineTotal:   lineTotal,
		})
	}

	invoice.Subtotal = subtotal
	invoice.TaxAmount = subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	invoice.Total = subtotal.Add(invoice.TaxAmount)

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.publisher.PublishInvoiceCreated(ctx, invoice)

	return invoice, nil
}

// GetInvoice gets an invoice with its lines
func (s *SalesService) GetInvoice(ctx context.Context, id string) (*repository.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

// ListInvoices lists invoices with pagination
func (s *SalesService) ListInvoices(ctx context.Context, page, perPage int, status, retailerID string) ([]repository.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, page, perPage, status, retailerID)
}

// IssueInvoice moves a draft invoice to issued
func (s *SalesService) IssueInvoice(ctx context.Context, id string) (*repository.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != repository.InvoiceDraft {
		return nil, errors.Conflict("only draft invoices can be issued")
	}

	if err := s.invoiceRepo.MarkIssued(ctx, id); err != nil {
		return nil, err
	}

	invoice.Status = repository.InvoiceIssued
	s.publisher.PublishInvoiceIssued(ctx, invoice)

	return invoice, nil
}

// PayInvoice moves an issued invoice to paid
func (s *SalesService) PayInvoice(ctx context.Context, id string) (*repository.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != repository.InvoiceIssued {
		return nil, errors.Conflict("only issued invoices can be paid")
	}

	if err := s.invoiceRepo.MarkPaid(ctx, id); err != nil {
		return nil, err
	}

	invoice.Status = repository.InvoicePaid
	s.publisher.PublishInvoicePaid(ctx, invoice)

	return invoice, nil
}

// CancelInvoice cancels a draft or issued invoice. Paid invoices cannot be
// cancelled.
func (s *SalesService) CancelInvoice(ctx context.Context, id string) (*repository.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != repository.InvoiceDraft && invoice.Status != repository.InvoiceIssued {
		return nil, errors.Conflict("only draft or issued invoices can be cancelled")
	}

	if err := s.invoiceRepo.MarkCancelled(ctx, id); err != nil {
		return nil, err
	}

	invoice.Status = repository.InvoiceCancelled
	return invoice, nil
}

// DashboardStats is the sales dashboard snapshot
type DashboardStats struct {
	InvoicesByStatus    map[string]int64 `json:"invoices_by_status"`
	OutstandingTotal    decimal.Decimal  `json:"outstanding_total"`
	DeliveriesInTransit int64            `json:"deliveries_in_transit"`
}

// GetDashboardStats returns invoice counts by status, the outstanding
// (issued, unpaid) total, and the number of deliveries on the road.
func (s *SalesService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.invoiceRepo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.invoiceRepo.OutstandingTotal(ctx)
	if err != nil {
		return nil, err
	}

	inTransit, err := s.deliveryRepo.CountByStatus(ctx, repository.DeliveryInTransit)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		InvoicesByStatus:    counts,
		OutstandingTotal:    outstanding,
		DeliveriesInTransit: inTransit,
	}, nil
}

// Delivery operations

// CreateDelivery records a pending delivery for an issued invoice
func (s *SalesService) CreateDelivery(ctx context.Context, invoiceID string, driverName, vehicle *string) (*repository.Delivery, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != repository.InvoiceIssued && invoice.Status != repository.InvoicePaid {
		return nil, errors.Conflict("deliveries require an issued invoice")
	}

	delivery := &repository.Delivery{
		InvoiceID:  invoiceID,
		Status:     repository.DeliveryPending,
		DriverName: driverName,
		Vehicle:    vehicle,
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, err
	}

	return delivery, nil
}

// GetDelivery gets a delivery by ID
func (s *SalesService) GetDelivery(ctx context.Context, id string) (*repository.Delivery, error) {
	return s.deliveryRepo.GetByID(ctx, id)
}

// ListDeliveries lists deliveries, optionally filtered by status
func (s *SalesService) ListDeliveries(ctx context.Context, status string) ([]repository.Delivery, error) {
	return s.deliveryRepo.List(ctx, status)
}

// DispatchDelivery moves a pending delivery to in transit
func (s *SalesService) DispatchDelivery(ctx context.Context, id, driverName string, vehicle *string) (*repository.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery.Status != repository.DeliveryPending {
		return nil, errors.Conflict("only pending deliveries can be dispatched")
	}
	if driverName == "" {
		return nil, errors.Validation(map[string]string{"driverName": "Driver name is required"})
	}

	if err := s.deliveryRepo.MarkInTransit(ctx, id, driverName, vehicle); err != nil {
		return nil, err
	}

	delivery.Status = repository.DeliveryInTransit
	delivery.DriverName = &driverName
	delivery.Vehicle = vehicle

	s.publisher.PublishDeliveryDispatched(ctx, delivery)

	return delivery, nil
}

// CompleteDelivery moves an in-transit delivery to delivered
func (s *SalesService) CompleteDelivery(ctx context.Context, id string) (*repository.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery.Status != repository.DeliveryInTransit {
		return nil, errors.Conflict("only in-transit deliveries can be completed")
	}

	if err := s.deliveryRepo.MarkDelivered(ctx, id); err != nil {
		return nil, err
	}

	delivery.Status = repository.DeliveryDelivered
	now := time.Now()
	delivery.DeliveredAt = &now

	s.publisher.PublishDeliveryDelivered(ctx, delivery)

	return delivery, nil
}

// FailDelivery records a failed delivery attempt
func (s *SalesService) FailDelivery(ctx context.Context, id, reason string) (*repository.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery.Status != repository.DeliveryInTransit {
		return nil, errors.Conflict("only in-transit deliveries can fail")
	}

	if err := s.deliveryRepo.MarkFailed(ctx, id, reason); err != nil {
		return nil, err
	}

	delivery.Status = repository.DeliveryFailed
	delivery.FailureReason = &reason

	return delivery, nil
}
