package service_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osas/osas-backend/internal/sales/repository"
	"github.com/osas/osas-backend/internal/sales/service"
	"github.com/osas/osas-backend/pkg/errors"
	"github.com/osas/osas-backend/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to create integration suite: %v", err)
	}
	defer testutil.TerminateContainer(ctx)

	if err := testutil.ApplyMigrations(ctx, suite.RawDB, testutil.SalesMigrations()); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	os.Exit(m.Run())
}

func newSalesService() *service.SalesService {
	return service.NewSalesService(
		repository.NewRetailerRepository(suite.DB),
		repository.NewProductCacheRepository(suite.DB),
		repository.NewInvoiceRepository(suite.DB),
		repository.NewDeliveryRepository(suite.DB),
		nil, // events are not under test
		suite.Logger,
	)
}

func seedRetailer(t *testing.T, ctx context.Context, opts ...func(*testutil.RetailerFixture)) *repository.Retailer {
	t.Helper()

	fixture := suite.Fixtures.Retailer(opts...)
	retailer := &repository.Retailer{
		Name:          fixture.Name,
		ContactPerson: &fixture.ContactPerson,
		Phone:         &fixture.Phone,
		Email:         &fixture.Email,
		City:          &fixture.City,
		CreditLimit:   fixture.CreditLimit,
		IsActive:      fixture.IsActive,
	}
	require.NoError(t, repository.NewRetailerRepository(suite.DB).Create(ctx, retailer))
	return retailer
}

func seedCachedProduct(t *testing.T, ctx context.Context, name string, unitPrice decimal.Decimal) *repository.CachedProduct {
	t.Helper()

	fixture := suite.Fixtures.Product(testutil.WithProductName(name), testutil.WithUnitPrice(unitPrice))
	product := &repository.CachedProduct{
		ProductID: fixture.ID,
		Name:      fixture.Name,
		SKU:       fixture.SKU,
		UnitPrice: fixture.UnitPrice,
	}
	require.NoError(t, repository.NewProductCacheRepository(suite.DB).Set(ctx, product))
	return product
}

func issuedInvoice(t *testing.T, ctx context.Context, svc *service.SalesService) *repository.Invoice {
	t.Helper()

	retailer := seedRetailer(t, ctx)
	product := seedCachedProduct(t, ctx, "Heineken 60cl", decimal.NewFromInt(900))

	invoice, err := svc.CreateInvoice(ctx, retailer.ID, decimal.NewFromFloat(7.5), nil, []service.LineInput{
		{ProductID: product.ProductID, Quantity: 12},
	})
	require.NoError(t, err)

	issued, err := svc.IssueInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	return issued
}

func TestSalesService_CreateInvoice_PricesFromCatalog(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	retailer := seedRetailer(t, ctx)
	lager := seedCachedProduct(t, ctx, "Star Lager 60cl", decimal.NewFromFloat(850.50))
	malt := seedCachedProduct(t, ctx, "Maltina 33cl", decimal.NewFromInt(300))

	invoice, err := svc.CreateInvoice(ctx, retailer.ID, decimal.NewFromFloat(7.5), nil, []service.LineInput{
		{ProductID: lager.ProductID, Quantity: 10},
		{ProductID: malt.ProductID, Quantity: 24},
	})
	require.NoError(t, err)

	assert.Equal(t, repository.InvoiceDraft, invoice.Status)
	assert.Regexp(t, `^INV\d+$`, invoice.InvoiceNumber)
	require.Len(t, invoice.Lines, 2)

	// 10 x 850.50 + 24 x 300 = 8505 + 7200 = 15705
	assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(15705)), "subtotal was %s", invoice.Subtotal)
	// 7.5% of 15705 = 1177.875, rounded to 1177.88
	assert.True(t, invoice.TaxAmount.Equal(decimal.NewFromFloat(1177.88)), "tax was %s", invoice.TaxAmount)
	assert.True(t, invoice.Total.Equal(decimal.NewFromFloat(16882.88)), "total was %s", invoice.Total)

	// Line prices come from the cache, not the caller
	assert.True(t, invoice.Lines[0].UnitPrice.Equal(decimal.NewFromFloat(850.50)))
	assert.True(t, invoice.Lines[0].LineTotal.Equal(decimal.NewFromInt(8505)))
}

func TestSalesService_CreateInvoice_InactiveRetailer(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	retailer := seedRetailer(t, ctx)
	retailer.IsActive = false
	require.NoError(t, repository.NewRetailerRepository(suite.DB).Update(ctx, retailer))

	product := seedCachedProduct(t, ctx, "Gulder 60cl", decimal.NewFromInt(800))

	_, err := svc.CreateInvoice(ctx, retailer.ID, decimal.Zero, nil, []service.LineInput{
		{ProductID: product.ProductID, Quantity: 1},
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "retailer is inactive", appErr.Message)
}

func TestSalesService_CreateInvoice_Validation(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	retailer := seedRetailer(t, ctx)
	product := seedCachedProduct(t, ctx, "Coke 50cl", decimal.NewFromInt(250))

	var appErr *errors.AppError

	_, err := svc.CreateInvoice(ctx, retailer.ID, decimal.Zero, nil, nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "An invoice needs at least one line", appErr.Details["lines"])

	_, err = svc.CreateInvoice(ctx, retailer.ID, decimal.NewFromInt(-5), nil, []service.LineInput{
		{ProductID: product.ProductID, Quantity: 1},
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Tax rate cannot be negative", appErr.Details["taxRate"])

	_, err = svc.CreateInvoice(ctx, retailer.ID, decimal.Zero, nil, []service.LineInput{
		{ProductID: product.ProductID, Quantity: 0},
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Enter a valid quantity greater than 0", appErr.Details["lines[0].quantity"])
}

func TestSalesService_CreateInvoice_UnknownProduct(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	retailer := seedRetailer(t, ctx)

	_, err := svc.CreateInvoice(ctx, retailer.ID, decimal.Zero, nil, []service.LineInput{
		{ProductID: "99999999-9999-9999-9999-999999999999", Quantity: 1},
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestSalesService_InvoiceLifecycle(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	retailer := seedRetailer(t, ctx)
	product := seedCachedProduct(t, ctx, "Sprite 50cl", decimal.NewFromInt(250))

	invoice, err := svc.CreateInvoice(ctx, retailer.ID, decimal.Zero, nil, []service.LineInput{
		{ProductID: product.ProductID, Quantity: 6},
	})
	require.NoError(t, err)

	// Draft invoices cannot be paid
	_, err = svc.PayInvoice(ctx, invoice.ID)
	require.Error(t, err)

	issued, err := svc.IssueInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.InvoiceIssued, issued.Status)

	// Issuing twice conflicts
	_, err = svc.IssueInvoice(ctx, invoice.ID)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	paid, err := svc.PayInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.InvoicePaid, paid.Status)

	// Paid invoices cannot be cancelled
	_, err = svc.CancelInvoice(ctx, invoice.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "only draft or issued invoices can be cancelled", appErr.Message)
}

func TestSalesService_CancelInvoice_Draft(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	retailer := seedRetailer(t, ctx)
	product := seedCachedProduct(t, ctx, "Amstel Malta 33cl", decimal.NewFromInt(350))

	invoice, err := svc.CreateInvoice(ctx, retailer.ID, decimal.Zero, nil, []service.LineInput{
		{ProductID: product.ProductID, Quantity: 2},
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.InvoiceCancelled, cancelled.Status)
}

func TestSalesService_CreateDelivery_RequiresIssuedInvoice(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	retailer := seedRetailer(t, ctx)
	product := seedCachedProduct(t, ctx, "Fanta 50cl", decimal.NewFromInt(250))

	draft, err := svc.CreateInvoice(ctx, retailer.ID, decimal.Zero, nil, []service.LineInput{
		{ProductID: product.ProductID, Quantity: 3},
	})
	require.NoError(t, err)

	_, err = svc.CreateDelivery(ctx, draft.ID, nil, nil)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "deliveries require an issued invoice", appErr.Message)

	_, err = svc.IssueInvoice(ctx, draft.ID)
	require.NoError(t, err)

	delivery, err := svc.CreateDelivery(ctx, draft.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryPending, delivery.Status)
}

func TestSalesService_DeliveryLifecycle(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	invoice := issuedInvoice(t, ctx, svc)

	delivery, err := svc.CreateDelivery(ctx, invoice.ID, nil, nil)
	require.NoError(t, err)

	// Dispatch needs a driver
	_, err = svc.DispatchDelivery(ctx, delivery.ID, "", nil)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Driver name is required", appErr.Details["driverName"])

	vehicle := "Truck BEN-512-AA"
	dispatched, err := svc.DispatchDelivery(ctx, delivery.ID, "Osaze Igbinedion", &vehicle)
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryInTransit, dispatched.Status)

	// Cannot dispatch twice
	_, err = svc.DispatchDelivery(ctx, delivery.ID, "Osaze Igbinedion", nil)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	completed, err := svc.CompleteDelivery(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryDelivered, completed.Status)

	// A delivered delivery cannot fail
	_, err = svc.FailDelivery(ctx, delivery.ID, "late")
	require.Error(t, err)
}

func TestSalesService_GetDashboardStats(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()

	before, err := svc.GetDashboardStats(ctx)
	require.NoError(t, err)

	invoice := issuedInvoice(t, ctx, svc)

	delivery, err := svc.CreateDelivery(ctx, invoice.ID, nil, nil)
	require.NoError(t, err)
	_, err = svc.DispatchDelivery(ctx, delivery.ID, "Bola Akin", nil)
	require.NoError(t, err)

	after, err := svc.GetDashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, before.InvoicesByStatus["issued"]+1, after.InvoicesByStatus["issued"])
	assert.Equal(t, before.DeliveriesInTransit+1, after.DeliveriesInTransit)
	assert.True(t, after.OutstandingTotal.Equal(before.OutstandingTotal.Add(invoice.Total)),
		"outstanding went from %s to %s for invoice total %s", before.OutstandingTotal, after.OutstandingTotal, invoice.Total)
}

func TestSalesService_FailDelivery(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	svc := newSalesService()
	invoice := issuedInvoice(t, ctx, svc)

	delivery, err := svc.CreateDelivery(ctx, invoice.ID, nil, nil)
	require.NoError(t, err)

	// Pending deliveries cannot fail before dispatch
	_, err = svc.FailDelivery(ctx, delivery.ID, "no show")
	require.Error(t, err)

	_, err = svc.DispatchDelivery(ctx, delivery.ID, "Ngozi Ade", nil)
	require.NoError(t, err)

	failed, err := svc.FailDelivery(ctx, delivery.ID, "retailer shop closed")
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryFailed, failed.Status)
	require.NotNil(t, failed.FailureReason)
	assert.Equal(t, "retailer shop closed", *failed.FailureReason)
}
