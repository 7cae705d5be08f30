package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osas/osas-backend/internal/sales/repository"
	"github.com/osas/osas-backend/pkg/testutil"
)

func createTestDelivery(t *testing.T, ctx context.Context, invoiceNumber string) *repository.Delivery {
	t.Helper()

	retailer := createTestRetailer(t, ctx)
	invoice := createTestInvoice(t, ctx, retailer.ID, invoiceNumber)

	delivery := &repository.Delivery{
		InvoiceID: invoice.ID,
		Status:    repository.DeliveryPending,
	}
	require.NoError(t, repository.NewDeliveryRepository(suite.DB).Create(ctx, delivery))
	return delivery
}

func TestDeliveryRepository_Create(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	delivery := createTestDelivery(t, ctx, "INV-DEL-0001")

	assert.NotEmpty(t, delivery.ID)
	assert.Equal(t, repository.DeliveryPending, delivery.Status)
	assert.Nil(t, delivery.DispatchedAt)
}

func TestDeliveryRepository_Lifecycle(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewDeliveryRepository(suite.DB)
	delivery := createTestDelivery(t, ctx, "INV-DEL-0002")

	driver := "Emeka Obi"
	vehicle := "Truck LAG-234-XY"
	require.NoError(t, repo.MarkInTransit(ctx, delivery.ID, driver, &vehicle))

	got, err := repo.GetByID(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryInTransit, got.Status)
	require.NotNil(t, got.DriverName)
	assert.Equal(t, driver, *got.DriverName)
	assert.NotNil(t, got.DispatchedAt)

	require.NoError(t, repo.MarkDelivered(ctx, delivery.ID))

	got, err = repo.GetByID(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryDelivered, got.Status)
	assert.NotNil(t, got.DeliveredAt)
}

func TestDeliveryRepository_MarkFailed(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewDeliveryRepository(suite.DB)
	delivery := createTestDelivery(t, ctx, "INV-DEL-0003")

	driver := "Tunde Alabi"
	require.NoError(t, repo.MarkInTransit(ctx, delivery.ID, driver, nil))
	require.NoError(t, repo.MarkFailed(ctx, delivery.ID, "retailer shop closed"))

	got, err := repo.GetByID(ctx, delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.DeliveryFailed, got.Status)
	require.NotNil(t, got.FailureReason)
	assert.Equal(t, "retailer shop closed", *got.FailureReason)
}

func TestDeliveryRepository_ListByInvoice(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewDeliveryRepository(suite.DB)

	retailer := createTestRetailer(t, ctx)
	invoice := createTestInvoice(t, ctx, retailer.ID, "INV-DEL-0004")

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Create(ctx, &repository.Delivery{
			InvoiceID: invoice.ID,
			Status:    repository.DeliveryPending,
		}))
	}

	deliveries, err := repo.ListByInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 2)
}

func TestDeliveryRepository_List_FilterByStatus(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewDeliveryRepository(suite.DB)
	delivery := createTestDelivery(t, ctx, "INV-DEL-0005")

	driver := "Chika Eze"
	require.NoError(t, repo.MarkInTransit(ctx, delivery.ID, driver, nil))

	inTransit, err := repo.List(ctx, repository.DeliveryInTransit)
	require.NoError(t, err)
	require.NotEmpty(t, inTransit)
	for _, d := range inTransit {
		assert.Equal(t, repository.DeliveryInTransit, d.Status)
	}
}
