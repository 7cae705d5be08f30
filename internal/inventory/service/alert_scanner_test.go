package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/internal/inventory/service"
	"github.com/osas/osas-backend/pkg/testutil"
)

func newAlertScanner() *service.AlertScanner {
	return service.NewAlertScanner(
		repository.NewLevelRepository(suite.DB),
		repository.NewBatchRepository(suite.DB),
		repository.NewAlertRepository(suite.DB),
		nil,
		suite.Logger,
	)
}

func openAlertsForProduct(t *testing.T, ctx context.Context, alertType, productID string) []repository.Alert {
	t.Helper()

	all, err := repository.NewAlertRepository(suite.DB).ListOpen(ctx, alertType)
	require.NoError(t, err)

	matched := make([]repository.Alert, 0)
	for _, a := range all {
		if a.ProductID == productID {
			matched = append(matched, a)
		}
	}
	return matched
}

func TestAlertScanner_LowStock(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	scanner := newAlertScanner()

	product := seedProduct(t, ctx,
		testutil.WithProductName("Amstel Malta 33cl"),
		testutil.WithReorderLevel(20),
		testutil.WithReorderQuantity(80),
	)
	warehouse := seedWarehouse(t, ctx, testutil.WithWarehouseName("North Depot"))
	seedStock(t, ctx, product.ID, warehouse.ID, 5)

	require.NoError(t, scanner.ScanAll(ctx))

	alerts := openAlertsForProduct(t, ctx, service.AlertLowStock, product.ID)
	require.Len(t, alerts, 1)

	alert := alerts[0]
	assert.Equal(t, "critical", alert.Severity) // 5/20 = 25% of reorder level
	assert.Equal(t, "Amstel Malta 33cl is low at North Depot (5/20), suggested reorder: 80", alert.Message)
	require.NotNil(t, alert.CurrentStock)
	assert.Equal(t, 5, *alert.CurrentStock)
	require.NotNil(t, alert.ReorderLevel)
	assert.Equal(t, 20, *alert.ReorderLevel)
}

func TestAlertScanner_LowStock_Deduplicates(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	scanner := newAlertScanner()

	product := seedProduct(t, ctx, testutil.WithReorderLevel(50))
	warehouse := seedWarehouse(t, ctx)
	seedStock(t, ctx, product.ID, warehouse.ID, 10)

	require.NoError(t, scanner.ScanAll(ctx))
	require.NoError(t, scanner.ScanAll(ctx))
	require.NoError(t, scanner.ScanAll(ctx))

	alerts := openAlertsForProduct(t, ctx, service.AlertLowStock, product.ID)
	assert.Len(t, alerts, 1)
}

func TestAlertScanner_LowStock_ResolvesAfterRestock(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	scanner := newAlertScanner()

	product := seedProduct(t, ctx, testutil.WithReorderLevel(50))
	warehouse := seedWarehouse(t, ctx)
	seedStock(t, ctx, product.ID, warehouse.ID, 10)

	require.NoError(t, scanner.ScanAll(ctx))
	require.Len(t, openAlertsForProduct(t, ctx, service.AlertLowStock, product.ID), 1)

	// Restock above the reorder level and rescan
	seedStock(t, ctx, product.ID, warehouse.ID, 200)
	require.NoError(t, scanner.ScanAll(ctx))

	assert.Empty(t, openAlertsForProduct(t, ctx, service.AlertLowStock, product.ID))
}

func TestAlertScanner_Expiry(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	scanner := newAlertScanner()
	batchRepo := repository.NewBatchRepository(suite.DB)

	product := seedProduct(t, ctx, testutil.WithProductName("Five Alive 1L"))
	warehouse := seedWarehouse(t, ctx)

	expired := time.Now().AddDate(0, 0, -3)
	soon := time.Now().AddDate(0, 0, 10)
	far := time.Now().AddDate(0, 6, 0)

	require.NoError(t, batchRepo.Create(ctx, &repository.Batch{
		ProductID: product.ID, WarehouseID: warehouse.ID, BatchNumber: "BN-EXPIRED", Quantity: 50, ExpiryDate: &expired,
	}))
	require.NoError(t, batchRepo.Create(ctx, &repository.Batch{
		ProductID: product.ID, WarehouseID: warehouse.ID, BatchNumber: "BN-SOON", Quantity: 50, ExpiryDate: &soon,
	}))
	require.NoError(t, batchRepo.Create(ctx, &repository.Batch{
		ProductID: product.ID, WarehouseID: warehouse.ID, BatchNumber: "BN-FAR", Quantity: 50, ExpiryDate: &far,
	}))

	require.NoError(t, scanner.ScanAll(ctx))

	expiredAlerts := openAlertsForProduct(t, ctx, service.AlertExpired, product.ID)
	require.Len(t, expiredAlerts, 1)
	assert.Equal(t, "critical", expiredAlerts[0].Severity)
	assert.Equal(t, fmt.Sprintf("%s batch %s expired 3 days ago", "Five Alive 1L", "BN-EXPIRED"), expiredAlerts[0].Message)

	soonAlerts := openAlertsForProduct(t, ctx, service.AlertExpiringSoon, product.ID)
	require.Len(t, soonAlerts, 1)
	assert.Equal(t, "high", soonAlerts[0].Severity)
	assert.Equal(t, fmt.Sprintf("%s batch %s expires in 10 days", "Five Alive 1L", "BN-SOON"), soonAlerts[0].Message)
}

func TestAlertScanner_Expiry_ResolvesWhenBatchConsumed(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	scanner := newAlertScanner()
	batchRepo := repository.NewBatchRepository(suite.DB)

	product := seedProduct(t, ctx)
	warehouse := seedWarehouse(t, ctx)

	expired := time.Now().AddDate(0, 0, -1)
	batch := &repository.Batch{
		ProductID: product.ID, WarehouseID: warehouse.ID, BatchNumber: "BN-GONE", Quantity: 20, ExpiryDate: &expired,
	}
	require.NoError(t, batchRepo.Create(ctx, batch))

	require.NoError(t, scanner.ScanAll(ctx))
	require.Len(t, openAlertsForProduct(t, ctx, service.AlertExpired, product.ID), 1)

	// Batch gets disposed of; the alert resolves on the next scan
	require.NoError(t, batchRepo.Delete(ctx, batch.ID))
	require.NoError(t, scanner.ScanAll(ctx))

	assert.Empty(t, openAlertsForProduct(t, ctx, service.AlertExpired, product.ID))
}
