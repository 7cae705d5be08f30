package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/pkg/testutil"
)

func TestBatchRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	productRepo := repository.NewProductRepository(suite.DB)
	warehouseRepo := repository.NewWarehouseRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	product := createTestProduct(t, ctx, productRepo, testutil.WithProductName("Heineken 33cl"))
	warehouse := createTestWarehouse(t, ctx, warehouseRepo)

	expiry := time.Now().AddDate(0, 6, 0)
	batch := &repository.Batch{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		BatchNumber: "BN-20260101",
		Quantity:    200,
		ExpiryDate:  &expiry,
	}
	require.NoError(t, repo.Create(ctx, batch))
	assert.NotEmpty(t, batch.ID)

	got, err := repo.GetByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, "BN-20260101", got.BatchNumber)
	assert.Equal(t, 200, got.Quantity)
	assert.Equal(t, "Heineken 33cl", got.ProductName)
	require.NotNil(t, got.ExpiryDate)
}

func TestBatchRepository_Create_DuplicateBatchNumber(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	productRepo := repository.NewProductRepository(suite.DB)
	warehouseRepo := repository.NewWarehouseRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	product := createTestProduct(t, ctx, productRepo)
	warehouse := createTestWarehouse(t, ctx, warehouseRepo)

	first := &repository.Batch{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		BatchNumber: "BN-SAME",
		Quantity:    10,
	}
	require.NoError(t, repo.Create(ctx, first))

	dup := &repository.Batch{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		BatchNumber: "BN-SAME",
		Quantity:    20,
	}
	assert.Error(t, repo.Create(ctx, dup))
}

func TestBatchRepository_ListByProduct(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	productRepo := repository.NewProductRepository(suite.DB)
	warehouseRepo := repository.NewWarehouseRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	product := createTestProduct(t, ctx, productRepo)
	warehouseA := createTestWarehouse(t, ctx, warehouseRepo)
	warehouseB := createTestWarehouse(t, ctx, warehouseRepo)

	early := time.Now().AddDate(0, 1, 0)
	late := time.Now().AddDate(0, 9, 0)

	require.NoError(t, repo.Create(ctx, &repository.Batch{
		ProductID: product.ID, WarehouseID: warehouseA.ID, BatchNumber: "BN-LATE", Quantity: 30, ExpiryDate: &late,
	}))
	require.NoError(t, repo.Create(ctx, &repository.Batch{
		ProductID: product.ID, WarehouseID: warehouseB.ID, BatchNumber: "BN-EARLY", Quantity: 40, ExpiryDate: &early,
	}))

	batches, err := repo.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	// Soonest expiry first
	assert.Equal(t, "BN-EARLY", batches[0].BatchNumber)
	assert.Equal(t, "BN-LATE", batches[1].BatchNumber)
}

func TestBatchRepository_Update(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	productRepo := repository.NewProductRepository(suite.DB)
	warehouseRepo := repository.NewWarehouseRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	product := createTestProduct(t, ctx, productRepo)
	warehouse := createTestWarehouse(t, ctx, warehouseRepo)

	batch := &repository.Batch{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		BatchNumber: "BN-UPD",
		Quantity:    100,
	}
	require.NoError(t, repo.Create(ctx, batch))

	batch.Quantity = 60
	notes := "partially shipped"
	batch.Notes = &notes
	require.NoError(t, repo.Update(ctx, batch))

	got, err := repo.GetByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Quantity)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "partially shipped", *got.Notes)
}

func TestBatchRepository_Delete(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	productRepo := repository.NewProductRepository(suite.DB)
	warehouseRepo := repository.NewWarehouseRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	product := createTestProduct(t, ctx, productRepo)
	warehouse := createTestWarehouse(t, ctx, warehouseRepo)

	batch := &repository.Batch{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		BatchNumber: "BN-DEL",
		Quantity:    5,
	}
	require.NoError(t, repo.Create(ctx, batch))

	require.NoError(t, repo.Delete(ctx, batch.ID))

	got, err := repo.GetByID(ctx, batch.ID)
	assert.Error(t, err)
	assert.Nil(t, got)
}
