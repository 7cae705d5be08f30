package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osas/osas-backend/internal/sales/repository"
	"github.com/osas/osas-backend/pkg/testutil"
)

func TestRetailerRepository_Create(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	retailer := createTestRetailer(t, ctx,
		testutil.WithRetailerName("Okonkwo & Sons Stores"),
		testutil.WithCreditLimit(decimal.NewFromInt(750000)),
	)

	assert.NotEmpty(t, retailer.ID)
	assert.False(t, retailer.CreatedAt.IsZero())
	assert.True(t, retailer.CreditLimit.Equal(decimal.NewFromInt(750000)))
}

func TestRetailerRepository_GetByID(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewRetailerRepository(suite.DB)
	retailer := createTestRetailer(t, ctx, testutil.WithRetailerName("Mama Nkechi Provisions"))

	got, err := repo.GetByID(ctx, retailer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mama Nkechi Provisions", got.Name)
	assert.True(t, got.IsActive)
}

func TestRetailerRepository_Update(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewRetailerRepository(suite.DB)
	retailer := createTestRetailer(t, ctx)

	retailer.Name = "Renamed Stores"
	retailer.IsActive = false
	retailer.CreditLimit = decimal.NewFromInt(100000)
	require.NoError(t, repo.Update(ctx, retailer))

	got, err := repo.GetByID(ctx, retailer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Stores", got.Name)
	assert.False(t, got.IsActive)
	assert.True(t, got.CreditLimit.Equal(decimal.NewFromInt(100000)))
}

func TestRetailerRepository_SoftDelete(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewRetailerRepository(suite.DB)
	retailer := createTestRetailer(t, ctx)

	require.NoError(t, repo.Delete(ctx, retailer.ID))

	got, err := repo.GetByID(ctx, retailer.ID)
	assert.Error(t, err)
	assert.Nil(t, got)

	assert.Error(t, repo.Delete(ctx, retailer.ID))
}

func TestProductCacheRepository_SetAndGet(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductCacheRepository(suite.DB)

	product := &repository.CachedProduct{
		ProductID: "22222222-2222-2222-2222-222222222222",
		Name:      "Fanta 50cl",
		SKU:       "FAN-050",
		UnitPrice: decimal.NewFromFloat(250.00),
	}
	require.NoError(t, repo.Set(ctx, product))

	got, err := repo.Get(ctx, product.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Fanta 50cl", got.Name)
	assert.True(t, got.UnitPrice.Equal(decimal.NewFromFloat(250.00)))

	// Upsert overwrites price on catalog updates
	product.UnitPrice = decimal.NewFromFloat(275.00)
	require.NoError(t, repo.Set(ctx, product))

	got, err = repo.Get(ctx, product.ProductID)
	require.NoError(t, err)
	assert.True(t, got.UnitPrice.Equal(decimal.NewFromFloat(275.00)))
}

func TestProductCacheRepository_Delete(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductCacheRepository(suite.DB)

	product := &repository.CachedProduct{
		ProductID: "33333333-3333-3333-3333-333333333333",
		Name:      "Discontinued",
		SKU:       "DIS-001",
		UnitPrice: decimal.NewFromInt(100),
	}
	require.NoError(t, repo.Set(ctx, product))
	require.NoError(t, repo.Delete(ctx, product.ProductID))

	got, err := repo.Get(ctx, product.ProductID)
	assert.Error(t, err)
	assert.Nil(t, got)
}
