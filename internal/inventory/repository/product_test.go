package repository_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osas/osas-backend/internal/inventory/repository"
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

	if err := testutil.ApplyMigrations(ctx, suite.RawDB, testutil.InventoryMigrations()); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	os.Exit(m.Run())
}

func createTestProduct(t *testing.T, ctx context.Context, repo *repository.ProductRepository, opts ...func(*testutil.ProductFixture)) *repository.Product {
	t.Helper()

	fixture := suite.Fixtures.Product(opts...)
	product := &repository.Product{
		Name:            fixture.Name,
		SKU:             fixture.SKU,
		Category:        &fixture.Category,
		Unit:            &fixture.Unit,
		UnitPrice:       fixture.UnitPrice,
		ReorderLevel:    fixture.ReorderLevel,
		ReorderQuantity: fixture.ReorderQuantity,
		IsActive:        true,
	}
	require.NoError(t, repo.Create(ctx, product))
	return product
}

func createTestWarehouse(t *testing.T, ctx context.Context, repo *repository.WarehouseRepository, opts ...func(*testutil.WarehouseFixture)) *repository.Warehouse {
	t.Helper()

	fixture := suite.Fixtures.Warehouse(opts...)
	warehouse := &repository.Warehouse{
		Name:        fixture.Name,
		Location:    &fixture.Location,
		ManagerName: &fixture.ManagerName,
		IsActive:    true,
	}
	require.NoError(t, repo.Create(ctx, warehouse))
	return warehouse
}

func TestProductRepository_Create(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductRepository(suite.DB)

	product := createTestProduct(t, ctx, repo, testutil.WithProductName("Star Lager 60cl"), testutil.WithUnitPrice(decimal.NewFromFloat(8500.00)))

	assert.NotEmpty(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.False(t, product.UpdatedAt.IsZero())
	assert.True(t, product.UnitPrice.Equal(decimal.NewFromFloat(8500.00)))
}

func TestProductRepository_Create_DuplicateSKU(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductRepository(suite.DB)

	first := createTestProduct(t, ctx, repo, testutil.WithSKU("DUP-SKU-001"))
	require.NotEmpty(t, first.ID)

	dup := &repository.Product{
		Name:      "Duplicate",
		SKU:       "DUP-SKU-001",
		UnitPrice: decimal.NewFromInt(100),
		IsActive:  true,
	}
	err := repo.Create(ctx, dup)
	assert.Error(t, err)
}

func TestProductRepository_GetByID(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductRepository(suite.DB)

	product := createTestProduct(t, ctx, repo, testutil.WithProductName("Gulder 60cl"), testutil.WithReorderLevel(50))

	got, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	assert.Equal(t, "Gulder 60cl", got.Name)
	assert.Equal(t, 50, got.ReorderLevel)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductRepository(suite.DB)

	got, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestProductRepository_List_FilterByCategory(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductRepository(suite.DB)

	createTestProduct(t, ctx, repo, testutil.WithCategory("Spirits"))
	createTestProduct(t, ctx, repo, testutil.WithCategory("Spirits"))
	createTestProduct(t, ctx, repo, testutil.WithCategory("Soft Drinks"))

	products, total, err := repo.List(ctx, 1, 50, "Spirits")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, p := range products {
		require.NotNil(t, p.Category)
		assert.Equal(t, "Spirits", *p.Category)
	}
}

func TestProductRepository_Update(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductRepository(suite.DB)

	product := createTestProduct(t, ctx, repo)

	product.Name = "Renamed Product"
	product.ReorderLevel = 75
	product.UnitPrice = decimal.NewFromFloat(123.45)
	require.NoError(t, repo.Update(ctx, product))

	got, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Product", got.Name)
	assert.Equal(t, 75, got.ReorderLevel)
	assert.True(t, got.UnitPrice.Equal(decimal.NewFromFloat(123.45)))
}

func TestProductRepository_SoftDelete(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewProductRepository(suite.DB)

	product := createTestProduct(t, ctx, repo)

	require.NoError(t, repo.Delete(ctx, product.ID))

	got, err := repo.GetByID(ctx, product.ID)
	assert.Error(t, err)
	assert.Nil(t, got)

	// Deleting again reports not found
	assert.Error(t, repo.Delete(ctx, product.ID))
}
