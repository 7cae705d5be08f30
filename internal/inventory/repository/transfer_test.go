package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/internal/inventory/stock"
	"github.com/osas/osas-backend/pkg/testutil"
)

func createTestTransfer(t *testing.T, ctx context.Context) *repository.StockTransfer {
	t.Helper()

	productRepo := repository.NewProductRepository(suite.DB)
	warehouseRepo := repository.NewWarehouseRepository(suite.DB)
	repo := repository.NewTransferRepository(suite.DB)

	product := createTestProduct(t, ctx, productRepo)
	source := createTestWarehouse(t, ctx, warehouseRepo)
	dest := createTestWarehouse(t, ctx, warehouseRepo)

	requestedBy := uuid.New().String()
	transfer := &repository.StockTransfer{
		TransferNumber:  stock.NewTransferNumber(),
		ProductID:       product.ID,
		FromWarehouseID: source.ID,
		ToWarehouseID:   dest.ID,
		Quantity:        25,
		Status:          stock.TransferPending,
		RequestedBy:     &requestedBy,
	}
	require.NoError(t, repo.Create(ctx, transfer))
	return transfer
}

func TestTransferRepository_Create(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	transfer := createTestTransfer(t, ctx)

	assert.NotEmpty(t, transfer.ID)
	assert.Equal(t, stock.TransferPending, transfer.Status)
	assert.False(t, transfer.RequestedAt.IsZero())
	assert.False(t, transfer.CreatedAt.IsZero())
}

func TestTransferRepository_GetByID(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewTransferRepository(suite.DB)
	transfer := createTestTransfer(t, ctx)

	got, err := repo.GetByID(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.TransferNumber, got.TransferNumber)
	assert.Equal(t, 25, got.Quantity)
	assert.Nil(t, got.ApprovedAt)
}

func TestTransferRepository_List_FilterByStatus(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewTransferRepository(suite.DB)
	transfer := createTestTransfer(t, ctx)
	require.NoError(t, repo.MarkRejected(ctx, transfer.ID, uuid.New().String(), "not needed"))

	rejected, err := repo.List(ctx, stock.TransferRejected)
	require.NoError(t, err)
	require.NotEmpty(t, rejected)
	for _, tr := range rejected {
		assert.Equal(t, stock.TransferRejected, tr.Status)
	}
}

func TestTransferRepository_MarkApprovedTx(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewTransferRepository(suite.DB)
	transfer := createTestTransfer(t, ctx)
	approver := uuid.New().String()

	err := suite.DB.Transaction(ctx, func(tx *sqlx.Tx) error {
		locked, err := repo.GetByIDForUpdate(ctx, tx, transfer.ID)
		require.NoError(t, err)
		assert.Equal(t, stock.TransferPending, locked.Status)

		return repo.MarkApprovedTx(ctx, tx, transfer.ID, approver)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, stock.TransferApproved, got.Status)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, approver, *got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)
}

func TestTransferRepository_MarkRejected(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewTransferRepository(suite.DB)
	transfer := createTestTransfer(t, ctx)

	require.NoError(t, repo.MarkRejected(ctx, transfer.ID, uuid.New().String(), "destination at capacity"))

	got, err := repo.GetByID(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, stock.TransferRejected, got.Status)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "destination at capacity", *got.RejectionReason)
}

func TestTransferRepository_MarkCompleted(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewTransferRepository(suite.DB)
	transfer := createTestTransfer(t, ctx)

	err := suite.DB.Transaction(ctx, func(tx *sqlx.Tx) error {
		return repo.MarkApprovedTx(ctx, tx, transfer.ID, uuid.New().String())
	})
	require.NoError(t, err)
	require.NoError(t, repo.MarkCompleted(ctx, transfer.ID))

	got, err := repo.GetByID(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, stock.TransferCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestTransferRepository_GetByID_NotFound(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewTransferRepository(suite.DB)

	got, err := repo.GetByID(ctx, uuid.New().String())
	assert.Error(t, err)
	assert.Nil(t, got)
}
