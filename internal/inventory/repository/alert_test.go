package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/pkg/testutil"
)

func newLowStockAlert(warehouseID string) *repository.Alert {
	stock := 5
	reorder := 20
	return &repository.Alert{
		AlertType:    "low_stock",
		Severity:     "critical",
		Message:      "Test Product is low at Test Warehouse (5/20), suggested reorder: 50",
		ProductID:    uuid.New().String(),
		ProductName:  "Test Product",
		WarehouseID:  &warehouseID,
		CurrentStock: &stock,
		ReorderLevel: &reorder,
	}
}

func TestAlertRepository_Create(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewAlertRepository(suite.DB)

	alert := newLowStockAlert(uuid.New().String())
	require.NoError(t, repo.Create(ctx, alert))

	assert.NotEmpty(t, alert.ID)
	assert.False(t, alert.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.Equal(t, "low_stock", got.AlertType)
	assert.False(t, got.IsResolved)
	assert.False(t, got.IsAcknowledged)
}

func TestAlertRepository_ExistsOpen(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewAlertRepository(suite.DB)

	warehouseID := uuid.New().String()
	alert := newLowStockAlert(warehouseID)
	require.NoError(t, repo.Create(ctx, alert))

	exists, err := repo.ExistsOpen(ctx, "low_stock", alert.ProductID, &warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, exists)

	// Different warehouse does not match
	otherWarehouse := uuid.New().String()
	exists, err = repo.ExistsOpen(ctx, "low_stock", alert.ProductID, &otherWarehouse, nil)
	require.NoError(t, err)
	assert.False(t, exists)

	// Different type does not match
	exists, err = repo.ExistsOpen(ctx, "expired", alert.ProductID, &warehouseID, nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAlertRepository_ExistsOpen_NullEntityColumns(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewAlertRepository(suite.DB)

	batchID := uuid.New().String()
	batchNumber := "BN-EXP-1"
	alert := &repository.Alert{
		AlertType:   "expired",
		Severity:    "critical",
		Message:     "Test Product batch BN-EXP-1 expired 3 days ago",
		ProductID:   uuid.New().String(),
		ProductName: "Test Product",
		BatchID:     &batchID,
		BatchNumber: &batchNumber,
	}
	require.NoError(t, repo.Create(ctx, alert))

	// Expiry alerts carry a nil warehouse; NULL must compare equal to NULL
	exists, err := repo.ExistsOpen(ctx, "expired", alert.ProductID, nil, &batchID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsOpen(ctx, "expired", alert.ProductID, nil, nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAlertRepository_ResolveForEntity(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewAlertRepository(suite.DB)

	warehouseID := uuid.New().String()
	alert := newLowStockAlert(warehouseID)
	require.NoError(t, repo.Create(ctx, alert))

	require.NoError(t, repo.ResolveForEntity(ctx, "low_stock", alert.ProductID, &warehouseID, nil))

	got, err := repo.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, got.IsResolved)
	assert.NotNil(t, got.ResolvedAt)

	exists, err := repo.ExistsOpen(ctx, "low_stock", alert.ProductID, &warehouseID, nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAlertRepository_Acknowledge(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewAlertRepository(suite.DB)

	alert := newLowStockAlert(uuid.New().String())
	require.NoError(t, repo.Create(ctx, alert))

	userID := uuid.New().String()
	require.NoError(t, repo.Acknowledge(ctx, alert.ID, userID))

	got, err := repo.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAcknowledged)
	require.NotNil(t, got.AcknowledgedBy)
	assert.Equal(t, userID, *got.AcknowledgedBy)
	assert.NotNil(t, got.AcknowledgedAt)
}

func TestAlertRepository_Acknowledge_NotFound(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewAlertRepository(suite.DB)

	err := repo.Acknowledge(ctx, uuid.New().String(), uuid.New().String())
	assert.Error(t, err)
}

func TestAlertRepository_ListOpen_SeverityOrdering(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewAlertRepository(suite.DB)
	suite.Truncate(t, ctx, "alerts")

	moderate := newLowStockAlert(uuid.New().String())
	moderate.Severity = "moderate"
	require.NoError(t, repo.Create(ctx, moderate))

	critical := newLowStockAlert(uuid.New().String())
	critical.Severity = "critical"
	require.NoError(t, repo.Create(ctx, critical))

	high := newLowStockAlert(uuid.New().String())
	high.Severity = "high"
	require.NoError(t, repo.Create(ctx, high))

	alerts, err := repo.ListOpen(ctx, "")
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, "critical", alerts[0].Severity)
	assert.Equal(t, "high", alerts[1].Severity)
	assert.Equal(t, "moderate", alerts[2].Severity)
}

func TestAlertRepository_CountOpen(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()

	repo := repository.NewAlertRepository(suite.DB)
	suite.Truncate(t, ctx, "alerts")

	warehouseID := uuid.New().String()
	open := newLowStockAlert(warehouseID)
	require.NoError(t, repo.Create(ctx, open))

	resolved := newLowStockAlert(uuid.New().String())
	require.NoError(t, repo.Create(ctx, resolved))
	require.NoError(t, repo.ResolveForEntity(ctx, "low_stock", resolved.ProductID, resolved.WarehouseID, nil))

	count, err := repo.CountOpen(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
