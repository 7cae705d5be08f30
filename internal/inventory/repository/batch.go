package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
)

// Batch represents a tracked quantity of a product received together
type Batch struct {
	ID               string           `db:"id" json:"id"`
	ProductID        string           `db:"product_id" json:"product_id"`
	WarehouseID      string           `db:"warehouse_id" json:"warehouse_id"`
	BatchNumber      string           `db:"batch_number" json:"batch_number"`
	Quantity         int              `db:"quantity" json:"quantity"`
	CostPrice        *decimal.Decimal `db:"cost_price" json:"cost_price,omitempty"`
	ManufacturedDate *time.Time       `db:"manufactured_date" json:"manufactured_date,omitempty"`
	ExpiryDate       *time.Time       `db:"expiry_date" json:"expiry_date,omitempty"`
	ReceivedDate     *time.Time       `db:"received_date" json:"received_date,omitempty"`
	Notes            *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// BatchDetail is a batch joined with product and warehouse metadata
type BatchDetail struct {
	Batch
	ProductName   string `db:"product_name" json:"product_name"`
	SKU           string `db:"sku" json:"sku"`
	WarehouseName string `db:"warehouse_name" json:"warehouse_name"`
}

// BatchRepository handles batch persistence
type BatchRepository struct {
	db *database.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

const batchDetailQuery = `
	SELECT b.id, b.product_id, b.warehouse_id, b.batch_number, b.quantity, b.cost_price,
	       b.manufactured_date, b.expiry_date, b.received_date, b.notes,
	       b.created_at, b.updated_at,
	       p.name AS product_name, p.sku, w.name AS warehouse_name
	FROM batches b
	JOIN products p ON p.id = b.product_id AND p.deleted_at IS NULL
	JOIN warehouses w ON w.id = b.warehouse_id AND w.deleted_at IS NULL
`

// Create creates a new batch
func (r *BatchRepository) Create(ctx context.Context, batch *Batch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}

	query := `
		INSERT INTO batches (
			id, product_id, warehouse_id, batch_number, quantity, cost_price,
			manufactured_date, expiry_date, received_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		batch.ID, batch.ProductID, batch.WarehouseID, batch.BatchNumber, batch.Quantity,
		batch.CostPrice, batch.ManufacturedDate, batch.ExpiryDate, batch.ReceivedDate,
		batch.Notes,
	).Scan(&batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to create batch", 500)
	}

	return nil
}

// GetByID gets a batch by ID
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*BatchDetail, error) {
	var batch BatchDetail

	query := batchDetailQuery + ` WHERE b.id = $1`

	err := r.db.GetContext(ctx, &batch, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("batch")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get batch", 500)
	}

	return &batch, nil
}

// ListByWarehouse lists batches at a warehouse
func (r *BatchRepository) ListByWarehouse(ctx context.Context, warehouseID string) ([]BatchDetail, error) {
	query := batchDetailQuery + ` WHERE b.warehouse_id = $1 ORDER BY b.expiry_date NULLS LAST, p.name`

	batches := make([]BatchDetail, 0)
	if err := r.db.SelectContext(ctx, &batches, query, warehouseID); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list batches", 500)
	}

	return batches, nil
}

// ListByProduct lists batches of a product across all warehouses
func (r *BatchRepository) ListByProduct(ctx context.Context, productID string) ([]BatchDetail, error) {
	query := batchDetailQuery + ` WHERE b.product_id = $1 ORDER BY b.expiry_date NULLS LAST`

	batches := make([]BatchDetail, 0)
	if err := r.db.SelectContext(ctx, &batches, query, productID); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list batches", 500)
	}

	return batches, nil
}

// ListAll lists all batches
func (r *BatchRepository) ListAll(ctx context.Context) ([]BatchDetail, error) {
	query := batchDetailQuery + ` ORDER BY b.expiry_date NULLS LAST, p.name`

	batches := make([]BatchDetail, 0)
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list batches", 500)
	}

	return batches, nil
}

// Update updates a batch's quantity, dates and notes
func (r *BatchRepository) Update(ctx context.Context, batch *Batch) error {
	query := `
		UPDATE batches
		SET quantity = $2, cost_price = $3, manufactured_date = $4, expiry_date = $5,
		    received_date = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		batch.ID, batch.Quantity, batch.CostPrice, batch.ManufacturedDate,
		batch.ExpiryDate, batch.ReceivedDate, batch.Notes,
	).Scan(&batch.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFound("batch")
		}
		return errors.Wrap(err, "DB_ERROR", "failed to update batch", 500)
	}

	return nil
}

// Delete deletes a batch
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to delete batch", 500)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("batch")
	}

	return nil
}
