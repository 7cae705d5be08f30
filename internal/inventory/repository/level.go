package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
)

// StockLevel represents the quantity of a product held at a warehouse
type StockLevel struct {
	ID              string     `db:"id" json:"id"`
	ProductID       string     `db:"product_id" json:"product_id"`
	WarehouseID     string     `db:"warehouse_id" json:"warehouse_id"`
	Quantity        int        `db:"quantity" json:"quantity"`
	LastRestockedAt *time.Time `db:"last_restocked_at" json:"last_restocked_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// StockLevelDetail is a stock level joined with product and warehouse metadata
type StockLevelDetail struct {
	StockLevel
	ProductName     string          `db:"product_name" json:"product_name"`
	SKU             string          `db:"sku" json:"sku"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unit_price"`
	ReorderLevel    int             `db:"reorder_level" json:"reorder_level"`
	ReorderQuantity *int            `db:"reorder_quantity" json:"reorder_quantity,omitempty"`
	WarehouseName   string          `db:"warehouse_name" json:"warehouse_name"`
}

// LevelRepository handles stock level persistence
type LevelRepository struct {
	db *database.DB
}

// NewLevelRepository creates a new stock level repository
func NewLevelRepository(db *database.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

const levelDetailQuery = `
	SELECT sl.id, sl.product_id, sl.warehouse_id, sl.quantity, sl.last_restocked_at,
	       sl.created_at, sl.updated_at,
	       p.name AS product_name, p.sku, p.unit_price, p.reorder_level, p.reorder_quantity,
	       w.name AS warehouse_name
	FROM stock_levels sl
	JOIN products p ON p.id = sl.product_id AND p.deleted_at IS NULL
	JOIN warehouses w ON w.id = sl.warehouse_id AND w.deleted_at IS NULL
`

// Get gets the stock level for a product at a warehouse
func (r *LevelRepository) Get(ctx context.Context, productID, warehouseID string) (*StockLevel, error) {
	var level StockLevel

	query := `
		SELECT id, product_id, warehouse_id, quantity, last_restocked_at, created_at, updated_at
		FROM stock_levels
		WHERE product_id = $1 AND warehouse_id = $2
	`

	err := r.db.GetContext(ctx, &level, query, productID, warehouseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("stock level")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get stock level", 500)
	}

	return &level, nil
}

// GetQuantity returns the available quantity for a product at a warehouse.
// A missing row counts as zero stock.
func (r *LevelRepository) GetQuantity(ctx context.Context, productID, warehouseID string) (int, error) {
	var quantity int

	query := `SELECT quantity FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`

	err := r.db.GetContext(ctx, &quantity, query, productID, warehouseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, errors.Wrap(err, "DB_ERROR", "failed to get stock quantity", 500)
	}

	return quantity, nil
}

// ListByWarehouse lists stock levels at a warehouse with product metadata
func (r *LevelRepository) ListByWarehouse(ctx context.Context, warehouseID string) ([]StockLevelDetail, error) {
	query := levelDetailQuery + ` WHERE sl.warehouse_id = $1 ORDER BY p.name`

	levels := make([]StockLevelDetail, 0)
	if err := r.db.SelectContext(ctx, &levels, query, warehouseID); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list stock levels", 500)
	}

	return levels, nil
}

// ListAll lists all stock levels with product and warehouse metadata
func (r *LevelRepository) ListAll(ctx context.Context) ([]StockLevelDetail, error) {
	query := levelDetailQuery + ` ORDER BY w.name, p.name`

	levels := make([]StockLevelDetail, 0)
	if err := r.db.SelectContext(ctx, &levels, query); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list stock levels", 500)
	}

	return levels, nil
}

// Upsert sets the quantity for a product at a warehouse, creating the row if
// it does not exist. Restock timestamps are only updated on increases.
func (r *LevelRepository) Upsert(ctx context.Context, level *StockLevel) error {
	if level.ID == "" {
		level.ID = uuid.New().String()
	}

	query := `
		INSERT INTO stock_levels (id, product_id, warehouse_id, quantity, last_restocked_at)
		VALUES ($1, $2, $3, $4, CASE WHEN $4 > 0 THEN NOW() ELSE NULL END)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE
		SET quantity = EXCLUDED.quantity,
		    last_restocked_at = CASE
		        WHEN EXCLUDED.quantity > stock_levels.quantity THEN NOW()
		        ELSE stock_levels.last_restocked_at
		    END,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		level.ID, level.ProductID, level.WarehouseID, level.Quantity,
	).Scan(&level.ID, &level.CreatedAt, &level.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to upsert stock level", 500)
	}

	return nil
}

// GetQuantityForUpdate locks and returns the stock level row for a product at
// a warehouse inside an open transaction. A missing row counts as zero stock.
func (r *LevelRepository) GetQuantityForUpdate(ctx context.Context, tx *sqlx.Tx, productID, warehouseID string) (int, error) {
	var quantity int

	query := `SELECT quantity FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`

	err := tx.GetContext(ctx, &quantity, query, productID, warehouseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, errors.Wrap(err, "DB_ERROR", "failed to lock stock level", 500)
	}

	return quantity, nil
}

// AdjustQuantityTx applies a delta to the stock level of a product at a
// warehouse inside an open transaction, creating the row on first credit.
// Returns the new quantity.
func (r *LevelRepository) AdjustQuantityTx(ctx context.Context, tx *sqlx.Tx, productID, warehouseID string, delta int) (int, error) {
	var newQuantity int

	query := `
		INSERT INTO stock_levels (id, product_id, warehouse_id, quantity, last_restocked_at)
		VALUES ($1, $2, $3, $4, CASE WHEN $4 > 0 THEN NOW() ELSE NULL END)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE
		SET quantity = stock_levels.quantity + $4,
		    last_restocked_at = CASE WHEN $4 > 0 THEN NOW() ELSE stock_levels.last_restocked_at END,
		    updated_at = NOW()
		RETURNING quantity
	`

	err := tx.QueryRowxContext(ctx, query, uuid.New().String(), productID, warehouseID, delta).Scan(&newQuantity)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return 0, appErr
		}
		return 0, errors.Wrap(err, "DB_ERROR", "failed to adjust stock level", 500)
	}

	return newQuantity, nil
}
