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

// Product represents a sellable product
type Product struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	SKU             string          `db:"sku" json:"sku"`
	Category        *string         `db:"category" json:"category,omitempty"`
	Description     *string         `db:"description" json:"description,omitempty"`
	Unit            *string         `db:"unit" json:"unit,omitempty"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unit_price"`
	ReorderLevel    int             `db:"reorder_level" json:"reorder_level"`
	ReorderQuantity *int            `db:"reorder_quantity" json:"reorder_quantity,omitempty"`
	IsActive        bool            `db:"is_active" json:"is_active"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time      `db:"deleted_at" json:"-"`
}

// ProductRepository handles product persistence
type ProductRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	query := `
		INSERT INTO products (
			id, name, sku, category, description, unit, unit_price,
			reorder_level, reorder_quantity, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		product.ID, product.Name, product.SKU, product.Category, product.Description,
		product.Unit, product.UnitPrice, product.ReorderLevel, product.ReorderQuantity,
		product.IsActive,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to create product", 500)
	}

	return nil
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	var product Product

	query := `
		SELECT id, name, sku, category, description, unit, unit_price,
		       reorder_level, reorder_quantity, is_active, created_at, updated_at, deleted_at
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`

	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("product")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get product", 500)
	}

	return &product, nil
}

// List lists products with pagination, optionally filtered by category
func (r *ProductRepository) List(ctx context.Context, page, perPage int, category string) ([]Product, int64, error) {
	offset := (page - 1) * perPage

	countQuery := `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL AND ($1 = '' OR category = $1)`
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, category); err != nil {
		return nil, 0, errors.Wrap(err, "DB_ERROR", "failed to count products", 500)
	}

	query := `
		SELECT id, name, sku, category, description, unit, unit_price,
		       reorder_level, reorder_quantity, is_active, created_at, updated_at, deleted_at
		FROM products
		WHERE deleted_at IS NULL AND ($1 = '' OR category = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	products := make([]Product, 0)
	if err := r.db.SelectContext(ctx, &products, query, category, perPage, offset); err != nil {
		return nil, 0, errors.Wrap(err, "DB_ERROR", "failed to list products", 500)
	}

	return products, total, nil
}

// Update updates a product
func (r *ProductRepository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE products
		SET name = $2, sku = $3, category = $4, description = $5, unit = $6,
		    unit_price = $7, reorder_level = $8, reorder_quantity = $9,
		    is_active = $10, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		product.ID, product.Name, product.SKU, product.Category, product.Description,
		product.Unit, product.UnitPrice, product.ReorderLevel, product.ReorderQuantity,
		product.IsActive,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFound("product")
		}
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to update product", 500)
	}

	return nil
}

// Delete soft-deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE products SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to delete product", 500)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("product")
	}

	return nil
}
