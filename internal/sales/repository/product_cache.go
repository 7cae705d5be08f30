package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
)

// CachedProduct is the local projection of an inventory product, maintained
// by consuming inventory events. Invoice lines price against this cache.
type CachedProduct struct {
	ProductID string          `db:"product_id" json:"product_id"`
	Name      string          `db:"name" json:"name"`
	SKU       string          `db:"sku" json:"sku"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ProductCacheRepository handles the product cache
type ProductCacheRepository struct {
	db *database.DB
}

// NewProductCacheRepository creates a new product cache repository
func NewProductCacheRepository(db *database.DB) *ProductCacheRepository {
	return &ProductCacheRepository{db: db}
}

// Set creates or updates a cached product
func (r *ProductCacheRepository) Set(ctx context.Context, product *CachedProduct) error {
	query := `
		INSERT INTO product_cache (product_id, name, sku, unit_price, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id)
		DO UPDATE SET name = $2, sku = $3, unit_price = $4, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, product.ProductID, product.Name, product.SKU, product.UnitPrice); err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to cache product", 500)
	}

	return nil
}

// Get gets a cached product by ID
func (r *ProductCacheRepository) Get(ctx context.Context, productID string) (*CachedProduct, error) {
	var product CachedProduct

	query := `SELECT product_id, name, sku, unit_price, updated_at FROM product_cache WHERE product_id = $1`

	err := r.db.GetContext(ctx, &product, query, productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("product")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get cached product", 500)
	}

	return &product, nil
}

// List lists all cached products
func (r *ProductCacheRepository) List(ctx context.Context) ([]CachedProduct, error) {
	query := `SELECT product_id, name, sku, unit_price, updated_at FROM product_cache ORDER BY name`

	products := make([]CachedProduct, 0)
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list cached products", 500)
	}

	return products, nil
}

// Delete deletes a cached product
func (r *ProductCacheRepository) Delete(ctx context.Context, productID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM product_cache WHERE product_id = $1`, productID); err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to delete cached product", 500)
	}

	return nil
}
