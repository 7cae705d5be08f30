package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
)

// Warehouse represents a storage location
type Warehouse struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Location    *string    `db:"location" json:"location,omitempty"`
	ManagerName *string    `db:"manager_name" json:"manager_name,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// WarehouseRepository handles warehouse persistence
type WarehouseRepository struct {
	db *database.DB
}

// NewWarehouseRepository creates a new warehouse repository
func NewWarehouseRepository(db *database.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

// Create creates a new warehouse
func (r *WarehouseRepository) Create(ctx context.Context, warehouse *Warehouse) error {
	if warehouse.ID == "" {
		warehouse.ID = uuid.New().String()
	}

	query := `
		INSERT INTO warehouses (id, name, location, manager_name, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		warehouse.ID, warehouse.Name, warehouse.Location, warehouse.ManagerName,
		warehouse.Phone, warehouse.IsActive,
	).Scan(&warehouse.CreatedAt, &warehouse.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to create warehouse", 500)
	}

	return nil
}

// GetByID gets a warehouse by ID
func (r *WarehouseRepository) GetByID(ctx context.Context, id string) (*Warehouse, error) {
	var warehouse Warehouse

	query := `
		SELECT id, name, location, manager_name, phone, is_active, created_at, updated_at, deleted_at
		FROM warehouses
		WHERE id = $1 AND deleted_at IS NULL
	`

	err := r.db.GetContext(ctx, &warehouse, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("warehouse")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get warehouse", 500)
	}

	return &warehouse, nil
}

// List lists all warehouses
func (r *WarehouseRepository) List(ctx context.Context) ([]Warehouse, error) {
	query := `
		SELECT id, name, location, manager_name, phone, is_active, created_at, updated_at, deleted_at
		FROM warehouses
		WHERE deleted_at IS NULL
		ORDER BY name
	`

	warehouses := make([]Warehouse, 0)
	if err := r.db.SelectContext(ctx, &warehouses, query); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list warehouses", 500)
	}

	return warehouses, nil
}

// Update updates a warehouse
func (r *WarehouseRepository) Update(ctx context.Context, warehouse *Warehouse) error {
	query := `
		UPDATE warehouses
		SET name = $2, location = $3, manager_name = $4, phone = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		warehouse.ID, warehouse.Name, warehouse.Location, warehouse.ManagerName,
		warehouse.Phone, warehouse.IsActive,
	).Scan(&warehouse.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFound("warehouse")
		}
		return errors.Wrap(err, "DB_ERROR", "failed to update warehouse", 500)
	}

	return nil
}

// Delete soft-deletes a warehouse
func (r *WarehouseRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE warehouses SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to delete warehouse", 500)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("warehouse")
	}

	return nil
}
