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

// Retailer represents a wholesale customer
type Retailer struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	ContactPerson *string         `db:"contact_person" json:"contact_person,omitempty"`
	Phone         *string         `db:"phone" json:"phone,omitempty"`
	Email         *string         `db:"email" json:"email,omitempty"`
	Address       *string         `db:"address" json:"address,omitempty"`
	City          *string         `db:"city" json:"city,omitempty"`
	CreditLimit   decimal.Decimal `db:"credit_limit" json:"credit_limit"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time      `db:"deleted_at" json:"-"`
}

// RetailerRepository handles retailer persistence
type RetailerRepository struct {
	db *database.DB
}

// NewRetailerRepository creates a new retailer repository
func NewRetailerRepository(db *database.DB) *RetailerRepository {
	return &RetailerRepository{db: db}
}

const retailerColumns = `
	id, name, contact_person, phone, email, address, city, credit_limit,
	is_active, created_at, updated_at, deleted_at
`

// Create creates a new retailer
func (r *RetailerRepository) Create(ctx context.Context, retailer *Retailer) error {
	if retailer.ID == "" {
		retailer.ID = uuid.New().String()
	}

	query := `
		INSERT INTO retailers (id, name, contact_person, phone, email, address, city, credit_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		retailer.ID, retailer.Name, retailer.ContactPerson, retailer.Phone, retailer.Email,
		retailer.Address, retailer.City, retailer.CreditLimit, retailer.IsActive,
	).Scan(&retailer.CreatedAt, &retailer.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to create retailer", 500)
	}

	return nil
}

// GetByID gets a retailer by ID
func (r *RetailerRepository) GetByID(ctx context.Context, id string) (*Retailer, error) {
	var retailer Retailer

	query := `SELECT ` + retailerColumns + ` FROM retailers WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &retailer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("retailer")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get retailer", 500)
	}

	return &retailer, nil
}

// List lists retailers with pagination
func (r *RetailerRepository) List(ctx context.Context, page, perPage int) ([]Retailer, int64, error) {
	offset := (page - 1) * perPage

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM retailers WHERE deleted_at IS NULL`); err != nil {
		return nil, 0, errors.Wrap(err, "DB_ERROR", "failed to count retailers", 500)
	}

	query := `
		SELECT ` + retailerColumns + `
		FROM retailers
		WHERE deleted_at IS NULL
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	retailers := make([]Retailer, 0)
	if err := r.db.SelectContext(ctx, &retailers, query, perPage, offset); err != nil {
		return nil, 0, errors.Wrap(err, "DB_ERROR", "failed to list retailers", 500)
	}

	return retailers, total, nil
}

// Update updates a retailer
func (r *RetailerRepository) Update(ctx context.Context, retailer *Retailer) error {
	query := `
		UPDATE retailers
		SET name = $2, contact_person = $3, phone = $4, email = $5, address = $6,
		    city = $7, credit_limit = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		retailer.ID, retailer.Name, retailer.ContactPerson, retailer.Phone, retailer.Email,
		retailer.Address, retailer.City, retailer.CreditLimit, retailer.IsActive,
	).Scan(&retailer.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFound("retailer")
		}
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to update retailer", 500)
	}

	return nil
}

// Delete soft-deletes a retailer
func (r *RetailerRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE retailers SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to delete retailer", 500)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("retailer")
	}

	return nil
}
