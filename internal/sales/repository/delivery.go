package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
)

// Delivery statuses
const (
	DeliveryPending   = "pending"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// Delivery represents the shipment of an invoice to a retailer
type Delivery struct {
	ID            string     `db:"id" json:"id"`
	InvoiceID     string     `db:"invoice_id" json:"invoice_id"`
	Status        string     `db:"status" json:"status"`
	DriverName    *string    `db:"driver_name" json:"driver_name,omitempty"`
	Vehicle       *string    `db:"vehicle" json:"vehicle,omitempty"`
	DispatchedAt  *time.Time `db:"dispatched_at" json:"dispatched_at,omitempty"`
	DeliveredAt   *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	FailureReason *string    `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// DeliveryRepository handles delivery persistence
type DeliveryRepository struct {
	db *database.DB
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *database.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

const deliveryColumns = `
	id, invoice_id, status, driver_name, vehicle, dispatched_at, delivered_at,
	failure_reason, created_at, updated_at
`

// Create creates a new pending delivery for an invoice
func (r *DeliveryRepository) Create(ctx context.Context, delivery *Delivery) error {
	if delivery.ID == "" {
		delivery.ID = uuid.New().String()
	}

	query := `
		INSERT INTO deliveries (id, invoice_id, status, driver_name, vehicle)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		delivery.ID, delivery.InvoiceID, delivery.Status, delivery.DriverName, delivery.Vehicle,
	).Scan(&delivery.CreatedAt, &delivery.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to create delivery", 500)
	}

	return nil
}

// GetByID gets a delivery by ID
func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*Delivery, error) {
	var delivery Delivery

	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`

	err := r.db.GetContext(ctx, &delivery, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("delivery")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get delivery", 500)
	}

	return &delivery, nil
}

// List lists deliveries, optionally filtered by status
func (r *DeliveryRepository) List(ctx context.Context, status string) ([]Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`

	deliveries := make([]Delivery, 0)
	if err := r.db.SelectContext(ctx, &deliveries, query, status); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list deliveries", 500)
	}

	return deliveries, nil
}

// ListByInvoice lists deliveries for an invoice
func (r *DeliveryRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE invoice_id = $1 ORDER BY created_at DESC`

	deliveries := make([]Delivery, 0)
	if err := r.db.SelectContext(ctx, &deliveries, query, invoiceID); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list deliveries", 500)
	}

	return deliveries, nil
}

// CountByStatus returns the number of deliveries with the given status
func (r *DeliveryRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64

	query := `SELECT COUNT(*) FROM deliveries WHERE status = $1`
	if err := r.db.GetContext(ctx, &count, query, status); err != nil {
		return 0, errors.Wrap(err, "DB_ERROR", "failed to count deliveries", 500)
	}

	return count, nil
}

// MarkInTransit records dispatch with a driver and vehicle
func (r *DeliveryRepository) MarkInTransit(ctx context.Context, id, driverName string, vehicle *string) error {
	query := `
		UPDATE deliveries
		SET status = 'in_transit', driver_name = $2, vehicle = $3, dispatched_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	return r.exec(ctx, query, "failed to dispatch delivery", id, driverName, vehicle)
}

// MarkDelivered records a successful delivery
func (r *DeliveryRepository) MarkDelivered(ctx context.Context, id string) error {
	query := `UPDATE deliveries SET status = 'delivered', delivered_at = NOW(), updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, "failed to mark delivery delivered", id)
}

// MarkFailed records a failed delivery attempt with a reason
func (r *DeliveryRepository) MarkFailed(ctx context.Context, id, reason string) error {
	query := `UPDATE deliveries SET status = 'failed', failure_reason = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, "failed to mark delivery failed", id, reason)
}

func (r *DeliveryRepository) exec(ctx context.Context, query, msg string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", msg, 500)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("delivery")
	}

	return nil
}
