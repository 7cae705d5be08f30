package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
)

// Alert represents a stock or expiry condition that needs attention
type Alert struct {
	ID             string     `db:"id" json:"id"`
	AlertType      string     `db:"alert_type" json:"alert_type"`
	Severity       string     `db:"severity" json:"severity"`
	Message        string     `db:"message" json:"message"`
	ProductID      string     `db:"product_id" json:"product_id"`
	ProductName    string     `db:"product_name" json:"product_name"`
	WarehouseID    *string    `db:"warehouse_id" json:"warehouse_id,omitempty"`
	BatchID        *string    `db:"batch_id" json:"batch_id,omitempty"`
	BatchNumber    *string    `db:"batch_number" json:"batch_number,omitempty"`
	CurrentStock   *int       `db:"current_stock" json:"current_stock,omitempty"`
	ReorderLevel   *int       `db:"reorder_level" json:"reorder_level,omitempty"`
	ExpiryDate     *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	IsResolved     bool       `db:"is_resolved" json:"is_resolved"`
	ResolvedAt     *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	IsAcknowledged bool       `db:"is_acknowledged" json:"is_acknowledged"`
	AcknowledgedBy *string    `db:"acknowledged_by" json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// AlertRepository handles alert persistence
type AlertRepository struct {
	db *database.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *database.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create creates a new alert
func (r *AlertRepository) Create(ctx context.Context, alert *Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}

	query := `
		INSERT INTO alerts (
			id, alert_type, severity, message, product_id, product_name, warehouse_id,
			batch_id, batch_number, current_stock, reorder_level, expiry_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		alert.ID, alert.AlertType, alert.Severity, alert.Message, alert.ProductID,
		alert.ProductName, alert.WarehouseID, alert.BatchID, alert.BatchNumber,
		alert.CurrentStock, alert.ReorderLevel, alert.ExpiryDate,
	).Scan(&alert.CreatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to create alert", 500)
	}

	return nil
}

// GetByID gets an alert by ID
func (r *AlertRepository) GetByID(ctx context.Context, id string) (*Alert, error) {
	var alert Alert

	query := `SELECT * FROM alerts WHERE id = $1`

	if err := r.db.GetContext(ctx, &alert, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("alert")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get alert", 500)
	}

	return &alert, nil
}

// ExistsOpen reports whether an unresolved alert of the given type already
// exists for the entity, so the scanner does not raise duplicates.
func (r *AlertRepository) ExistsOpen(ctx context.Context, alertType, productID string, warehouseID, batchID *string) (bool, error) {
	var exists bool

	query := `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE alert_type = $1 AND product_id = $2
			  AND warehouse_id IS NOT DISTINCT FROM $3
			  AND batch_id IS NOT DISTINCT FROM $4
			  AND is_resolved = false
		)
	`

	if err := r.db.GetContext(ctx, &exists, query, alertType, productID, warehouseID, batchID); err != nil {
		return false, errors.Wrap(err, "DB_ERROR", "failed to check alert", 500)
	}

	return exists, nil
}

// ListOpen lists unresolved alerts, critical first
func (r *AlertRepository) ListOpen(ctx context.Context, alertType string) ([]Alert, error) {
	query := `
		SELECT * FROM alerts
		WHERE is_resolved = false AND ($1 = '' OR alert_type = $1)
		ORDER BY CASE severity WHEN 'critical' THEN 0 WHEN 'high' THEN 1 ELSE 2 END, created_at DESC
	`

	alerts := make([]Alert, 0)
	if err := r.db.SelectContext(ctx, &alerts, query, alertType); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list alerts", 500)
	}

	return alerts, nil
}

// Acknowledge marks an alert acknowledged by a user
func (r *AlertRepository) Acknowledge(ctx context.Context, id, userID string) error {
	query := `
		UPDATE alerts
		SET is_acknowledged = true, acknowledged_by = $2, acknowledged_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to acknowledge alert", 500)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("alert")
	}

	return nil
}

// ResolveForEntity resolves open alerts of the given type for an entity once
// the underlying condition has cleared.
func (r *AlertRepository) ResolveForEntity(ctx context.Context, alertType, productID string, warehouseID, batchID *string) error {
	query := `
		UPDATE alerts
		SET is_resolved = true, resolved_at = NOW()
		WHERE alert_type = $1 AND product_id = $2
		  AND warehouse_id IS NOT DISTINCT FROM $3
		  AND batch_id IS NOT DISTINCT FROM $4
		  AND is_resolved = false
	`

	if _, err := r.db.ExecContext(ctx, query, alertType, productID, warehouseID, batchID); err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to resolve alerts", 500)
	}

	return nil
}

// CountOpen counts unresolved alerts
func (r *AlertRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64

	query := `SELECT COUNT(*) FROM alerts WHERE is_resolved = false`

	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, errors.Wrap(err, "DB_ERROR", "failed to count alerts", 500)
	}

	return count, nil
}

// DeleteResolvedOlderThan prunes resolved alerts past the retention window
func (r *AlertRepository) DeleteResolvedOlderThan(ctx context.Context, olderThan time.Duration) error {
	query := `DELETE FROM alerts WHERE is_resolved = true AND resolved_at < $1`

	if _, err := r.db.ExecContext(ctx, query, time.Now().Add(-olderThan)); err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to prune alerts", 500)
	}

	return nil
}
