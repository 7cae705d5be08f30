package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
)

// StockTransfer represents a requested movement of stock between warehouses
type StockTransfer struct {
	ID              string     `db:"id" json:"id"`
	TransferNumber  string     `db:"transfer_number" json:"transfer_number"`
	ProductID       string     `db:"product_id" json:"product_id"`
	FromWarehouseID string     `db:"from_warehouse_id" json:"from_warehouse_id"`
	ToWarehouseID   string     `db:"to_warehouse_id" json:"to_warehouse_id"`
	Quantity        int        `db:"quantity" json:"quantity"`
	Status          string     `db:"status" json:"status"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason,omitempty"`
	RequestedBy     *string    `db:"requested_by" json:"requested_by,omitempty"`
	ApprovedBy      *string    `db:"approved_by" json:"approved_by,omitempty"`
	RequestedAt     time.Time  `db:"requested_at" json:"requested_at"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// TransferRepository handles stock transfer persistence
type TransferRepository struct {
	db *database.DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *database.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

const transferColumns = `
	id, transfer_number, product_id, from_warehouse_id, to_warehouse_id, quantity,
	status, notes, rejection_reason, requested_by, approved_by,
	requested_at, approved_at, completed_at, created_at, updated_at
`

// Create inserts a new pending transfer
func (r *TransferRepository) Create(ctx context.Context, transfer *StockTransfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}

	query := `
		INSERT INTO stock_transfers (
			id, transfer_number, product_id, from_warehouse_id, to_warehouse_id,
			quantity, status, notes, requested_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING requested_at, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		transfer.ID, transfer.TransferNumber, transfer.ProductID, transfer.FromWarehouseID,
		transfer.ToWarehouseID, transfer.Quantity, transfer.Status, transfer.Notes,
		transfer.RequestedBy,
	).Scan(&transfer.RequestedAt, &transfer.CreatedAt, &transfer.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to create transfer", 500)
	}

	return nil
}

// GetByID gets a transfer by ID
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*StockTransfer, error) {
	var transfer StockTransfer

	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1`

	err := r.db.GetContext(ctx, &transfer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("transfer")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get transfer", 500)
	}

	return &transfer, nil
}

// GetByIDForUpdate locks and returns a transfer inside an open transaction
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*StockTransfer, error) {
	var transfer StockTransfer

	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1 FOR UPDATE`

	err := tx.GetContext(ctx, &transfer, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("transfer")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to lock transfer", 500)
	}

	return &transfer, nil
}

// List lists transfers, optionally filtered by status
func (r *TransferRepository) List(ctx context.Context, status string) ([]StockTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM stock_transfers
		WHERE ($1 = '' OR status = $1)
		ORDER BY requested_at DESC
	`

	transfers := make([]StockTransfer, 0)
	if err := r.db.SelectContext(ctx, &transfers, query, status); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list transfers", 500)
	}

	return transfers, nil
}

// MarkApprovedTx marks a transfer approved inside an open transaction
func (r *TransferRepository) MarkApprovedTx(ctx context.Context, tx *sqlx.Tx, id, approvedBy string) error {
	query := `
		UPDATE stock_transfers
		SET status = 'approved', approved_by = $2, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, query, id, approvedBy); err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to approve transfer", 500)
	}

	return nil
}

// MarkRejected marks a transfer rejected with a reason
func (r *TransferRepository) MarkRejected(ctx context.Context, id, rejectedBy, reason string) error {
	query := `
		UPDATE stock_transfers
		SET status = 'rejected', approved_by = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, rejectedBy, reason); err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to reject transfer", 500)
	}

	return nil
}

// MarkCompleted marks an approved transfer completed
func (r *TransferRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `
		UPDATE stock_transfers
		SET status = 'completed', completed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to complete transfer", 500)
	}

	return nil
}
