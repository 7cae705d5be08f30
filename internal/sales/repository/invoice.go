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

// Invoice statuses
const (
	InvoiceDraft     = "draft"
	InvoiceIssued    = "issued"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// Invoice represents a sales invoice for a retailer
type Invoice struct {
	ID            string          `db:"id" json:"id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	RetailerID    string          `db:"retailer_id" json:"retailer_id"`
	Status        string          `db:"status" json:"status"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxRate       decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	TaxAmount     decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Notes         *string         `db:"notes" json:"notes,omitempty"`
	IssuedAt      *time.Time      `db:"issued_at" json:"issued_at,omitempty"`
	PaidAt        *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	Lines []InvoiceLine `db:"-" json:"lines,omitempty"`
}

// InvoiceLine is a priced line item on an invoice. Product name and unit
// price are copied from the product cache at creation time so the invoice
// stays stable when the catalog changes.
type InvoiceLine struct {
	ID          string          `db:"id" json:"id"`
	InvoiceID   string          `db:"invoice_id" json:"invoice_id"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total" json:"line_total"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// InvoiceRepository handles invoice persistence
type InvoiceRepository struct {
	db *database.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *database.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `
	id, invoice_number, retailer_id, status, subtotal, tax_rate, tax_amount,
	total, notes, issued_at, paid_at, created_at, updated_at
`

// Create inserts an invoice and its lines in one transaction
func (r *InvoiceRepository) Create(ctx context.Context, invoice *Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}

	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO invoices (
				id, invoice_number, retailer_id, status, subtotal, tax_rate,
				tax_amount, total, notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at, updated_at
		`

		err := tx.QueryRowxContext(ctx, query,
			invoice.ID, invoice.InvoiceNumber, invoice.RetailerID, invoice.Status,
			invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.Total,
			invoice.Notes,
		).Scan(&invoice.CreatedAt, &invoice.UpdatedAt)
		if err != nil {
			if appErr := database.MapPQError(err); appErr != nil {
				return appErr
			}
			return errors.Wrap(err, "DB_ERROR", "failed to create invoice", 500)
		}

		lineQuery := `
			INSERT INTO invoice_lines (id, invoice_id, product_id, product_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at
		`

		for i := range invoice.Lines {
			line := &invoice.Lines[i]
			if line.ID == "" {
				line.ID = uuid.New().String()
			}
			line.InvoiceID = invoice.ID

			err := tx.QueryRowxContext(ctx, lineQuery,
				line.ID, line.InvoiceID, line.ProductID, line.ProductName,
				line.Quantity, line.UnitPrice, line.LineTotal,
			).Scan(&line.CreatedAt)
			if err != nil {
				if appErr := database.MapPQError(err); appErr != nil {
					return appErr
				}
				return errors.Wrap(err, "DB_ERROR", "failed to create invoice line", 500)
			}
		}

		return nil
	})
}

// GetByID gets an invoice with its lines
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*Invoice, error) {
	var invoice Invoice

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	err := r.db.GetContext(ctx, &invoice, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("invoice")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get invoice", 500)
	}

	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines

	return &invoice, nil
}

func (r *InvoiceRepository) listLines(ctx context.Context, invoiceID string) ([]InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, quantity, unit_price, line_total, created_at
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY created_at
	`

	lines := make([]InvoiceLine, 0)
	if err := r.db.SelectContext(ctx, &lines, query, invoiceID); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list invoice lines", 500)
	}

	return lines, nil
}

// List lists invoices with pagination, optionally filtered by status and retailer
func (r *InvoiceRepository) List(ctx context.Context, page, perPage int, status, retailerID string) ([]Invoice, int64, error) {
	offset := (page - 1) * perPage

	countQuery := `
		SELECT COUNT(*) FROM invoices
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR retailer_id::text = $2)
	`
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, status, retailerID); err != nil {
		return nil, 0, errors.Wrap(err, "DB_ERROR", "failed to count invoices", 500)
	}

	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR retailer_id::text = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	invoices := make([]Invoice, 0)
	if err := r.db.SelectContext(ctx, &invoices, query, status, retailerID, perPage, offset); err != nil {
		return nil, 0, errors.Wrap(err, "DB_ERROR", "failed to list invoices", 500)
	}

	return invoices, total, nil
}

// StatusCounts returns the number of invoices per status
func (r *InvoiceRepository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	rows := []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}{}

	query := `SELECT status, COUNT(*) AS count FROM invoices GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to count invoices by status", 500)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

// OutstandingTotal returns the summed total of issued, unpaid invoices
func (r *InvoiceRepository) OutstandingTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	query := `SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status = 'issued'`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return decimal.Zero, errors.Wrap(err, "DB_ERROR", "failed to sum outstanding invoices", 500)
	}

	return total, nil
}

// MarkIssued moves a draft invoice to issued
func (r *InvoiceRepository) MarkIssued(ctx context.Context, id string) error {
	query := `UPDATE invoices SET status = 'issued', issued_at = NOW(), updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, "failed to issue invoice")
}

// MarkPaid moves an issued invoice to paid
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id string) error {
	query := `UPDATE invoices SET status = 'paid', paid_at = NOW(), updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, "failed to mark invoice paid")
}

// MarkCancelled cancels an invoice
func (r *InvoiceRepository) MarkCancelled(ctx context.Context, id string) error {
	query := `UPDATE invoices SET status = 'cancelled', updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, id, "failed to cancel invoice")
}

func (r *InvoiceRepository) exec(ctx context.Context, query, id, msg string) error {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", msg, 500)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("invoice")
	}

	return nil
}
