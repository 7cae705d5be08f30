package testutil

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ApplyMigrations executes the given DDL statements in order
func ApplyMigrations(ctx context.Context, db *sqlx.DB, migrations []string) error {
	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i, err)
		}
	}
	return nil
}

// InventoryMigrations returns the inventory service schema for tests
func InventoryMigrations() []string {
	return []string{
		// Products
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			sku VARCHAR(100) UNIQUE NOT NULL,
			category VARCHAR(100),
			description TEXT,
			unit VARCHAR(50),
			unit_price DECIMAL(12,2) NOT NULL DEFAULT 0,
			reorder_level INT NOT NULL DEFAULT 0,
			reorder_quantity INT,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		// Warehouses
		`CREATE TABLE IF NOT EXISTS warehouses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			location VARCHAR(255),
			manager_name VARCHAR(255),
			phone VARCHAR(50),
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		// Stock levels (one row per product per warehouse)
		`CREATE TABLE IF NOT EXISTS stock_levels (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			warehouse_id UUID NOT NULL REFERENCES warehouses(id) ON DELETE CASCADE,
			quantity INT NOT NULL DEFAULT 0,
			last_restocked_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT stock_levels_product_warehouse UNIQUE (product_id, warehouse_id),
			CONSTRAINT stock_levels_quantity_non_negative CHECK (quantity >= 0)
		)`,

		// Batches
		`CREATE TABLE IF NOT EXISTS batches (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			warehouse_id UUID NOT NULL REFERENCES warehouses(id) ON DELETE CASCADE,
			batch_number VARCHAR(100) NOT NULL,
			quantity INT NOT NULL DEFAULT 0,
			cost_price DECIMAL(12,2),
			manufactured_date DATE,
			expiry_date DATE,
			received_date DATE,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT batches_number_unique UNIQUE (product_id, warehouse_id, batch_number)
		)`,

		// Stock transfers
		`CREATE TABLE IF NOT EXISTS stock_transfers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			transfer_number VARCHAR(50) UNIQUE NOT NULL,
			product_id UUID NOT NULL REFERENCES products(id),
			from_warehouse_id UUID NOT NULL REFERENCES warehouses(id),
			to_warehouse_id UUID NOT NULL REFERENCES warehouses(id),
			quantity INT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			notes TEXT,
			rejection_reason TEXT,
			requested_by UUID,
			approved_by UUID,
			requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			approved_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT stock_transfers_status_valid CHECK (status IN ('pending', 'approved', 'rejected', 'completed'))
		)`,

		// Alerts
		`CREATE TABLE IF NOT EXISTS alerts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			alert_type VARCHAR(50) NOT NULL,
			severity VARCHAR(20) NOT NULL,
			message TEXT NOT NULL,
			product_id UUID NOT NULL,
			product_name VARCHAR(255) NOT NULL DEFAULT '',
			warehouse_id UUID,
			batch_id UUID,
			batch_number VARCHAR(100),
			current_stock INT,
			reorder_level INT,
			expiry_date DATE,
			is_resolved BOOLEAN DEFAULT FALSE,
			resolved_at TIMESTAMPTZ,
			is_acknowledged BOOLEAN DEFAULT FALSE,
			acknowledged_by UUID,
			acknowledged_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_stock_levels_product ON stock_levels(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_levels_warehouse ON stock_levels(warehouse_id)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_expiry ON batches(expiry_date) WHERE expiry_date IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_status ON stock_transfers(status)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_open ON alerts(alert_type) WHERE is_resolved = FALSE`,
	}
}

// SalesMigrations returns the sales service schema for tests
func SalesMigrations() []string {
	return []string{
		// Retailers
		`CREATE TABLE IF NOT EXISTS retailers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			contact_person VARCHAR(255),
			phone VARCHAR(50),
			email VARCHAR(255),
			address TEXT,
			city VARCHAR(100),
			credit_limit DECIMAL(12,2) NOT NULL DEFAULT 0,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		// Product cache (maintained by inventory events)
		`CREATE TABLE IF NOT EXISTS product_cache (
			product_id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			sku VARCHAR(100) NOT NULL,
			unit_price DECIMAL(12,2) NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Invoices
		`CREATE TABLE IF NOT EXISTS invoices (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			invoice_number VARCHAR(50) UNIQUE NOT NULL,
			retailer_id UUID NOT NULL REFERENCES retailers(id),
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			subtotal DECIMAL(12,2) NOT NULL DEFAULT 0,
			tax_rate DECIMAL(5,2) NOT NULL DEFAULT 0,
			tax_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			total DECIMAL(12,2) NOT NULL DEFAULT 0,
			notes TEXT,
			issued_at TIMESTAMPTZ,
			paid_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT invoices_status_valid CHECK (status IN ('draft', 'issued', 'paid', 'cancelled'))
		)`,

		// Invoice line items
		`CREATE TABLE IF NOT EXISTS invoice_lines (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			invoice_id UUID NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			product_id UUID NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(12,2) NOT NULL,
			line_total DECIMAL(12,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Deliveries
		`CREATE TABLE IF NOT EXISTS deliveries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			invoice_id UUID NOT NULL REFERENCES invoices(id),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			driver_name VARCHAR(255),
			vehicle VARCHAR(100),
			dispatched_at TIMESTAMPTZ,
			delivered_at TIMESTAMPTZ,
			failure_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT deliveries_status_valid CHECK (status IN ('pending', 'in_transit', 'delivered', 'failed'))
		)`,

		`CREATE INDEX IF NOT EXISTS idx_invoices_retailer ON invoices(retailer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_status ON deliveries(status)`,
	}
}

// StaffMigrations returns the staff service schema for tests
func StaffMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			employee_number VARCHAR(50) UNIQUE NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE,
			phone VARCHAR(50),
			role VARCHAR(100),
			warehouse_id UUID,
			hire_date DATE,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE INDEX IF NOT EXISTS idx_employees_warehouse ON employees(warehouse_id)`,
	}
}
