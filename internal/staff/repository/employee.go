package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
)

// Employee represents a distribution staff member
type Employee struct {
	ID             string     `db:"id" json:"id"`
	EmployeeNumber string     `db:"employee_number" json:"employee_number"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Email          *string    `db:"email" json:"email,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Role           *string    `db:"role" json:"role,omitempty"`
	WarehouseID    *string    `db:"warehouse_id" json:"warehouse_id,omitempty"`
	HireDate       *time.Time `db:"hire_date" json:"hire_date,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at" json:"-"`
}

// FullName returns the employee's full name
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `
	id, employee_number, first_name, last_name, email, phone, role,
	warehouse_id, hire_date, is_active, created_at, updated_at, deleted_at
`

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.New().String()
	}

	query := `
		INSERT INTO employees (
			id, employee_number, first_name, last_name, email, phone, role,
			warehouse_id, hire_date, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		employee.ID, employee.EmployeeNumber, employee.FirstName, employee.LastName,
		employee.Email, employee.Phone, employee.Role, employee.WarehouseID,
		employee.HireDate, employee.IsActive,
	).Scan(&employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to create employee", 500)
	}

	return nil
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*Employee, error) {
	var employee Employee

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &employee, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("employee")
		}
		return nil, errors.Wrap(err, "DB_ERROR", "failed to get employee", 500)
	}

	return &employee, nil
}

// List lists employees with pagination, optionally filtered by warehouse
func (r *EmployeeRepository) List(ctx context.Context, page, perPage int, warehouseID string) ([]Employee, int64, error) {
	offset := (page - 1) * perPage

	countQuery := `
		SELECT COUNT(*) FROM employees
		WHERE deleted_at IS NULL AND ($1 = '' OR warehouse_id::text = $1)
	`
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, warehouseID); err != nil {
		return nil, 0, errors.Wrap(err, "DB_ERROR", "failed to count employees", 500)
	}

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE deleted_at IS NULL AND ($1 = '' OR warehouse_id::text = $1)
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3
	`

	employees := make([]Employee, 0)
	if err := r.db.SelectContext(ctx, &employees, query, warehouseID, perPage, offset); err != nil {
		return nil, 0, errors.Wrap(err, "DB_ERROR", "failed to list employees", 500)
	}

	return employees, total, nil
}

// Update updates an employee
func (r *EmployeeRepository) Update(ctx context.Context, employee *Employee) error {
	query := `
		UPDATE employees
		SET employee_number = $2, first_name = $3, last_name = $4, email = $5,
		    phone = $6, role = $7, warehouse_id = $8, hire_date = $9,
		    is_active = $10, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		employee.ID, employee.EmployeeNumber, employee.FirstName, employee.LastName,
		employee.Email, employee.Phone, employee.Role, employee.WarehouseID,
		employee.HireDate, employee.IsActive,
	).Scan(&employee.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFound("employee")
		}
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return errors.Wrap(err, "DB_ERROR", "failed to update employee", 500)
	}

	return nil
}

// Delete soft-deletes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE employees SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to delete employee", 500)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.NotFound("employee")
	}

	return nil
}
