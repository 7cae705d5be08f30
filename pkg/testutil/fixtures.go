package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFixture represents test product data
type ProductFixture struct {
	ID              string
	Name            string
	SKU             string
	Category        string
	Unit            string
	UnitPrice       decimal.Decimal
	ReorderLevel    int
	ReorderQuantity *int
	IsActive        bool
	CreatedAt       time.Time
}

// WarehouseFixture represents test warehouse data
type WarehouseFixture struct {
	ID          string
	Name        string
	Location    string
	ManagerName string
	IsActive    bool
	CreatedAt   time.Time
}

// BatchFixture represents test batch data
type BatchFixture struct {
	ID          string
	ProductID   string
	WarehouseID string
	BatchNumber string
	Quantity    int
	ExpiryDate  *time.Time
	CreatedAt   time.Time
}

// RetailerFixture represents test retailer data
type RetailerFixture struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	City          string
	CreditLimit   decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
}

// EmployeeFixture represents test employee data
type EmployeeFixture struct {
	ID             string
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          string
	Role           string
	WarehouseID    *string
	HireDate       time.Time
	IsActive       bool
	CreatedAt      time.Time
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Product creates a product fixture with defaults
func (f *FixtureFactory) Product(opts ...func(*ProductFixture)) ProductFixture {
	seq := f.nextSeq()

	product := ProductFixture{
		ID:           uuid.New().String(),
		Name:         fmt.Sprintf("Test Product %d", seq),
		SKU:          fmt.Sprintf("SKU-%04d", seq),
		Category:     "Beverages",
		Unit:         "case",
		UnitPrice:    decimal.NewFromFloat(12.50),
		ReorderLevel: 20,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(&product)
	}

	return product
}

// WithProductName sets the product name
func WithProductName(name string) func(*ProductFixture) {
	return func(p *ProductFixture) {
		p.Name = name
	}
}

// WithSKU sets the product SKU
func WithSKU(sku string) func(*ProductFixture) {
	return func(p *ProductFixture) {
		p.SKU = sku
	}
}

// WithCategory sets the product category
func WithCategory(category string) func(*ProductFixture) {
	return func(p *ProductFixture) {
		p.Category = category
	}
}

// WithUnitPrice sets the product unit price
func WithUnitPrice(price decimal.Decimal) func(*ProductFixture) {
	return func(p *ProductFixture) {
		p.UnitPrice = price
	}
}

// WithReorderLevel sets the product reorder level
func WithReorderLevel(level int) func(*ProductFixture) {
	return func(p *ProductFixture) {
		p.ReorderLevel = level
	}
}

// WithReorderQuantity sets the product's configured reorder quantity
func WithReorderQuantity(qty int) func(*ProductFixture) {
	return func(p *ProductFixture) {
		p.ReorderQuantity = &qty
	}
}

// Warehouse creates a warehouse fixture with defaults
func (f *FixtureFactory) Warehouse(opts ...func(*WarehouseFixture)) WarehouseFixture {
	seq := f.nextSeq()

	warehouse := WarehouseFixture{
		ID:          uuid.New().String(),
		Name:        fmt.Sprintf("Warehouse %d", seq),
		Location:    "Benin City",
		ManagerName: fmt.Sprintf("Manager %d", seq),
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(&warehouse)
	}

	return warehouse
}

// WithWarehouseName sets the warehouse name
func WithWarehouseName(name string) func(*WarehouseFixture) {
	return func(w *WarehouseFixture) {
		w.Name = name
	}
}

// WithLocation sets the warehouse location
func WithLocation(location string) func(*WarehouseFixture) {
	return func(w *WarehouseFixture) {
		w.Location = location
	}
}

// Batch creates a batch fixture with defaults. The batch expires in 90 days
// unless overridden.
func (f *FixtureFactory) Batch(productID, warehouseID string, opts ...func(*BatchFixture)) BatchFixture {
	seq := f.nextSeq()
	expiry := time.Now().AddDate(0, 0, 90)

	batch := BatchFixture{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		BatchNumber: fmt.Sprintf("BN-%05d", seq),
		Quantity:    100,
		ExpiryDate:  &expiry,
		CreatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(&batch)
	}

	return batch
}

// WithExpiryDate sets the batch expiry date
func WithExpiryDate(expiry time.Time) func(*BatchFixture) {
	return func(b *BatchFixture) {
		b.ExpiryDate = &expiry
	}
}

// WithNoExpiry removes the batch expiry date
func WithNoExpiry() func(*BatchFixture) {
	return func(b *BatchFixture) {
		b.ExpiryDate = nil
	}
}

// WithBatchQuantity sets the batch quantity
func WithBatchQuantity(qty int) func(*BatchFixture) {
	return func(b *BatchFixture) {
		b.Quantity = qty
	}
}

// Retailer creates a retailer fixture with defaults
func (f *FixtureFactory) Retailer(opts ...func(*RetailerFixture)) RetailerFixture {
	seq := f.nextSeq()

	retailer := RetailerFixture{
		ID:            uuid.New().String(),
		Name:          fmt.Sprintf("Retailer %d", seq),
		ContactPerson: fmt.Sprintf("Contact %d", seq),
		Phone:         fmt.Sprintf("+234801234%04d", seq),
		Email:         fmt.Sprintf("retailer%d@example.com", seq),
		City:          "Lagos",
		CreditLimit:   decimal.NewFromInt(500000),
		IsActive:      true,
		CreatedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(&retailer)
	}

	return retailer
}

// WithRetailerName sets the retailer name
func WithRetailerName(name string) func(*RetailerFixture) {
	return func(r *RetailerFixture) {
		r.Name = name
	}
}

// WithCreditLimit sets the retailer credit limit
func WithCreditLimit(limit decimal.Decimal) func(*RetailerFixture) {
	return func(r *RetailerFixture) {
		r.CreditLimit = limit
	}
}

// Employee creates an employee fixture with defaults
func (f *FixtureFactory) Employee(opts ...func(*EmployeeFixture)) EmployeeFixture {
	seq := f.nextSeq()

	emp := EmployeeFixture{
		ID:             uuid.New().String(),
		EmployeeNumber: fmt.Sprintf("EMP-%04d", seq),
		FirstName:      fmt.Sprintf("Employee%d", seq),
		LastName:       "Test",
		Email:          fmt.Sprintf("employee%d@example.com", seq),
		Role:           "warehouse_staff",
		HireDate:       time.Now().AddDate(-1, 0, 0),
		IsActive:       true,
		CreatedAt:      time.Now(),
	}

	for _, opt := range opts {
		opt(&emp)
	}

	return emp
}

// WithEmployeeName sets the employee's first and last name
func WithEmployeeName(first, last string) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.FirstName = first
		e.LastName = last
	}
}

// WithEmployeeRole sets the employee's role
func WithEmployeeRole(role string) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.Role = role
	}
}

// WithWarehouseAssignment sets the employee's warehouse
func WithWarehouseAssignment(warehouseID string) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.WarehouseID = &warehouseID
	}
}
