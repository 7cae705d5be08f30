package service

import (
	"context"
	"time"

	"github.com/osas/osas-backend/internal/inventory/events"
	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/internal/inventory/stock"
	"github.com/osas/osas-backend/pkg/cache"
	"github.com/osas/osas-backend/pkg/logger"
)

const dashboardCacheKey = "inventory:dashboard"

// InventoryService handles inventory business logic
type InventoryService struct {
	productRepo   *repository.ProductRepository
	warehouseRepo *repository.WarehouseRepository
	levelRepo     *repository.LevelRepository
	batchRepo     *repository.BatchRepository
	alertRepo     *repository.AlertRepository
	publisher     *events.InventoryEventPublisher
	cache         *cache.Cache
	cacheTTL      time.Duration
	logger        *logger.Logger
}

// NewInventoryService creates a new inventory service. The cache is optional;
// when nil, dashboard stats are computed on every request.
func NewInventoryService(
	productRepo *repository.ProductRepository,
	warehouseRepo *repository.WarehouseRepository,
	levelRepo *repository.LevelRepository,
	batchRepo *repository.BatchRepository,
	alertRepo *repository.AlertRepository,
	publisher *events.InventoryEventPublisher,
	c *cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		levelRepo:     levelRepo,
		batchRepo:     batchRepo,
		alertRepo:     alertRepo,
		publisher:     publisher,
		cache:         c,
		cacheTTL:      cacheTTL,
		logger:        log,
	}
}

// StockLevelView is a stock level with its computed low-stock classification.
// Classifications are derived on read and never persisted.
type StockLevelView struct {
	repository.StockLevelDetail
	Classification   stock.LevelClassification `json:"classification"`
	SuggestedReorder int                       `json:"suggested_reorder,omitempty"`
}

// BatchView is a batch with its computed expiry classification
type BatchView struct {
	repository.BatchDetail
	ExpiryStatus    stock.BatchStatus `json:"expiry_status"`
	DaysUntilExpiry *int              `json:"days_until_expiry,omitempty"`
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalProducts   int64              `json:"total_products"`
	TotalWarehouses int                `json:"total_warehouses"`
	Levels          stock.LevelSummary `json:"levels"`
	Batches         stock.BatchSummary `json:"batches"`
	OpenAlerts      int64              `json:"open_alerts"`
}

// Product operations

// CreateProduct creates a new product
func (s *InventoryService) CreateProduct(ctx context.Context, product *repository.Product) error {
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}

	s.publisher.PublishProductCreated(ctx, product)
	return nil
}

// GetProduct gets a product by ID
func (s *InventoryService) GetProduct(ctx context.Context, id string) (*repository.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ListProducts lists products with pagination
func (s *InventoryService) ListProducts(ctx context.Context, page, perPage int, category string) ([]repository.Product, int64, error) {
	return s.productRepo.List(ctx, page, perPage, category)
}

// UpdateProduct updates a product
func (s *InventoryService) UpdateProduct(ctx context.Context, product *repository.Product) error {
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}

	s.publisher.PublishProductUpdated(ctx, product)
	return nil
}

// DeleteProduct soft-deletes a product
func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publisher.PublishProductDeleted(ctx, id)
	return nil
}

// Warehouse operations

// CreateWarehouse creates a new warehouse
func (s *InventoryService) CreateWarehouse(ctx context.Context, warehouse *repository.Warehouse) error {
	return s.warehouseRepo.Create(ctx, warehouse)
}

// GetWarehouse gets a warehouse by ID
func (s *InventoryService) GetWarehouse(ctx context.Context, id string) (*repository.Warehouse, error) {
	return s.warehouseRepo.GetByID(ctx, id)
}

// ListWarehouses lists all warehouses
func (s *InventoryService) ListWarehouses(ctx context.Context) ([]repository.Warehouse, error) {
	return s.warehouseRepo.List(ctx)
}

// UpdateWarehouse updates a warehouse
func (s *InventoryService) UpdateWarehouse(ctx context.Context, warehouse *repository.Warehouse) error {
	return s.warehouseRepo.Update(ctx, warehouse)
}

// DeleteWarehouse soft-deletes a warehouse
func (s *InventoryService) DeleteWarehouse(ctx context.Context, id string) error {
	return s.warehouseRepo.Delete(ctx, id)
}

// Stock level operations

// SetStockLevel sets the quantity for a product at a warehouse and publishes
// the resulting adjustment
func (s *InventoryService) SetStockLevel(ctx context.Context, productID, warehouseID string, quantity int, reason string) (*repository.StockLevel, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := s.warehouseRepo.GetByID(ctx, warehouseID); err != nil {
		return nil, err
	}

	previous, err := s.levelRepo.GetQuantity(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	level := &repository.StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
	}
	if err := s.levelRepo.Upsert(ctx, level); err != nil {
		return nil, err
	}

	s.publisher.PublishStockAdjusted(ctx, productID, warehouseID, quantity-previous, quantity, reason)
	s.invalidateDashboard(ctx)

	return level, nil
}

// GetStockLevel gets a classified stock level for a product at a warehouse
func (s *InventoryService) GetStockLevel(ctx context.Context, productID, warehouseID string) (*StockLevelView, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	level, err := s.levelRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	detail := repository.StockLevelDetail{
		StockLevel:      *level,
		ProductName:     product.Name,
		SKU:             product.SKU,
		UnitPrice:       product.UnitPrice,
		ReorderLevel:    product.ReorderLevel,
		ReorderQuantity: product.ReorderQuantity,
	}

	view := s.classifyLevel(detail)
	return &view, nil
}

// ListStockLevels lists classified stock levels, optionally for one warehouse
func (s *InventoryService) ListStockLevels(ctx context.Context, warehouseID string) ([]StockLevelView, error) {
	var (
		levels []repository.StockLevelDetail
		err    error
	)
	if warehouseID != "" {
		levels, err = s.levelRepo.ListByWarehouse(ctx, warehouseID)
	} else {
		levels, err = s.levelRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	views := make([]StockLevelView, len(levels))
	for i, level := range levels {
		views[i] = s.classifyLevel(level)
	}

	return views, nil
}

// LowStockReport lists only the stock levels that classify as alerts,
// each with a suggested reorder quantity
func (s *InventoryService) LowStockReport(ctx context.Context, warehouseID string) ([]StockLevelView, error) {
	views, err := s.ListStockLevels(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	report := make([]StockLevelView, 0)
	for _, v := range views {
		if v.Classification.IsAlert() {
			report = append(report, v)
		}
	}

	return report, nil
}

func (s *InventoryService) classifyLevel(detail repository.StockLevelDetail) StockLevelView {
	view := StockLevelView{
		StockLevelDetail: detail,
		Classification:   stock.ClassifyLevel(detail.Quantity, detail.ReorderLevel),
	}
	if view.Classification.IsAlert() {
		view.SuggestedReorder = stock.SuggestedReorderQuantity(detail.Quantity, detail.ReorderLevel, detail.ReorderQuantity)
	}
	return view
}

// Batch operations

// CreateBatch creates a new batch
func (s *InventoryService) CreateBatch(ctx context.Context, batch *repository.Batch) error {
	if _, err := s.productRepo.GetByID(ctx, batch.ProductID); err != nil {
		return err
	}
	if _, err := s.warehouseRepo.GetByID(ctx, batch.WarehouseID); err != nil {
		return err
	}

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)
	return nil
}

// GetBatch gets a classified batch by ID
func (s *InventoryService) GetBatch(ctx context.Context, id string) (*BatchView, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := classifyBatch(*batch, time.Now())
	return &view, nil
}

// ListBatches lists classified batches filtered by warehouse or product
func (s *InventoryService) ListBatches(ctx context.Context, warehouseID, productID string) ([]BatchView, error) {
	var (
		batches []repository.BatchDetail
		err     error
	)
	switch {
	case warehouseID != "":
		batches, err = s.batchRepo.ListByWarehouse(ctx, warehouseID)
	case productID != "":
		batches, err = s.batchRepo.ListByProduct(ctx, productID)
	default:
		batches, err = s.batchRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]BatchView, len(batches))
	for i, batch := range batches {
		views[i] = classifyBatch(batch, now)
	}

	return views, nil
}

// ExpiringBatches lists batches that are expired or inside the expiring-soon
// window
func (s *InventoryService) ExpiringBatches(ctx context.Context, warehouseID string) ([]BatchView, error) {
	views, err := s.ListBatches(ctx, warehouseID, "")
	if err != nil {
		return nil, err
	}

	expiring := make([]BatchView, 0)
	for _, v := range views {
		if v.ExpiryStatus == stock.BatchExpired || v.ExpiryStatus == stock.BatchExpiringSoon {
			expiring = append(expiring, v)
		}
	}

	return expiring, nil
}

// UpdateBatch updates a batch
func (s *InventoryService) UpdateBatch(ctx context.Context, batch *repository.Batch) error {
	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)
	return nil
}

// DeleteBatch deletes a batch
func (s *InventoryService) DeleteBatch(ctx context.Context, id string) error {
	if err := s.batchRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateDashboard(ctx)
	return nil
}

func classifyBatch(detail repository.BatchDetail, now time.Time) BatchView {
	c := stock.ClassifyBatch(detail.ExpiryDate, now)
	return BatchView{
		BatchDetail:     detail,
		ExpiryStatus:    c.Status,
		DaysUntilExpiry: c.DaysUntilExpiry,
	}
}

// Dashboard

// GetDashboardStats gets dashboard statistics, served from cache when fresh
func (s *InventoryService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if err != cache.ErrMiss {
			s.logger.Warn().Err(err).Msg("dashboard cache read failed")
		}
	}

	stats, err := s.computeDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}

	return stats, nil
}

func (s *InventoryService) computeDashboardStats(ctx context.Context) (*DashboardStats, error) {
	_, totalProducts, err := s.productRepo.List(ctx, 1, 1, "")
	if err != nil {
		return nil, err
	}

	warehouses, err := s.warehouseRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	levels, err := s.levelRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	openAlerts, err := s.alertRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	levelRecords := make([]stock.LevelRecord, len(levels))
	for i, l := range levels {
		price := l.UnitPrice
		levelRecords[i] = stock.LevelRecord{
			ProductID:    l.ProductID,
			WarehouseID:  l.WarehouseID,
			Quantity:     l.Quantity,
			ReorderLevel: l.ReorderLevel,
			UnitPrice:    &price,
		}
	}

	batchRecords := make([]stock.BatchRecord, len(batches))
	for i, b := range batches {
		batchRecords[i] = stock.BatchRecord{
			Quantity:   b.Quantity,
			ExpiryDate: b.ExpiryDate,
		}
	}

	return &DashboardStats{
		TotalProducts:   totalProducts,
		TotalWarehouses: len(warehouses),
		Levels:          stock.SummarizeLevels(levelRecords),
		Batches:         stock.SummarizeBatches(batchRecords, time.Now()),
		OpenAlerts:      openAlerts,
	}, nil
}

func (s *InventoryService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}
