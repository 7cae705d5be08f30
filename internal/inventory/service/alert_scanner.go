package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osas/osas-backend/internal/inventory/events"
	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/internal/inventory/stock"
	"github.com/osas/osas-backend/pkg/logger"
)

// Alert types raised by the scanner
const (
	AlertLowStock     = "low_stock"
	AlertExpired      = "expired"
	AlertExpiringSoon = "expiring_soon"
)

// AlertScanner scans stock levels and batches and raises alerts for low
// stock and expiry conditions. Alerts deduplicate against open ones and
// auto-resolve when the condition clears.
type AlertScanner struct {
	levelRepo *repository.LevelRepository
	batchRepo *repository.BatchRepository
	alertRepo *repository.AlertRepository
	publisher *events.InventoryEventPublisher
	logger    *logger.Logger
}

// NewAlertScanner creates a new alert scanner
func NewAlertScanner(
	levelRepo *repository.LevelRepository,
	batchRepo *repository.BatchRepository,
	alertRepo *repository.AlertRepository,
	publisher *events.InventoryEventPublisher,
	log *logger.Logger,
) *AlertScanner {
	return &AlertScanner{
		levelRepo: levelRepo,
		batchRepo: batchRepo,
		alertRepo: alertRepo,
		publisher: publisher,
		logger:    log,
	}
}

// ScanAll runs all alert scans. Logs errors but continues scanning.
func (s *AlertScanner) ScanAll(ctx context.Context) error {
	scanners := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"low_stock", s.scanLowStock},
		{"expiry", s.scanExpiry},
		{"resolve_cleared", s.resolveCleared},
	}

	var lastErr error
	for _, scanner := range scanners {
		if err := scanner.fn(ctx); err != nil {
			s.logger.Error().Err(err).Str("scanner", scanner.name).Msg("alert scan failed")
			lastErr = err
		}
	}

	return lastErr
}

// scanLowStock raises an alert for every stock level below its reorder level
func (s *AlertScanner) scanLowStock(ctx context.Context) error {
	levels, err := s.levelRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("scanLowStock: list stock levels: %w", err)
	}

	for _, level := range levels {
		c := stock.ClassifyLevel(level.Quantity, level.ReorderLevel)
		if !c.IsAlert() {
			continue
		}

		warehouseID := level.WarehouseID
		exists, err := s.alertRepo.ExistsOpen(ctx, AlertLowStock, level.ProductID, &warehouseID, nil)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", level.ProductID).Msg("scanLowStock: failed to check existing alert")
			continue
		}
		if exists {
			continue
		}

		quantity := level.Quantity
		reorderLevel := level.ReorderLevel
		suggested := stock.SuggestedReorderQuantity(quantity, reorderLevel, level.ReorderQuantity)

		alert := &repository.Alert{
			AlertType:    AlertLowStock,
			Severity:     strings.ToLower(string(c.Severity)),
			Message:      fmt.Sprintf("%s is low at %s (%d/%d), suggested reorder: %d", level.ProductName, level.WarehouseName, quantity, reorderLevel, suggested),
			ProductID:    level.ProductID,
			ProductName:  level.ProductName,
			WarehouseID:  &warehouseID,
			CurrentStock: &quantity,
			ReorderLevel: &reorderLevel,
		}

		if err := s.alertRepo.Create(ctx, alert); err != nil {
			s.logger.Error().Err(err).Str("product_id", level.ProductID).Msg("scanLowStock: failed to create alert")
			continue
		}

		s.publisher.PublishAlertGenerated(ctx, alert)
	}

	return nil
}

// scanExpiry raises an alert for every expired or expiring batch
func (s *AlertScanner) scanExpiry(ctx context.Context) error {
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("scanExpiry: list batches: %w", err)
	}

	now := time.Now()
	for _, batch := range batches {
		c := stock.ClassifyBatch(batch.ExpiryDate, now)

		var alertType, severity, message string
		switch c.Status {
		case stock.BatchExpired:
			alertType = AlertExpired
			severity = "critical"
			message = fmt.Sprintf("%s batch %s expired %d days ago", batch.ProductName, batch.BatchNumber, -*c.DaysUntilExpiry)
		case stock.BatchExpiringSoon:
			alertType = AlertExpiringSoon
			severity = "high"
			message = fmt.Sprintf("%s batch %s expires in %d days", batch.ProductName, batch.BatchNumber, *c.DaysUntilExpiry)
		default:
			continue
		}

		batchID := batch.ID
		exists, err := s.alertRepo.ExistsOpen(ctx, alertType, batch.ProductID, nil, &batchID)
		if err != nil {
			s.logger.Error().Err(err).Str("batch_id", batch.ID).Msg("scanExpiry: failed to check existing alert")
			continue
		}
		if exists {
			continue
		}

		batchNumber := batch.BatchNumber
		alert := &repository.Alert{
			AlertType:   alertType,
			Severity:    severity,
			Message:     message,
			ProductID:   batch.ProductID,
			ProductName: batch.ProductName,
			BatchID:     &batchID,
			BatchNumber: &batchNumber,
			ExpiryDate:  batch.ExpiryDate,
		}

		if err := s.alertRepo.Create(ctx, alert); err != nil {
			s.logger.Error().Err(err).Str("batch_id", batch.ID).Msg("scanExpiry: failed to create alert")
			continue
		}

		s.publisher.PublishAlertGenerated(ctx, alert)
	}

	return nil
}

// resolveCleared resolves open alerts whose underlying condition has cleared:
// low stock alerts once the level is back at or above the reorder level, and
// expiry alerts once the batch no longer exists or no longer matches.
func (s *AlertScanner) resolveCleared(ctx context.Context) error {
	alerts, err := s.alertRepo.ListOpen(ctx, "")
	if err != nil {
		return fmt.Errorf("resolveCleared: list open alerts: %w", err)
	}

	now := time.Now()
	for _, alert := range alerts {
		switch alert.AlertType {
		case AlertLowStock:
			if alert.WarehouseID == nil {
				continue
			}
			level, err := s.levelRepo.Get(ctx, alert.ProductID, *alert.WarehouseID)
			if err != nil {
				continue
			}
			if alert.ReorderLevel != nil && !stock.ClassifyLevel(level.Quantity, *alert.ReorderLevel).IsAlert() {
				s.resolve(ctx, alert)
			}

		case AlertExpired, AlertExpiringSoon:
			if alert.BatchID == nil {
				continue
			}
			batch, err := s.batchRepo.GetByID(ctx, *alert.BatchID)
			if err != nil {
				// Batch was consumed or deleted
				s.resolve(ctx, alert)
				continue
			}
			c := stock.ClassifyBatch(batch.ExpiryDate, now)
			cleared := (alert.AlertType == AlertExpired && c.Status != stock.BatchExpired) ||
				(alert.AlertType == AlertExpiringSoon && c.Status != stock.BatchExpiringSoon)
			if cleared || batch.Quantity == 0 {
				s.resolve(ctx, alert)
			}
		}
	}

	return nil
}

func (s *AlertScanner) resolve(ctx context.Context, alert repository.Alert) {
	if err := s.alertRepo.ResolveForEntity(ctx, alert.AlertType, alert.ProductID, alert.WarehouseID, alert.BatchID); err != nil {
		s.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("resolveCleared: failed to resolve alert")
	}
}
