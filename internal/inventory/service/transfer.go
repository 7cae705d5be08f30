package service

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/osas/osas-backend/internal/inventory/events"
	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/internal/inventory/stock"
	"github.com/osas/osas-backend/pkg/database"
	"github.com/osas/osas-backend/pkg/errors"
	"github.com/osas/osas-backend/pkg/logger"
)

// TransferService handles stock transfer requests and their approval flow.
// Creating a transfer never moves stock; quantities change only when an
// approval commits.
type TransferService struct {
	db           *database.DB
	transferRepo *repository.TransferRepository
	levelRepo    *repository.LevelRepository
	productRepo  *repository.ProductRepository
	publisher    *events.InventoryEventPublisher
	logger       *logger.Logger
}

// NewTransferService creates a new transfer service
func NewTransferService(
	db *database.DB,
	transferRepo *repository.TransferRepository,
	levelRepo *repository.LevelRepository,
	productRepo *repository.ProductRepository,
	publisher *events.InventoryEventPublisher,
	log *logger.Logger,
) *TransferService {
	return &TransferService{
		db:           db,
		transferRepo: transferRepo,
		levelRepo:    levelRepo,
		productRepo:  productRepo,
		publisher:    publisher,
		logger:       log,
	}
}

// CreateTransfer validates a proposed transfer against current stock and
// records it as pending. Validation errors accumulate per field.
func (s *TransferService) CreateTransfer(ctx context.Context, input stock.TransferInput, notes *string, requestedBy string) (*repository.StockTransfer, error) {
	available := 0
	if input.ProductID != "" && input.FromWarehouseID != "" {
		qty, err := s.levelRepo.GetQuantity(ctx, input.ProductID, input.FromWarehouseID)
		if err != nil {
			return nil, err
		}
		available = qty
	}

	result := stock.ValidateTransfer(input, available)
	if !result.Valid {
		return nil, errors.Validation(result.Errors)
	}

	quantity, _ := strconv.Atoi(input.Quantity)

	transfer := &repository.StockTransfer{
		TransferNumber:  stock.NewTransferNumber(),
		ProductID:       input.ProductID,
		FromWarehouseID: input.FromWarehouseID,
		ToWarehouseID:   input.ToWarehouseID,
		Quantity:        quantity,
		Status:          stock.TransferPending,
		Notes:           notes,
	}
	if requestedBy != "" {
		transfer.RequestedBy = &requestedBy
	}

	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		return nil, err
	}

	s.publisher.PublishTransferRequested(ctx, transfer)

	return transfer, nil
}

// GetTransfer gets a transfer by ID
func (s *TransferService) GetTransfer(ctx context.Context, id string) (*repository.StockTransfer, error) {
	return s.transferRepo.GetByID(ctx, id)
}

// ListTransfers lists transfers, optionally filtered by status
func (s *TransferService) ListTransfers(ctx context.Context, status string) ([]repository.StockTransfer, error) {
	return s.transferRepo.List(ctx, status)
}

// ApproveTransfer re-validates a pending transfer against current stock and
// moves the quantity between warehouses. Everything runs in one transaction
// with the source stock row locked, so concurrent approvals cannot overdraw
// the source warehouse.
func (s *TransferService) ApproveTransfer(ctx context.Context, id, approvedBy string) (*repository.StockTransfer, error) {
	var transfer *repository.StockTransfer
	var newSourceQty, newDestQty int

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		t, err := s.transferRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if t.Status != stock.TransferPending {
			return errors.Conflict("only pending transfers can be approved")
		}

		available, err := s.levelRepo.GetQuantityForUpdate(ctx, tx, t.ProductID, t.FromWarehouseID)
		if err != nil {
			return err
		}

		result := stock.ValidateTransfer(stock.TransferInput{
			ProductID:       t.ProductID,
			FromWarehouseID: t.FromWarehouseID,
			ToWarehouseID:   t.ToWarehouseID,
			Quantity:        strconv.Itoa(t.Quantity),
		}, available)
		if !result.Valid {
			return errors.Validation(result.Errors)
		}

		if newSourceQty, err = s.levelRepo.AdjustQuantityTx(ctx, tx, t.ProductID, t.FromWarehouseID, -t.Quantity); err != nil {
			return err
		}
		if newDestQty, err = s.levelRepo.AdjustQuantityTx(ctx, tx, t.ProductID, t.ToWarehouseID, t.Quantity); err != nil {
			return err
		}

		if err := s.transferRepo.MarkApprovedTx(ctx, tx, t.ID, approvedBy); err != nil {
			return err
		}

		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	transfer.Status = stock.TransferApproved
	transfer.ApprovedBy = &approvedBy

	reason := "transfer " + transfer.TransferNumber
	s.publisher.PublishTransferApproved(ctx, transfer)
	s.publisher.PublishStockAdjusted(ctx, transfer.ProductID, transfer.FromWarehouseID, -transfer.Quantity, newSourceQty, reason)
	s.publisher.PublishStockAdjusted(ctx, transfer.ProductID, transfer.ToWarehouseID, transfer.Quantity, newDestQty, reason)

	s.logger.Info().
		Str("transfer_id", transfer.ID).
		Str("transfer_number", transfer.TransferNumber).
		Int("quantity", transfer.Quantity).
		Msg("transfer approved")

	return transfer, nil
}

// RejectTransfer rejects a pending transfer with a reason
func (s *TransferService) RejectTransfer(ctx context.Context, id, rejectedBy, reason string) (*repository.StockTransfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer.Status != stock.TransferPending {
		return nil, errors.Conflict("only pending transfers can be rejected")
	}

	if err := s.transferRepo.MarkRejected(ctx, id, rejectedBy, reason); err != nil {
		return nil, err
	}

	transfer.Status = stock.TransferRejected
	transfer.ApprovedBy = &rejectedBy
	transfer.RejectionReason = &reason

	s.publisher.PublishTransferRejected(ctx, transfer)

	return transfer, nil
}

// CompleteTransfer marks an approved transfer as received at the destination
func (s *TransferService) CompleteTransfer(ctx context.Context, id string) (*repository.StockTransfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer.Status != stock.TransferApproved {
		return nil, errors.Conflict("only approved transfers can be completed")
	}

	if err := s.transferRepo.MarkCompleted(ctx, id); err != nil {
		return nil, err
	}

	transfer.Status = stock.TransferCompleted

	s.publisher.PublishTransferCompleted(ctx, transfer)

	return transfer, nil
}
