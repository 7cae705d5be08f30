package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osas/osas-backend/internal/inventory/service"
	"github.com/osas/osas-backend/internal/inventory/stock"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// TransferHandler handles stock transfer endpoints
type TransferHandler struct {
	service *service.TransferService
	logger  *logger.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(svc *service.TransferService, log *logger.Logger) *TransferHandler {
	return &TransferHandler{
		service: svc,
		logger:  log,
	}
}

// quantityValue accepts a JSON string or number; the quantity field comes
// from a form and may arrive either way
type quantityValue string

func (q *quantityValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = quantityValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = quantityValue(n.String())
	return nil
}

type createTransferRequest struct {
	ProductID       string        `json:"product_id"`
	FromWarehouseID string        `json:"from_warehouse_id"`
	ToWarehouseID   string        `json:"to_warehouse_id"`
	Quantity        quantityValue `json:"quantity"`
	Notes           *string       `json:"notes,omitempty"`
}

// Create validates and records a new transfer request
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	input := stock.TransferInput{
		ProductID:       req.ProductID,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Quantity:        string(req.Quantity),
	}

	transfer, err := h.service.CreateTransfer(r.Context(), input, req.Notes, httputil.GetUserID(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, transfer)
}

// List lists transfers, optionally filtered by status
func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	transfers, err := h.service.ListTransfers(r.Context(), status)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, transfers)
}

// Get gets a transfer by ID
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transfer, err := h.service.GetTransfer(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, transfer)
}

// Approve approves a pending transfer and moves the stock
func (h *TransferHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transfer, err := h.service.ApproveTransfer(r.Context(), id, httputil.GetUserID(r.Context()))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, transfer)
}

// Reject rejects a pending transfer
func (h *TransferHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Reason string `json:"reason"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	transfer, err := h.service.RejectTransfer(r.Context(), id, httputil.GetUserID(r.Context()), req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, transfer)
}

// Complete marks an approved transfer as received
func (h *TransferHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	transfer, err := h.service.CompleteTransfer(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, transfer)
}
