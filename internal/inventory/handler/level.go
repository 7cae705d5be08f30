package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osas/osas-backend/internal/inventory/service"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// LevelHandler handles stock level endpoints
type LevelHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewLevelHandler creates a new stock level handler
func NewLevelHandler(svc *service.InventoryService, log *logger.Logger) *LevelHandler {
	return &LevelHandler{
		service: svc,
		logger:  log,
	}
}

// List lists classified stock levels, optionally for one warehouse
func (h *LevelHandler) List(w http.ResponseWriter, r *http.Request) {
	warehouseID := r.URL.Query().Get("warehouse_id")

	levels, err := h.service.ListStockLevels(r.Context(), warehouseID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, levels)
}

// Get gets the classified stock level for a product at a warehouse
func (h *LevelHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	warehouseID := chi.URLParam(r, "warehouseId")

	level, err := h.service.GetStockLevel(r.Context(), productID, warehouseID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, level)
}

// Set sets the quantity for a product at a warehouse
func (h *LevelHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID   string `json:"product_id" validate:"required,uuid"`
		WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
		Quantity    int    `json:"quantity" validate:"min=0"`
		Reason      string `json:"reason"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	level, err := h.service.SetStockLevel(r.Context(), req.ProductID, req.WarehouseID, req.Quantity, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, level)
}

// LowStockReport lists stock levels below their reorder level with a
// suggested reorder quantity for each
func (h *LevelHandler) LowStockReport(w http.ResponseWriter, r *http.Request) {
	warehouseID := r.URL.Query().Get("warehouse_id")

	report, err := h.service.LowStockReport(r.Context(), warehouseID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}
