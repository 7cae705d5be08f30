package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/internal/inventory/service"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// WarehouseHandler handles warehouse endpoints
type WarehouseHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(svc *service.InventoryService, log *logger.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		service: svc,
		logger:  log,
	}
}

// List lists warehouses
func (h *WarehouseHandler) List(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.ListWarehouses(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, warehouses)
}

// Get gets a warehouse by ID
func (h *WarehouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	warehouse, err := h.service.GetWarehouse(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, warehouse)
}

// Create creates a new warehouse
func (h *WarehouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var warehouse repository.Warehouse
	if err := httputil.DecodeJSON(r, &warehouse); err != nil {
		httputil.Error(w, err)
		return
	}

	warehouse.IsActive = true
	if err := h.service.CreateWarehouse(r.Context(), &warehouse); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, warehouse)
}

// Update updates a warehouse
func (h *WarehouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var warehouse repository.Warehouse
	if err := httputil.DecodeJSON(r, &warehouse); err != nil {
		httputil.Error(w, err)
		return
	}

	warehouse.ID = id
	if err := h.service.UpdateWarehouse(r.Context(), &warehouse); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, warehouse)
}

// Delete deletes a warehouse
func (h *WarehouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteWarehouse(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
