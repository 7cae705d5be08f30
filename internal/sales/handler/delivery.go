package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osas/osas-backend/internal/sales/service"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// DeliveryHandler handles delivery endpoints
type DeliveryHandler struct {
	service *service.SalesService
	logger  *logger.Logger
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(svc *service.SalesService, log *logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		service: svc,
		logger:  log,
	}
}

// List lists deliveries, optionally filtered by status
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	deliveries, err := h.service.ListDeliveries(r.Context(), status)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, deliveries)
}

// Get gets a delivery by ID
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	delivery, err := h.service.GetDelivery(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, delivery)
}

// Create records a pending delivery for an issued invoice
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceID  string  `json:"invoice_id" validate:"required,uuid"`
		DriverName *string `json:"driver_name,omitempty"`
		Vehicle    *string `json:"vehicle,omitempty"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	delivery, err := h.service.CreateDelivery(r.Context(), req.InvoiceID, req.DriverName, req.Vehicle)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, delivery)
}

// Dispatch moves a pending delivery to in transit
func (h *DeliveryHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		DriverName string  `json:"driver_name"`
		Vehicle    *string `json:"vehicle,omitempty"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	delivery, err := h.service.DispatchDelivery(r.Context(), id, req.DriverName, req.Vehicle)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, delivery)
}

// Complete marks an in-transit delivery delivered
func (h *DeliveryHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	delivery, err := h.service.CompleteDelivery(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, delivery)
}

// Fail records a failed delivery attempt
func (h *DeliveryHandler) Fail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Reason string `json:"reason"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	delivery, err := h.service.FailDelivery(r.Context(), id, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, delivery)
}
