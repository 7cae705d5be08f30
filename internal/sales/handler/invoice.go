package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/osas/osas-backend/internal/sales/service"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	service *service.SalesService
	logger  *logger.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(svc *service.SalesService, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: svc,
		logger:  log,
	}
}

// List lists invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	status := r.URL.Query().Get("status")
	retailerID := r.URL.Query().Get("retailer_id")

	invoices, total, err := h.service.ListInvoices(r.Context(), page, perPage, status, retailerID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	httputil.JSONWithMeta(w, http.StatusOK, invoices, &httputil.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Get gets an invoice with its lines
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	invoice, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, invoice)
}

// Create prices and records a new draft invoice
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RetailerID string              `json:"retailer_id" validate:"required,uuid"`
		TaxRate    decimal.Decimal     `json:"tax_rate"`
		Notes      *string             `json:"notes,omitempty"`
		Lines      []service.LineInput `json:"lines"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	invoice, err := h.service.CreateInvoice(r.Context(), req.RetailerID, req.TaxRate, req.Notes, req.Lines)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, invoice)
}

// Issue issues a draft invoice
func (h *InvoiceHandler) Issue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	invoice, err := h.service.IssueInvoice(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, invoice)
}

// Pay marks an issued invoice paid
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	invoice, err := h.service.PayInvoice(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, invoice)
}

// Cancel cancels a draft or issued invoice
func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	invoice, err := h.service.CancelInvoice(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, invoice)
}
