package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osas/osas-backend/internal/sales/repository"
	"github.com/osas/osas-backend/internal/sales/service"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// RetailerHandler handles retailer endpoints
type RetailerHandler struct {
	service *service.SalesService
	logger  *logger.Logger
}

// NewRetailerHandler creates a new retailer handler
func NewRetailerHandler(svc *service.SalesService, log *logger.Logger) *RetailerHandler {
	return &RetailerHandler{
		service: svc,
		logger:  log,
	}
}

// List lists retailers
func (h *RetailerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	retailers, total, err := h.service.ListRetailers(r.Context(), page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	httputil.JSONWithMeta(w, http.StatusOK, retailers, &httputil.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Get gets a retailer by ID
func (h *RetailerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	retailer, err := h.service.GetRetailer(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, retailer)
}

// Create creates a new retailer
func (h *RetailerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var retailer repository.Retailer
	if err := httputil.DecodeJSON(r, &retailer); err != nil {
		httputil.Error(w, err)
		return
	}

	retailer.IsActive = true
	if err := h.service.CreateRetailer(r.Context(), &retailer); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, retailer)
}

// Update updates a retailer
func (h *RetailerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var retailer repository.Retailer
	if err := httputil.DecodeJSON(r, &retailer); err != nil {
		httputil.Error(w, err)
		return
	}

	retailer.ID = id
	if err := h.service.UpdateRetailer(r.Context(), &retailer); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, retailer)
}

// Delete deletes a retailer
func (h *RetailerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteRetailer(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
