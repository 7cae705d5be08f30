package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osas/osas-backend/internal/staff/repository"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	repo   *repository.EmployeeRepository
	logger *logger.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(repo *repository.EmployeeRepository, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		repo:   repo,
		logger: log,
	}
}

// List lists employees
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	warehouseID := r.URL.Query().Get("warehouse_id")

	employees, total, err := h.repo.List(r.Context(), page, perPage, warehouseID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	httputil.JSONWithMeta(w, http.StatusOK, employees, &httputil.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Get gets an employee by ID
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	employee, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, employee)
}

// Create creates a new employee
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var employee repository.Employee
	if err := httputil.DecodeJSON(r, &employee); err != nil {
		httputil.Error(w, err)
		return
	}

	employee.IsActive = true
	if err := h.repo.Create(r.Context(), &employee); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, employee)
}

// Update updates an employee
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var employee repository.Employee
	if err := httputil.DecodeJSON(r, &employee); err != nil {
		httputil.Error(w, err)
		return
	}

	employee.ID = id
	if err := h.repo.Update(r.Context(), &employee); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, employee)
}

// Delete deletes an employee
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
