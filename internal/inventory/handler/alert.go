package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osas/osas-backend/internal/inventory/repository"
	"github.com/osas/osas-backend/pkg/httputil"
	"github.com/osas/osas-backend/pkg/logger"
)

// AlertHandler handles alert endpoints
type AlertHandler struct {
	repo   *repository.AlertRepository
	logger *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(repo *repository.AlertRepository, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		repo:   repo,
		logger: log,
	}
}

// List lists open alerts, critical first
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alertType := r.URL.Query().Get("type")

	alerts, err := h.repo.ListOpen(r.Context(), alertType)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alerts)
}

// Acknowledge acknowledges an alert
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := httputil.GetUserID(r.Context())

	if err := h.repo.Acknowledge(r.Context(), id, userID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
