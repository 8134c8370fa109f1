package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clientportal/internal/interfaces"
)

type AnalyticsHandler struct {
	repo interfaces.AnalyticsRepository
}

func NewAnalyticsHandler(repo interfaces.AnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo}
}

// ListAnalytics godoc
// @Tags Analytics
// @Summary Stored campaign analytics for a client, newest first
// @Security BearerAuth
// @Produce json
// @Param clientKey path string true "Client key"
// @Param limit query int false "Maximum rows (default 50, max 500)"
// @Success 200 {array} models.CampaignAnalytics
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/tenants/{clientKey}/analytics [get]
func (h *AnalyticsHandler) ListAnalytics(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	rows, err := h.repo.ListByClient(r.Context(), clientKey(r), limit)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to list analytics")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetAnalytics godoc
// @Tags Analytics
// @Summary One stored campaign analytics row
// @Security BearerAuth
// @Produce json
// @Param clientKey path string true "Client key"
// @Param id path string true "Row ID"
// @Success 200 {object} models.CampaignAnalytics
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{clientKey}/analytics/{id} [get]
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "analytics not found")
		return
	}

	row, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "analytics not found")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to load analytics")
		return
	}
	if row.ClientKey != clientKey(r) {
		writeJSONErrorResponse(w, http.StatusNotFound, "not_found", "analytics not found")
		return
	}
	writeJSON(w, http.StatusOK, row)
}
