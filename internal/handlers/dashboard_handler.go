package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"clientportal/internal/middleware"
	"clientportal/internal/models"
	"clientportal/internal/refresh"
	"clientportal/internal/report"
)

type DashboardResponse struct {
	Snapshot models.Snapshot        `json:"snapshot"`
	View     report.DashboardView   `json:"view"`
	Cooldown refresh.CooldownStatus `json:"cooldown"`
}

type RefreshResponse struct {
	Refreshed     bool                   `json:"refreshed"`
	SkippedReason string                 `json:"skipped_reason,omitempty"`
	Cooldown      refresh.CooldownStatus `json:"cooldown"`
	Snapshot      *models.Snapshot       `json:"snapshot,omitempty"`
	View          *report.DashboardView  `json:"view,omitempty"`
}

type DashboardHandler struct {
	dashboards DashboardService
	tenants    TenantLookup
	validator  *validator.Validate
}

func NewDashboardHandler(dashboards DashboardService, tenants TenantLookup) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		tenants:    tenants,
		validator:  validator.New(),
	}
}

// GetDashboard godoc
// @Tags Dashboard
// @Summary Latest metrics and rendered dashboard for a client
// @Security BearerAuth
// @Produce json
// @Param clientKey path string true "Client key"
// @Param startDate query string false "Range start (yyyy-MM-dd)"
// @Param endDate query string false "Range end (yyyy-MM-dd)"
// @Success 200 {object} handlers.DashboardResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/tenants/{clientKey}/dashboard [get]
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	key := clientKey(r)
	rng, ok := h.parseRange(w, models.DashboardRangeRequest{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
	})
	if !ok {
		return
	}

	snap, found := h.dashboards.Latest(key)
	if !found || !sameRange(snap.Range, rng) {
		snap = h.dashboards.LoadInitial(r.Context(), key, rng)
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		Snapshot: snap,
		View:     report.Build(h.label(key), snap),
		Cooldown: h.dashboards.Status(r.Context(), key),
	})
}

// LoadDashboard godoc
// @Tags Dashboard
// @Summary Load metrics for a freshly opened dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param clientKey path string true "Client key"
// @Param request body models.DashboardRangeRequest false "Optional date range"
// @Success 200 {object} handlers.DashboardResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/tenants/{clientKey}/dashboard/load [post]
func (h *DashboardHandler) LoadDashboard(w http.ResponseWriter, r *http.Request) {
	key := clientKey(r)
	var req models.DashboardRangeRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	rng, ok := h.parseRange(w, req)
	if !ok {
		return
	}

	snap := h.dashboards.LoadInitial(r.Context(), key, rng)
	writeJSON(w, http.StatusOK, DashboardResponse{
		Snapshot: snap,
		View:     report.Build(h.label(key), snap),
		Cooldown: h.dashboards.Status(r.Context(), key),
	})
}

// RefreshDashboard godoc
// @Tags Dashboard
// @Summary Trigger a manual refresh
// @Description Always answers 200. refreshed is false when the cooldown is active or another refresh is running.
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param clientKey path string true "Client key"
// @Param request body models.DashboardRangeRequest false "Optional date range"
// @Success 200 {object} handlers.RefreshResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/tenants/{clientKey}/dashboard/refresh [post]
func (h *DashboardHandler) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	key := clientKey(r)
	var req models.DashboardRangeRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	rng, ok := h.parseRange(w, req)
	if !ok {
		return
	}

	res := h.dashboards.Refresh(r.Context(), key, rng)
	out := RefreshResponse{
		Refreshed:     res.Refreshed,
		SkippedReason: res.SkippedReason,
		Cooldown:      res.Cooldown,
		Snapshot:      res.Snapshot,
	}
	if res.Snapshot != nil {
		view := report.Build(h.label(key), *res.Snapshot)
		out.View = &view
	}
	writeJSON(w, http.StatusOK, out)
}

// RefreshStatus godoc
// @Tags Dashboard
// @Summary Refresh cooldown status
// @Security BearerAuth
// @Produce json
// @Param clientKey path string true "Client key"
// @Success 200 {object} refresh.CooldownStatus
// @Router /api/v1/tenants/{clientKey}/dashboard/refresh [get]
func (h *DashboardHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dashboards.Status(r.Context(), clientKey(r)))
}

func (h *DashboardHandler) parseRange(w http.ResponseWriter, req models.DashboardRangeRequest) (models.DateRange, bool) {
	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", "startDate and endDate must be given together as yyyy-MM-dd")
		return models.DateRange{}, false
	}
	rng, err := models.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return models.DateRange{}, false
	}
	return rng, true
}

func (h *DashboardHandler) label(key string) string {
	if t, err := h.tenants.Get(key); err == nil {
		return t.Label()
	}
	return key
}

// clientKey prefers the key resolved by SessionAuth and falls back to the path.
func clientKey(r *http.Request) string {
	if k := middleware.ClientKeyFromContext(r.Context()); k != "" {
		return k
	}
	return strings.ToLower(strings.TrimSpace(chi.URLParam(r, "clientKey")))
}

func sameRange(a, b models.DateRange) bool {
	return a.Start.Equal(b.Start) && a.End.Equal(b.End)
}
