package handlers

import (
	"net/http"

	"clientportal/internal/models"
	"clientportal/internal/observability"
	"clientportal/internal/report"
)

type ReportHandler struct {
	dashboards DashboardService
	tenants    TenantLookup
	exporter   ReportExporter
	logger     *observability.Logger
}

// NewReportHandler accepts a nil exporter; export then answers 503.
func NewReportHandler(dashboards DashboardService, tenants TenantLookup, exporter ReportExporter, logger *observability.Logger) *ReportHandler {
	if logger == nil {
		logger = observability.NewNop()
	}
	return &ReportHandler{dashboards: dashboards, tenants: tenants, exporter: exporter, logger: logger}
}

// ExportReport godoc
// @Tags Reports
// @Summary Export the current dashboard as a JSON report to object storage
// @Security BearerAuth
// @Produce json
// @Param clientKey path string true "Client key"
// @Success 201 {object} services.ExportResult
// @Failure 500 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/tenants/{clientKey}/reports/export [post]
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		writeJSONErrorResponse(w, http.StatusServiceUnavailable, "export_disabled", "Report export is not configured")
		return
	}

	key := clientKey(r)
	snap, ok := h.dashboards.Latest(key)
	if !ok {
		snap = h.dashboards.LoadInitial(r.Context(), key, models.DateRange{})
	}

	label := key
	if t, err := h.tenants.Get(key); err == nil {
		label = t.Label()
	}

	res, err := h.exporter.Export(r.Context(), key, report.Build(label, snap))
	if err != nil {
		h.logger.Error(r.Context(), "report export failed", err)
		writeJSONErrorResponse(w, http.StatusInternalServerError, "export_failed", "Failed to export report")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
