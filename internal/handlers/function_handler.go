package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"clientportal/internal/interfaces"
	"clientportal/internal/models"
	"clientportal/internal/normalize"
	"clientportal/internal/observability"
	"clientportal/internal/services"
)

const rawResponsePreview = 200

// FunctionHandler serves the two public functions the portal front end calls
// directly: the CORS-bypassing webhook proxy and the analytics receiver.
type FunctionHandler struct {
	webhook          WebhookCaller
	repo             interfaces.AnalyticsRepository
	allowedHosts     map[string]bool
	defaultClientKey string
	logger           *observability.Logger
	validator        *validator.Validate
}

func NewFunctionHandler(webhook WebhookCaller, repo interfaces.AnalyticsRepository, allowedHosts []string, defaultClientKey string, logger *observability.Logger) *FunctionHandler {
	hosts := make(map[string]bool, len(allowedHosts))
	for _, h := range allowedHosts {
		hosts[strings.ToLower(strings.TrimSpace(h))] = true
	}
	if logger == nil {
		logger = observability.NewNop()
	}
	return &FunctionHandler{
		webhook:          webhook,
		repo:             repo,
		allowedHosts:     hosts,
		defaultClientKey: defaultClientKey,
		logger:           logger,
		validator:        validator.New(),
	}
}

// WebhookProxy godoc
// @Tags Functions
// @Summary Forward a request to an automation webhook
// @Accept json
// @Produce json
// @Param request body models.WebhookProxyRequest true "Webhook target"
// @Success 200 {object} map[string]interface{}
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /functions/webhook-proxy [post]
func (h *FunctionHandler) WebhookProxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.WebhookProxyRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body"})
		return
	}
	req.WebhookURL = strings.TrimSpace(req.WebhookURL)
	req.Method = strings.ToUpper(strings.TrimSpace(req.Method))
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	if req.WebhookURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "webhookUrl is required"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request", "message": err.Error()})
		return
	}
	if !h.hostAllowed(req.WebhookURL) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "webhookUrl host is not allowed"})
		return
	}

	call := services.WebhookRequest{URL: req.WebhookURL, Method: req.Method}
	if req.Method == http.MethodPost && req.Payload != nil {
		call.Payload = req.Payload
	}

	h.logger.Info(ctx, "proxying webhook request", zap.String("method", req.Method), zap.String("url", req.WebhookURL))
	resp, err := h.webhook.Do(ctx, call)
	if err != nil {
		h.logger.Error(ctx, "webhook proxy request failed", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "Internal server error", "message": err.Error()})
		return
	}

	if !resp.OK() {
		h.logger.Warn(ctx, "webhook returned error status", zap.Int("status", resp.StatusCode))
		writeJSON(w, resp.StatusCode, map[string]any{
			"error":      "Webhook request failed",
			"status":     resp.StatusCode,
			"statusText": resp.StatusText(),
		})
		return
	}

	body := strings.TrimSpace(string(resp.Body))
	if body == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !json.Valid([]byte(body)) {
		h.logger.Warn(ctx, "webhook response is not JSON", zap.String("preview", preview(body, 100)))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":       "Invalid JSON response from webhook",
			"rawResponse": preview(body, rawResponsePreview),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// WebhookReceiver godoc
// @Tags Functions
// @Summary Store campaign analytics pushed by the automation platform
// @Accept json
// @Produce json
// @Param request body models.WebhookReceiverRequest true "Campaign analytics"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /functions/webhook-receiver [post]
func (h *FunctionHandler) WebhookReceiver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.WebhookReceiverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid JSON body", "details": err.Error()})
		return
	}
	if req.OverAllCampaignAnalytics == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Missing overAllCampaignAnalytics"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid request", "details": err.Error()})
		return
	}

	// Tenant routes look rows up by the canonical lowercase key.
	clientKey := strings.ToLower(strings.TrimSpace(req.ClientKey))
	if clientKey == "" {
		clientKey = strings.ToLower(strings.TrimSpace(h.defaultClientKey))
	}

	overall := req.OverAllCampaignAnalytics
	row := &models.CampaignAnalytics{
		ClientKey:                   clientKey,
		TotalReplyCount:             normalize.Int(overall["total_reply_count"]),
		TotalEmailsSentCount:        normalize.Int(overall["total_emails_sent_count"]),
		TotalNewLeadsContactedCount: normalize.Int(overall["total_new_leads_contacted_count"]),
		TotalOpportunities:          normalize.Int(overall["total_opportunities"]),
		TotalOpportunityValue:       normalize.Number(overall["total_opportunity_value"]),
		DailyAnalytics:              dailyJSON(req.DailyCampaignAnalytics),
	}

	if err := h.repo.Create(ctx, row); err != nil {
		h.logger.Error(ctx, "failed to save campaign analytics", err, zap.String("client_key", clientKey))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Failed to save data", "details": err.Error()})
		return
	}

	h.logger.Info(ctx, "saved campaign analytics", zap.String("client_key", clientKey), zap.String("id", row.ID))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": row})
}

func (h *FunctionHandler) hostAllowed(raw string) bool {
	if len(h.allowedHosts) == 0 {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return h.allowedHosts[strings.ToLower(u.Hostname())]
}

// dailyJSON accepts the daily breakdown as a JSON string or an already
// decoded value. Anything unparsable is dropped.
func dailyJSON(v any) json.RawMessage {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" || !json.Valid([]byte(s)) {
			return nil
		}
		return json.RawMessage(s)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return b
	}
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
