package models

// Webhook actions sent to the automation platform.
const (
	ActionFetchInitialMetrics = "fetch_initial_metrics"
	ActionRefreshDashboard    = "refresh_dashboard"
)

// WebhookTrigger is the POST body sent to a tenant's webhook.
type WebhookTrigger struct {
	Action    string `json:"action"`
	ClientKey string `json:"client_key"`
	Timestamp string `json:"timestamp"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Origin    string `json:"origin,omitempty"`
}

// WebhookProxyRequest is the body accepted by the webhook proxy function.
type WebhookProxyRequest struct {
	WebhookURL string         `json:"webhookUrl" validate:"required,http_url"`
	Method     string         `json:"method" validate:"omitempty,oneof=GET POST"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// WebhookReceiverRequest is the body pushed to the webhook receiver function.
// Values stay untyped because the platform sends numbers and numeric strings interchangeably.
type WebhookReceiverRequest struct {
	OverAllCampaignAnalytics map[string]any `json:"overAllCampaignAnalytics"`
	DailyCampaignAnalytics   any            `json:"dailyCampaignAnalytics,omitempty"`
	ClientKey                string         `json:"client_key,omitempty" validate:"omitempty,max=128"`
}

// DashboardRangeRequest carries an optional date range for load/refresh calls.
type DashboardRangeRequest struct {
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02,required_with=EndDate"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02,required_with=StartDate"`
}
