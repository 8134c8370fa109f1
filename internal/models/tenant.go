package models

import "strings"

// WebhookConfig points a tenant at its automation webhook.
type WebhookConfig struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
	Method  string `json:"method,omitempty"`
}

// TenantConfig is the per-client configuration looked up by client key.
type TenantConfig struct {
	Key             string        `json:"-"`
	Name            string        `json:"name"`
	DisplayName     string        `json:"display_name,omitempty"`
	Timezone        string        `json:"timezone,omitempty"`
	PasswordHash    string        `json:"password_hash,omitempty"`
	CooldownSeconds int           `json:"cooldown_seconds,omitempty"`
	Webhook         WebhookConfig `json:"webhook"`
}

func (t TenantConfig) WebhookConfigured() bool {
	return t.Webhook.Enabled && strings.TrimSpace(t.Webhook.URL) != ""
}

// WebhookMethod defaults to POST so the trigger payload reaches the platform.
func (t TenantConfig) WebhookMethod() string {
	if strings.EqualFold(t.Webhook.Method, "GET") {
		return "GET"
	}
	return "POST"
}

func (t TenantConfig) Label() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	if t.Name != "" {
		return t.Name
	}
	return t.Key
}

func (t TenantConfig) RequiresSession() bool {
	return t.PasswordHash != ""
}
