package models

import (
	"encoding/json"
	"time"
)

// CampaignAnalytics is one row of the campaign_analytics table written by the webhook receiver.
type CampaignAnalytics struct {
	ID                          string          `json:"id"`
	ClientKey                   string          `json:"client_key"`
	TotalReplyCount             int64           `json:"total_reply_count"`
	TotalEmailsSentCount        int64           `json:"total_emails_sent_count"`
	TotalNewLeadsContactedCount int64           `json:"total_new_leads_contacted_count"`
	TotalOpportunities          int64           `json:"total_opportunities"`
	TotalOpportunityValue       float64         `json:"total_opportunity_value"`
	DailyAnalytics              json.RawMessage `json:"daily_analytics"`
	CreatedAt                   time.Time       `json:"created_at"`
}
