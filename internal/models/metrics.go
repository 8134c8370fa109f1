// internal/models/metrics.go
package models

import "time"

// CampaignMetrics is the normalized campaign record shown on the dashboard.
// Every field is always populated; missing upstream values are coerced to zero.
type CampaignMetrics struct {
	ReplyCount             int64     `json:"replyCount"`
	EmailsSentCount        int64     `json:"emailsSentCount"`
	NewLeadsContactedCount int64     `json:"newLeadsContactedCount"`
	TotalOpportunities     int64     `json:"totalOpportunities"`
	TotalOpportunityValue  float64   `json:"totalOpportunityValue"`
	TotalInterested        int64     `json:"totalInterested"`
	LastUpdated            time.Time `json:"lastUpdated"`
}

// DailyAnalytics is one day of campaign activity as reported by the webhook.
type DailyAnalytics struct {
	Date          string `json:"date"`
	Sent          int64  `json:"sent"`
	Opened        int64  `json:"opened"`
	UniqueOpened  int64  `json:"unique_opened"`
	Replies       int64  `json:"replies"`
	UniqueReplies int64  `json:"unique_replies"`
	Clicks        int64  `json:"clicks"`
	UniqueClicks  int64  `json:"unique_clicks"`
}

type SnapshotSource string

const (
	SourceWebhook   SnapshotSource = "webhook"
	SourceSimulated SnapshotSource = "simulated"
)

// Snapshot is the latest known metrics for a tenant together with how they were obtained.
type Snapshot struct {
	ClientKey  string           `json:"client_key"`
	Metrics    CampaignMetrics  `json:"metrics"`
	Daily      []DailyAnalytics `json:"daily,omitempty"`
	Source     SnapshotSource   `json:"source"`
	Simulated  bool             `json:"simulated"`
	Diagnostic string           `json:"diagnostic,omitempty"`
	Range      DateRange        `json:"range"`
	Sequence   uint64           `json:"sequence"`
	Stale      bool             `json:"stale,omitempty"`
}

// DateRange is an optional inclusive day range. The zero value means "no range".
type DateRange struct {
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

const DateLayout = "2006-01-02"

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r DateRange) StartDate() string {
	if r.Start.IsZero() {
		return ""
	}
	return r.Start.Format(DateLayout)
}

func (r DateRange) EndDate() string {
	if r.End.IsZero() {
		return ""
	}
	return r.End.Format(DateLayout)
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`{"startDate":"` + r.StartDate() + `","endDate":"` + r.EndDate() + `"}`), nil
}

// ParseDateRange parses a yyyy-MM-dd pair. Both or neither must be set.
func ParseDateRange(start, end string) (DateRange, error) {
	if start == "" && end == "" {
		return DateRange{}, nil
	}
	if start == "" || end == "" {
		return DateRange{}, ErrIncompleteRange
	}
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, ErrInvalidDate
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, ErrInvalidDate
	}
	if e.Before(s) {
		return DateRange{}, ErrInvertedRange
	}
	return DateRange{Start: s, End: e}, nil
}

type rangeError string

func (e rangeError) Error() string { return string(e) }

const (
	ErrIncompleteRange rangeError = "startDate and endDate must be given together"
	ErrInvalidDate     rangeError = "dates must use the yyyy-MM-dd format"
	ErrInvertedRange   rangeError = "startDate must not be after endDate"
)
