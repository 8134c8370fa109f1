// Package normalize converts whatever the automation webhook returned into a
// fully populated models.CampaignMetrics.
//
// The webhook has no stable schema. Recognized shapes:
//
//	flat:   {"reply_count": .., "emails_sent_count": .., ...}
//	array:  [[{"sent": .., "unique_replies": ..}, ...], {"totalLeadsContacted": .., ...}]
//	nested: {"overAllCampaignAnalytics": {...}, "dailyCampaignAnalytics": "[...]"}
//
// Bodies that are not valid JSON are salvaged by extracting an array fragment
// and a summary object fragment from the text.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"clientportal/internal/models"
)

var (
	ErrEmptyBody         = errors.New("empty response body")
	ErrNotJSON           = errors.New("response is not JSON and no fragments could be salvaged")
	ErrUnrecognizedShape = errors.New("unrecognized payload shape")
)

// Shape is the structural variant a payload was detected as.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeFlat
	ShapeArray
	ShapeNested
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeArray:
		return "array"
	case ShapeNested:
		return "nested"
	default:
		return "unrecognized"
	}
}

// Result is a successful normalization. Metrics.LastUpdated is left for the caller.
type Result struct {
	Metrics  models.CampaignMetrics
	Daily    []models.DailyAnalytics
	Shape    Shape
	Salvaged bool
}

// Normalize parses a raw response body. It never panics; on failure the error
// wraps one of ErrEmptyBody, ErrNotJSON or ErrUnrecognizedShape.
func Normalize(body []byte) (Result, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Result{}, ErrEmptyBody
	}

	salvaged := false
	v, err := decode(body)
	if err != nil {
		v, err = salvage(body)
		if err != nil {
			return Result{}, err
		}
		salvaged = true
	}

	res, err := Value(v)
	if err != nil {
		return Result{}, err
	}
	res.Salvaged = salvaged
	return res, nil
}

// Value normalizes an already decoded JSON value.
func Value(v any) (Result, error) {
	switch t := v.(type) {
	case map[string]any:
		if nested, ok := t["overAllCampaignAnalytics"].(map[string]any); ok {
			return fromNested(nested, t["dailyCampaignAnalytics"]), nil
		}
		if hasAny(t, flatKeys) {
			return fromFlat(t), nil
		}
		return Result{}, fmt.Errorf("%w: object without recognized metric keys", ErrUnrecognizedShape)
	case []any:
		if len(t) == 2 {
			daily, okDaily := t[0].([]any)
			summary, okSummary := t[1].(map[string]any)
			if okDaily && okSummary {
				return fromArray(daily, summary), nil
			}
		}
		return Result{}, fmt.Errorf("%w: array of %d elements", ErrUnrecognizedShape, len(t))
	default:
		return Result{}, fmt.Errorf("%w: %T", ErrUnrecognizedShape, v)
	}
}

func decode(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if rest := bytes.TrimSpace(b[dec.InputOffset():]); len(rest) > 0 {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

var flatKeys = []string{
	"reply_count", "reply_count_unique", "emails_sent_count", "new_leads_contacted_count",
	"total_opportunities", "total_opportunity_value", "total_interested",
}

func fromFlat(m map[string]any) Result {
	return Result{
		Shape: ShapeFlat,
		Metrics: models.CampaignMetrics{
			ReplyCount:             Int(first(m, "reply_count", "reply_count_unique")),
			EmailsSentCount:        Int(m["emails_sent_count"]),
			NewLeadsContactedCount: Int(m["new_leads_contacted_count"]),
			TotalOpportunities:     Int(m["total_opportunities"]),
			TotalOpportunityValue:  Number(m["total_opportunity_value"]),
			TotalInterested:        Int(m["total_interested"]),
		},
	}
}

func fromArray(daily []any, summary map[string]any) Result {
	days := dailyRecords(daily)
	var sent, replies int64
	for _, d := range days {
		sent += d.Sent
		replies += d.UniqueReplies
	}
	opps := Int(summary["totalOpportunities"])
	return Result{
		Shape: ShapeArray,
		Daily: days,
		Metrics: models.CampaignMetrics{
			ReplyCount:             replies,
			EmailsSentCount:        sent,
			NewLeadsContactedCount: Int(summary["totalLeadsContacted"]),
			TotalOpportunities:     opps,
			// The platform has shipped this key misspelled; accept both.
			TotalOpportunityValue: Number(first(summary, "totaloOpportunitiesValue", "totalOpportunitiesValue", "totalOpportunityValue")),
			TotalInterested:       interested(summary, "totalInterested", opps),
		},
	}
}

func fromNested(m map[string]any, rawDaily any) Result {
	opps := Int(first(m, "total_opportunities"))
	return Result{
		Shape: ShapeNested,
		Daily: DailyFrom(rawDaily),
		Metrics: models.CampaignMetrics{
			ReplyCount:             Int(first(m, "total_reply_count", "reply_count", "reply_count_unique")),
			EmailsSentCount:        Int(first(m, "total_emails_sent_count", "emails_sent_count")),
			NewLeadsContactedCount: Int(first(m, "total_new_leads_contacted_count", "new_leads_contacted_count")),
			TotalOpportunities:     opps,
			TotalOpportunityValue:  Number(first(m, "total_opportunity_value")),
			TotalInterested:        interested(m, "total_interested", opps),
		},
	}
}

// DailyFrom accepts the daily breakdown either as a decoded array or as a
// JSON string holding one. Anything unparsable yields nil.
func DailyFrom(raw any) []models.DailyAnalytics {
	switch t := raw.(type) {
	case []any:
		return dailyRecords(t)
	case string:
		v, err := decode([]byte(t))
		if err != nil {
			return nil
		}
		arr, ok := v.([]any)
		if !ok {
			return nil
		}
		return dailyRecords(arr)
	default:
		return nil
	}
}

func dailyRecords(items []any) []models.DailyAnalytics {
	out := make([]models.DailyAnalytics, 0, len(items))
	for _, it := range items {
		rec, ok := it.(map[string]any)
		if !ok {
			continue
		}
		date, _ := rec["date"].(string)
		out = append(out, models.DailyAnalytics{
			Date:          date,
			Sent:          Int(rec["sent"]),
			Opened:        Int(rec["opened"]),
			UniqueOpened:  Int(rec["unique_opened"]),
			Replies:       Int(rec["replies"]),
			UniqueReplies: Int(rec["unique_replies"]),
			Clicks:        Int(rec["clicks"]),
			UniqueClicks:  Int(rec["unique_clicks"]),
		})
	}
	return out
}

// interested falls back to the opportunity count for shapes that carry no
// separate "interested" metric unless the key is sent explicitly.
func interested(m map[string]any, key string, opps int64) int64 {
	if v, ok := m[key]; ok && v != nil && v != "" {
		return Int(v)
	}
	return opps
}

// first returns the value of the first key present with a non-empty value.
func first(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

func hasAny(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
