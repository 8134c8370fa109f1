// Package report turns a metrics snapshot into the formatted dashboard the
// portal renders: metric cards, performance rates, a conversion funnel,
// automated insights and a one-paragraph summary.
package report

import (
	"fmt"
	"math"
	"time"

	"clientportal/internal/format"
	"clientportal/internal/models"
)

type Card struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Value       string  `json:"value"`
	Raw         float64 `json:"raw"`
	Description string  `json:"description,omitempty"`
}

type Rate struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Value       string  `json:"value"`
	Raw         float64 `json:"raw"`
	Target      string  `json:"target"`
	AboveTarget bool    `json:"above_target"`
}

type FunnelStage struct {
	Stage      string  `json:"stage"`
	Value      string  `json:"value"`
	Raw        int64   `json:"raw"`
	Percentage float64 `json:"percentage"`
	Percent    string  `json:"percent"`
}

type InsightType string

const (
	InsightSuccess     InsightType = "success"
	InsightWarning     InsightType = "warning"
	InsightInfo        InsightType = "info"
	InsightAchievement InsightType = "achievement"
)

type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Metric      string      `json:"metric,omitempty"`
	Priority    string      `json:"priority"`
}

// DashboardView is the rendered dashboard for one snapshot.
type DashboardView struct {
	ClientKey   string           `json:"client_key"`
	Tenant      string           `json:"tenant"`
	Simulated   bool             `json:"simulated"`
	Diagnostic  string           `json:"diagnostic,omitempty"`
	LastUpdated time.Time        `json:"last_updated"`
	Range       models.DateRange `json:"range"`
	Period      string           `json:"period"`
	Cards       []Card           `json:"cards"`
	Rates       []Rate           `json:"rates"`
	Funnel      []FunnelStage    `json:"funnel"`
	Insights    []Insight        `json:"insights"`
	Summary     string           `json:"summary"`
}

// Build renders snap. tenantLabel is the display name shown in the header.
func Build(tenantLabel string, snap models.Snapshot) DashboardView {
	m := snap.Metrics
	return DashboardView{
		ClientKey:   snap.ClientKey,
		Tenant:      tenantLabel,
		Simulated:   snap.Simulated,
		Diagnostic:  snap.Diagnostic,
		LastUpdated: m.LastUpdated,
		Range:       snap.Range,
		Period:      period(snap.Range),
		Cards:       Cards(m),
		Rates:       Rates(m),
		Funnel:      Funnel(m),
		Insights:    Insights(m),
		Summary:     Summary(m),
	}
}

func Cards(m models.CampaignMetrics) []Card {
	emails := float64(m.EmailsSentCount)
	replies := float64(m.ReplyCount)
	leads := float64(m.NewLeadsContactedCount)
	opps := float64(m.TotalOpportunities)

	return []Card{
		{Key: "emailsSentCount", Label: "Total Emails Sent", Value: format.Number(emails, format.Compact), Raw: emails, Description: "Campaign reach"},
		{Key: "replyCount", Label: "Replies Received", Value: format.Number(replies, format.Full), Raw: replies,
			Description: format.Percent(replies, emails) + " response rate"},
		{Key: "newLeadsContactedCount", Label: "New Leads Contacted", Value: format.Number(leads, format.Compact), Raw: leads, Description: "Outreach volume"},
		{Key: "totalOpportunities", Label: "Total Opportunities", Value: format.Number(opps, format.Full), Raw: opps,
			Description: format.Percent(opps, leads) + " conversion"},
		{Key: "totalOpportunityValue", Label: "Opportunity Value", Value: format.Money(m.TotalOpportunityValue, format.Currency), Raw: m.TotalOpportunityValue,
			Description: "Pipeline value"},
		{Key: "totalInterested", Label: "Interested Leads", Value: format.Number(float64(m.TotalInterested), format.Full), Raw: float64(m.TotalInterested),
			Description: "Positive responses"},
	}
}

// Rates are the performance indicators compared against campaign targets.
func Rates(m models.CampaignMetrics) []Rate {
	emails := float64(m.EmailsSentCount)
	replies := float64(m.ReplyCount)
	leads := float64(m.NewLeadsContactedCount)
	opps := float64(m.TotalOpportunities)
	interested := float64(m.TotalInterested)

	response := format.Ratio(replies, emails) * 100
	leadToOpp := format.Ratio(opps, leads) * 100
	avgValue := format.Ratio(m.TotalOpportunityValue, opps)
	engagement := format.Ratio(replies+interested, emails) * 100

	return []Rate{
		{Key: "responseRate", Label: "Email Response Rate", Value: format.Percent(replies, emails), Raw: response,
			Target: "2.50%", AboveTarget: response >= 2.5},
		{Key: "leadToOpportunity", Label: "Lead to Opportunity", Value: format.Percent(opps, leads), Raw: leadToOpp,
			Target: "1.00%", AboveTarget: leadToOpp >= 1.0},
		{Key: "averageOpportunityValue", Label: "Avg Opportunity Value", Value: format.Money(math.Round(avgValue), format.Full), Raw: avgValue,
			Target: format.Money(2000, format.Full), AboveTarget: avgValue >= 2000},
		{Key: "engagementRate", Label: "Engagement Rate", Value: format.Percent(replies+interested, emails), Raw: engagement,
			Target: "3.00%", AboveTarget: engagement >= 3.0},
	}
}

// Funnel stages are expressed as a share of emails sent.
func Funnel(m models.CampaignMetrics) []FunnelStage {
	emails := float64(m.EmailsSentCount)
	stage := func(name string, v int64) FunnelStage {
		pct := 100.0
		if name != "Emails Sent" {
			pct = format.Ratio(float64(v), emails) * 100
		}
		return FunnelStage{
			Stage:      name,
			Value:      format.Number(float64(v), format.Full),
			Raw:        v,
			Percentage: pct,
			Percent:    format.Percent(pct, 100),
		}
	}
	return []FunnelStage{
		stage("Emails Sent", m.EmailsSentCount),
		stage("Leads Contacted", m.NewLeadsContactedCount),
		stage("Replies", m.ReplyCount),
		stage("Interested", m.TotalInterested),
		stage("Opportunities", m.TotalOpportunities),
	}
}

// Insights applies the campaign rules of thumb. Rate-based rules are skipped
// when their denominator is zero.
func Insights(m models.CampaignMetrics) []Insight {
	var out []Insight
	leads := float64(m.NewLeadsContactedCount)
	replies := float64(m.ReplyCount)
	opps := float64(m.TotalOpportunities)
	interested := float64(m.TotalInterested)

	if leads > 0 {
		responseRate := replies / leads * 100
		metric := format.Percent(replies, leads)
		switch {
		case responseRate > 2.0:
			out = append(out, Insight{
				Type:        InsightSuccess,
				Title:       "Strong Response Rate",
				Description: fmt.Sprintf("Your %s response rate is above industry average (1.5-2%%). Your messaging is resonating well with prospects.", metric),
				Metric:      metric,
				Priority:    "high",
			})
		case responseRate < 1.0:
			out = append(out, Insight{
				Type:        InsightWarning,
				Title:       "Response Rate Below Target",
				Description: fmt.Sprintf("Current response rate of %s is below optimal. Consider A/B testing subject lines or refining targeting criteria.", metric),
				Metric:      metric,
				Priority:    "high",
			})
		}
	}

	if m.TotalOpportunities >= 50 {
		n := format.Number(opps, format.Full)
		out = append(out, Insight{
			Type:        InsightAchievement,
			Title:       "Opportunity Milestone Reached",
			Description: fmt.Sprintf("Generated %s qualified opportunities this campaign. This represents strong pipeline growth.", n),
			Metric:      n + " opportunities",
			Priority:    "medium",
		})
	}

	if opps > 0 {
		if avg := m.TotalOpportunityValue / opps; avg > 2000 {
			v := format.Money(math.Round(avg), format.Full)
			out = append(out, Insight{
				Type:        InsightSuccess,
				Title:       "High-Value Opportunities",
				Description: fmt.Sprintf("Average opportunity value of %s indicates strong lead quality and effective targeting.", v),
				Metric:      v,
				Priority:    "high",
			})
		}
	}

	if leads > 0 {
		if opps/leads*100 > 0.5 {
			metric := format.Percent(opps, leads)
			out = append(out, Insight{
				Type:        InsightSuccess,
				Title:       "Efficient Lead Conversion",
				Description: fmt.Sprintf("Converting %s of contacted leads to opportunities. Your qualification process is working effectively.", metric),
				Metric:      metric,
				Priority:    "medium",
			})
		}

		engagement := (replies + interested) / leads * 100
		metric := format.Percent(replies+interested, leads)
		switch {
		case engagement > 3.0:
			out = append(out, Insight{
				Type:        InsightInfo,
				Title:       "High Engagement Signal",
				Description: fmt.Sprintf("Combined engagement (replies + interested) of %s shows strong market interest. Consider scaling campaign volume.", metric),
				Metric:      metric,
				Priority:    "medium",
			})
		case engagement < 2.0:
			out = append(out, Insight{
				Type:        InsightWarning,
				Title:       "Low Engagement Signal",
				Description: fmt.Sprintf("Engagement rate of %s suggests messaging or targeting refinement needed. Review ICP alignment.", metric),
				Metric:      metric,
				Priority:    "high",
			})
		}
	}

	if m.TotalOpportunityValue > 100_000 {
		v := format.Money(m.TotalOpportunityValue, format.Compact)
		out = append(out, Insight{
			Type:        InsightAchievement,
			Title:       "Six-Figure Pipeline",
			Description: fmt.Sprintf("Current pipeline value of %s represents significant business impact from this campaign.", v),
			Metric:      v,
			Priority:    "high",
		})
	}

	reach := format.WithCommas(leads)
	out = append(out, Insight{
		Type:        InsightInfo,
		Title:       "Campaign Reach",
		Description: fmt.Sprintf("Contacted %s new leads with %s total emails sent. Strong outreach volume maintained.", reach, format.WithCommas(float64(m.EmailsSentCount))),
		Metric:      reach + " leads",
		Priority:    "low",
	})
	return out
}

func Summary(m models.CampaignMetrics) string {
	return fmt.Sprintf(
		"Your campaign has reached %s new leads with %s emails sent. Generated %s in pipeline value from %s qualified opportunities. Response rate of %s demonstrates strong market engagement.",
		format.Number(float64(m.NewLeadsContactedCount), format.Compact),
		format.Number(float64(m.EmailsSentCount), format.Compact),
		format.Money(m.TotalOpportunityValue, format.Compact),
		format.Number(float64(m.TotalOpportunities), format.Full),
		format.Percent(float64(m.ReplyCount), float64(m.NewLeadsContactedCount)),
	)
}

func period(r models.DateRange) string {
	if r.IsZero() {
		return "All time"
	}
	days := int(r.End.Sub(r.Start).Hours()/24) + 1
	return fmt.Sprintf("%s to %s (%d days)", r.StartDate(), r.EndDate(), days)
}
