// Package simulate produces the placeholder metrics shown when live webhook
// data cannot be obtained. Output is deterministic for a given tenant and range.
package simulate

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"clientportal/internal/models"
)

const (
	defaultDays = 5
	maxDays     = 92

	// Average value of one opportunity in the simulated pipeline.
	opportunityValue = 2250
)

// Generator builds simulated snapshots. Delay mimics the network round trip of
// the real webhook so the UI loading state behaves the same way.
type Generator struct {
	Delay time.Duration
	// Today anchors ranges when none is given; defaults to the current UTC day.
	Today func() time.Time
}

func NewGenerator(delay time.Duration) *Generator {
	return &Generator{
		Delay: delay,
		Today: func() time.Time { return time.Now().UTC() },
	}
}

// Generate waits for the simulated delay (or ctx) and returns metrics plus a
// day-by-day breakdown. Cancelling ctx skips the remaining wait; the data is
// still returned.
func (g *Generator) Generate(ctx context.Context, clientKey string, rng models.DateRange) (models.CampaignMetrics, []models.DailyAnalytics) {
	if g.Delay > 0 {
		t := time.NewTimer(g.Delay)
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		t.Stop()
	}
	return g.Build(clientKey, rng)
}

// Build is Generate without the delay.
func (g *Generator) Build(clientKey string, rng models.DateRange) (models.CampaignMetrics, []models.DailyAnalytics) {
	start, end := g.window(rng)
	r := rand.New(rand.NewSource(seed(clientKey, start, end)))

	var daily []models.DailyAnalytics
	var sent, replies int64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		daySent := int64(120 + r.Intn(360))
		opened := daySent * int64(35+r.Intn(20)) / 100
		uniqueReplies := int64(r.Intn(6))
		clicks := int64(r.Intn(4))
		daily = append(daily, models.DailyAnalytics{
			Date:          d.Format(models.DateLayout),
			Sent:          daySent,
			Opened:        opened,
			UniqueOpened:  opened * 9 / 10,
			Replies:       uniqueReplies + int64(r.Intn(2)),
			UniqueReplies: uniqueReplies,
			Clicks:        clicks,
			UniqueClicks:  clicks,
		})
		sent += daySent
		replies += uniqueReplies
	}

	if replies == 0 {
		replies = 1
	}
	leads := sent * int64(30+r.Intn(15)) / 100
	if leads == 0 {
		leads = 1
	}
	opps := replies/3 + 1

	return models.CampaignMetrics{
		ReplyCount:             replies,
		EmailsSentCount:        sent,
		NewLeadsContactedCount: leads,
		TotalOpportunities:     opps,
		TotalOpportunityValue:  float64(opps * opportunityValue),
		TotalInterested:        opps,
	}, daily
}

func (g *Generator) window(rng models.DateRange) (time.Time, time.Time) {
	if !rng.IsZero() {
		start, end := day(rng.Start), day(rng.End)
		if end.Sub(start) > maxDays*24*time.Hour {
			start = end.AddDate(0, 0, -(maxDays - 1))
		}
		return start, end
	}
	today := time.Now().UTC()
	if g.Today != nil {
		today = g.Today()
	}
	end := day(today)
	return end.AddDate(0, 0, -(defaultDays - 1)), end
}

func seed(clientKey string, start, end time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(clientKey))
	h.Write([]byte(start.Format(models.DateLayout)))
	h.Write([]byte(end.Format(models.DateLayout)))
	return int64(h.Sum64())
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
