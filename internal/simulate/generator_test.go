package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientportal/internal/models"
)

func fixedGenerator() *Generator {
	g := NewGenerator(0)
	g.Today = func() time.Time { return time.Date(2025, 10, 10, 15, 4, 0, 0, time.UTC) }
	return g
}

func TestBuildIsDeterministic(t *testing.T) {
	g := fixedGenerator()

	m1, d1 := g.Build("acme", models.DateRange{})
	m2, d2 := g.Build("acme", models.DateRange{})

	assert.Equal(t, m1, m2)
	assert.Equal(t, d1, d2)
}

func TestBuildDiffersPerTenant(t *testing.T) {
	g := fixedGenerator()

	_, a := g.Build("acme", models.DateRange{})
	_, b := g.Build("globex", models.DateRange{})
	assert.NotEqual(t, a, b)
}

func TestBuildPopulatesEveryMetric(t *testing.T) {
	g := fixedGenerator()
	for _, key := range []string{"acme", "tlnconsultinggroup", "", "x"} {
		m, daily := g.Build(key, models.DateRange{})

		assert.Positive(t, m.ReplyCount, key)
		assert.Positive(t, m.EmailsSentCount, key)
		assert.Positive(t, m.NewLeadsContactedCount, key)
		assert.Positive(t, m.TotalOpportunities, key)
		assert.Positive(t, m.TotalOpportunityValue, key)
		assert.Positive(t, m.TotalInterested, key)
		assert.Equal(t, m.TotalOpportunities, m.TotalInterested)
		assert.Len(t, daily, defaultDays)
	}
}

func TestBuildFollowsRange(t *testing.T) {
	g := fixedGenerator()
	rng, err := models.ParseDateRange("2025-08-06", "2025-08-12")
	require.NoError(t, err)

	m, daily := g.Build("acme", rng)
	require.Len(t, daily, 7)
	assert.Equal(t, "2025-08-06", daily[0].Date)
	assert.Equal(t, "2025-08-12", daily[6].Date)

	var sent int64
	for _, d := range daily {
		sent += d.Sent
	}
	assert.Equal(t, sent, m.EmailsSentCount)
}

func TestBuildCapsLongRanges(t *testing.T) {
	g := fixedGenerator()
	rng, err := models.ParseDateRange("2020-01-01", "2025-01-01")
	require.NoError(t, err)

	_, daily := g.Build("acme", rng)
	assert.Len(t, daily, maxDays)
	assert.Equal(t, "2025-01-01", daily[len(daily)-1].Date)
}

func TestGenerateHonoursContext(t *testing.T) {
	g := fixedGenerator()
	g.Delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		m, _ := g.Generate(ctx, "acme", models.DateRange{})
		assert.Positive(t, m.EmailsSentCount)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Generate did not return after context cancellation")
	}
}
