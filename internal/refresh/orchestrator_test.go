package refresh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientportal/internal/models"
	"clientportal/internal/services"
	"clientportal/internal/simulate"
	"clientportal/internal/tenants"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type scriptedWebhook struct {
	calls atomic.Int32
	fn    func(n int32, req services.WebhookRequest) (*services.WebhookResponse, error)
}

func (s *scriptedWebhook) Do(ctx context.Context, req services.WebhookRequest) (*services.WebhookResponse, error) {
	n := s.calls.Add(1)
	return s.fn(n, req)
}

func okBody(body string) func(int32, services.WebhookRequest) (*services.WebhookResponse, error) {
	return func(int32, services.WebhookRequest) (*services.WebhookResponse, error) {
		return &services.WebhookResponse{StatusCode: http.StatusOK, Body: []byte(body)}, nil
	}
}

const flatBody = `{"reply_count":12,"emails_sent_count":29209,"new_leads_contacted_count":4100,"total_opportunities":85,"total_opportunity_value":"188500","total_interested":87}`

type harness struct {
	orch  *Orchestrator
	clock *fakeClock
	hook  *scriptedWebhook
	store *MemoryStore
	reg   *prometheus.Registry
}

func newHarness(t *testing.T, hook *scriptedWebhook, list ...models.TenantConfig) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)}
	gen := simulate.NewGenerator(0)
	gen.Today = clock.Now
	store := NewMemoryStore()
	reg := prometheus.NewRegistry()

	orch := New(tenants.NewRegistry(list...), hook, gen, store, NewMetrics(reg), nil, Options{
		Cooldown: 60 * time.Second,
		Now:      clock.Now,
	})
	return &harness{orch: orch, clock: clock, hook: hook, store: store, reg: reg}
}

func configured(key, url string) models.TenantConfig {
	return models.TenantConfig{Key: key, Name: key, Webhook: models.WebhookConfig{URL: url, Enabled: true}}
}

func counter(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestLoadInitialUsesWebhook(t *testing.T) {
	var got services.WebhookRequest
	hook := &scriptedWebhook{fn: func(n int32, req services.WebhookRequest) (*services.WebhookResponse, error) {
		got = req
		return &services.WebhookResponse{StatusCode: http.StatusOK, Body: []byte(flatBody)}, nil
	}}
	h := newHarness(t, hook, configured("tln", "https://hooks.example.com/tln"))

	rng, err := models.ParseDateRange("2025-10-01", "2025-10-07")
	require.NoError(t, err)
	snap := h.orch.LoadInitial(context.Background(), "TLN", rng)

	assert.Equal(t, models.SourceWebhook, snap.Source)
	assert.False(t, snap.Simulated)
	assert.Empty(t, snap.Diagnostic)
	assert.Equal(t, int64(29209), snap.Metrics.EmailsSentCount)
	assert.Equal(t, 188500.0, snap.Metrics.TotalOpportunityValue)
	assert.Equal(t, h.clock.Now(), snap.Metrics.LastUpdated)

	trigger, ok := got.Payload.(models.WebhookTrigger)
	require.True(t, ok)
	assert.Equal(t, models.ActionFetchInitialMetrics, trigger.Action)
	assert.Equal(t, "tln", trigger.ClientKey)
	assert.Equal(t, "2025-10-01", trigger.StartDate)
	assert.Equal(t, "2025-10-07", trigger.EndDate)
	assert.Equal(t, http.MethodPost, got.Method)

	latest, ok := h.orch.Latest("tln")
	require.True(t, ok)
	assert.Equal(t, snap, latest)
	assert.Equal(t, 1.0, counter(t, h.reg, "clientportal_metrics_loads_total", map[string]string{"trigger": "load", "source": "webhook"}))
}

func TestLoadInitialWithoutWebhookIsSimulated(t *testing.T) {
	hook := &scriptedWebhook{fn: okBody(flatBody)}
	h := newHarness(t, hook, models.TenantConfig{Key: "acme", Name: "Acme"})

	snap := h.orch.LoadInitial(context.Background(), "acme", models.DateRange{})

	assert.Zero(t, hook.calls.Load())
	assert.True(t, snap.Simulated)
	assert.Equal(t, models.SourceSimulated, snap.Source)
	assert.Equal(t, DiagNotConfigured, snap.Diagnostic)
	m := snap.Metrics
	for name, v := range map[string]float64{
		"replyCount":             float64(m.ReplyCount),
		"emailsSentCount":        float64(m.EmailsSentCount),
		"newLeadsContactedCount": float64(m.NewLeadsContactedCount),
		"totalOpportunities":     float64(m.TotalOpportunities),
		"totalOpportunityValue":  m.TotalOpportunityValue,
		"totalInterested":        float64(m.TotalInterested),
	} {
		assert.Positive(t, v, name)
	}
}

func TestAcmeEndToEndWithinSimulatedDelay(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	gen := simulate.NewGenerator(50 * time.Millisecond)
	orch := New(tenants.NewRegistry(models.TenantConfig{Key: "acme"}), &scriptedWebhook{fn: okBody("{}")}, gen, nil, nil, nil, Options{Now: clock.Now})

	start := time.Now()
	snap := orch.LoadInitial(context.Background(), "acme", models.DateRange{})
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
	assert.True(t, snap.Simulated)
	assert.Positive(t, snap.Metrics.TotalInterested)
}

func TestLoadInitialConnectionRefusedFallsBack(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	h := newHarness(t, nil, configured("tln", "http://"+addr+"/hook"))
	h.orch.webhook = services.NewWebhookClient(time.Second)

	snap := h.orch.LoadInitial(context.Background(), "tln", models.DateRange{})

	assert.True(t, snap.Simulated)
	assert.Equal(t, DiagUnreachable, snap.Diagnostic)
	assert.Positive(t, snap.Metrics.EmailsSentCount)
}

func TestFallbackDiagnostics(t *testing.T) {
	timeoutErr := &net.DNSError{Err: "i/o timeout", IsTimeout: true}
	cases := []struct {
		name string
		fn   func(int32, services.WebhookRequest) (*services.WebhookResponse, error)
		want string
	}{
		{"timeout", func(int32, services.WebhookRequest) (*services.WebhookResponse, error) {
			return nil, timeoutErr
		}, DiagTimeout},
		{"transport", func(int32, services.WebhookRequest) (*services.WebhookResponse, error) {
			return nil, errors.New("connection reset")
		}, DiagUnreachable},
		{"too large", func(int32, services.WebhookRequest) (*services.WebhookResponse, error) {
			return nil, fmt.Errorf("webhook: POST x: %w", services.ErrResponseTooLarge)
		}, DiagTooLarge},
		{"status", func(int32, services.WebhookRequest) (*services.WebhookResponse, error) {
			return &services.WebhookResponse{StatusCode: http.StatusServiceUnavailable}, nil
		}, "webhook returned HTTP 503; showing simulated data"},
		{"empty", okBody("  "), DiagEmptyBody},
		{"text", okBody("Accepted"), DiagUnparsable},
		{"shape", okBody(`{"hello":"world"}`), DiagUnparsable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, &scriptedWebhook{fn: tc.fn}, configured("tln", "https://hooks.example.com"))
			snap := h.orch.LoadInitial(context.Background(), "tln", models.DateRange{})
			assert.True(t, snap.Simulated)
			assert.Equal(t, tc.want, snap.Diagnostic)
		})
	}

	h := newHarness(t, &scriptedWebhook{fn: okBody(flatBody)})
	snap := h.orch.LoadInitial(context.Background(), "ghost", models.DateRange{})
	assert.Equal(t, DiagUnknownTenant, snap.Diagnostic)
}

func TestNormalizationFailuresAreCounted(t *testing.T) {
	h := newHarness(t, &scriptedWebhook{fn: okBody("nope")}, configured("tln", "https://hooks.example.com"))
	h.orch.LoadInitial(context.Background(), "tln", models.DateRange{})

	assert.Equal(t, 1.0, counter(t, h.reg, "clientportal_normalization_failures_total", map[string]string{"reason": "not_json"}))
}

func TestRefreshCooldownAllowsOneCall(t *testing.T) {
	hook := &scriptedWebhook{fn: okBody(flatBody)}
	h := newHarness(t, hook, configured("tln", "https://hooks.example.com"))
	ctx := context.Background()

	first := h.orch.Refresh(ctx, "tln", models.DateRange{})
	h.clock.Advance(10 * time.Second)
	second := h.orch.Refresh(ctx, "tln", models.DateRange{})

	assert.Equal(t, int32(1), hook.calls.Load())
	assert.True(t, first.Refreshed)
	require.NotNil(t, first.Snapshot)
	assert.False(t, second.Refreshed)
	assert.Equal(t, SkipCooldown, second.SkippedReason)
	assert.Nil(t, second.Snapshot)
	assert.Equal(t, 50, second.Cooldown.RemainingSeconds)
	assert.False(t, second.Cooldown.CanRefresh)
	assert.Equal(t, 1.0, counter(t, h.reg, "clientportal_refresh_skipped_total", map[string]string{"reason": "cooldown"}))

	h.clock.Advance(50 * time.Second)
	third := h.orch.Refresh(ctx, "tln", models.DateRange{})
	assert.True(t, third.Refreshed)
	assert.Equal(t, int32(2), hook.calls.Load())
}

func TestRefreshCooldownStartsOnFailure(t *testing.T) {
	hook := &scriptedWebhook{fn: func(int32, services.WebhookRequest) (*services.WebhookResponse, error) {
		return nil, errors.New("down")
	}}
	h := newHarness(t, hook, configured("tln", "https://hooks.example.com"))

	res := h.orch.Refresh(context.Background(), "tln", models.DateRange{})
	require.NotNil(t, res.Snapshot)
	assert.True(t, res.Snapshot.Simulated)

	again := h.orch.Refresh(context.Background(), "tln", models.DateRange{})
	assert.Equal(t, SkipCooldown, again.SkippedReason)

	last, err := h.store.LastRefresh(context.Background(), "tln")
	require.NoError(t, err)
	assert.Equal(t, h.clock.Now(), last)
}

func TestRefreshSendsRefreshAction(t *testing.T) {
	var payload models.WebhookTrigger
	hook := &scriptedWebhook{fn: func(_ int32, req services.WebhookRequest) (*services.WebhookResponse, error) {
		payload = req.Payload.(models.WebhookTrigger)
		assert.Equal(t, 5500*time.Millisecond, req.Timeout)
		return &services.WebhookResponse{StatusCode: http.StatusOK, Body: []byte(flatBody)}, nil
	}}
	h := newHarness(t, hook, configured("tln", "https://hooks.example.com"))

	h.orch.Refresh(context.Background(), "tln", models.DateRange{})

	assert.Equal(t, models.ActionRefreshDashboard, payload.Action)
	assert.Equal(t, "tln", payload.ClientKey)
	assert.NotEmpty(t, payload.Timestamp)
	assert.Empty(t, payload.StartDate)
}

func TestRefreshInFlightIsIgnored(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	hook := &scriptedWebhook{fn: func(n int32, _ services.WebhookRequest) (*services.WebhookResponse, error) {
		if n == 1 {
			close(entered)
			<-release
		}
		return &services.WebhookResponse{StatusCode: http.StatusOK, Body: []byte(flatBody)}, nil
	}}
	h := newHarness(t, hook, configured("tln", "https://hooks.example.com"))
	h.orch.opts.Cooldown = time.Nanosecond

	done := make(chan RefreshResult)
	go func() { done <- h.orch.Refresh(context.Background(), "tln", models.DateRange{}) }()
	<-entered

	h.clock.Advance(time.Second)
	skipped := h.orch.Refresh(context.Background(), "tln", models.DateRange{})
	assert.Equal(t, SkipInFlight, skipped.SkippedReason)
	assert.True(t, skipped.Cooldown.InFlight)
	assert.True(t, h.orch.Status(context.Background(), "tln").InFlight)

	close(release)
	first := <-done
	assert.True(t, first.Refreshed)
	assert.False(t, first.Cooldown.InFlight)
	assert.Equal(t, int32(1), hook.calls.Load())
}

func TestStaleResultIsNotApplied(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	hook := &scriptedWebhook{fn: func(n int32, _ services.WebhookRequest) (*services.WebhookResponse, error) {
		if n == 1 {
			close(entered)
			<-release
			return &services.WebhookResponse{StatusCode: http.StatusOK, Body: []byte(`{"reply_count":1}`)}, nil
		}
		return &services.WebhookResponse{StatusCode: http.StatusOK, Body: []byte(`{"reply_count":2}`)}, nil
	}}
	h := newHarness(t, hook, configured("tln", "https://hooks.example.com"))
	ctx := context.Background()

	slow := make(chan models.Snapshot)
	go func() { slow <- h.orch.LoadInitial(ctx, "tln", models.DateRange{}) }()
	<-entered

	fresh := h.orch.LoadInitial(ctx, "tln", models.DateRange{})
	assert.False(t, fresh.Stale)
	assert.Equal(t, int64(2), fresh.Metrics.ReplyCount)

	close(release)
	late := <-slow
	assert.True(t, late.Stale)
	assert.Equal(t, int64(1), late.Metrics.ReplyCount)
	assert.Less(t, late.Sequence, fresh.Sequence)

	latest, ok := h.orch.Latest("tln")
	require.True(t, ok)
	assert.Equal(t, int64(2), latest.Metrics.ReplyCount)
}

func TestStatusUsesPersistedRefreshAndTenantCooldown(t *testing.T) {
	tenant := configured("tln", "https://hooks.example.com")
	tenant.CooldownSeconds = 120
	h := newHarness(t, &scriptedWebhook{fn: okBody(flatBody)}, tenant)
	ctx := context.Background()

	require.NoError(t, h.store.RecordRefresh(ctx, "tln", h.clock.Now().Add(-30500*time.Millisecond)))

	st := h.orch.Status(ctx, "tln")
	assert.False(t, st.CanRefresh)
	assert.Equal(t, 90, st.RemainingSeconds)
	assert.Equal(t, 120, st.CooldownSeconds)
	require.NotNil(t, st.LastRefresh)

	fresh := h.orch.Status(ctx, "other")
	assert.True(t, fresh.CanRefresh)
	assert.Nil(t, fresh.LastRefresh)
	assert.Equal(t, 60, fresh.CooldownSeconds)
}

func TestLatestBeforeAnyLoad(t *testing.T) {
	h := newHarness(t, &scriptedWebhook{fn: okBody(flatBody)})
	_, ok := h.orch.Latest("tln")
	assert.False(t, ok)
}

func TestWebhookClientIntegration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"sent":448,"unique_replies":3}],{"totalLeadsContacted":"0","totalOpportunities":"1","totaloOpportunitiesValue":"2250"}]`))
	}))
	defer srv.Close()

	h := newHarness(t, nil, configured("tln", srv.URL))
	h.orch.webhook = services.NewWebhookClient(time.Second)

	res := h.orch.Refresh(context.Background(), "tln", models.DateRange{})
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, models.SourceWebhook, res.Snapshot.Source)
	assert.Equal(t, int64(448), res.Snapshot.Metrics.EmailsSentCount)
	assert.Equal(t, int64(3), res.Snapshot.Metrics.ReplyCount)
	assert.Equal(t, 2250.0, res.Snapshot.Metrics.TotalOpportunityValue)
}
