// Package refresh decides when tenant webhooks are called, enforces the manual
// refresh cooldown and guarantees every load ends with a usable snapshot.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"clientportal/internal/interfaces"
	"clientportal/internal/models"
	"clientportal/internal/normalize"
	"clientportal/internal/observability"
	"clientportal/internal/services"
)

const (
	TriggerLoad    = "load"
	TriggerRefresh = "refresh"

	SkipCooldown = "cooldown"
	SkipInFlight = "in_flight"
)

// Diagnostics attached to simulated snapshots. Each failure class has its own
// message so a misconfigured tenant can be told apart from a broken endpoint.
const (
	DiagUnknownTenant  = "tenant is not registered; showing simulated data"
	DiagNotConfigured  = "no webhook configured for tenant; showing simulated data"
	DiagTimeout        = "webhook timed out; showing simulated data"
	DiagUnreachable    = "webhook unreachable; showing simulated data"
	DiagEmptyBody      = "webhook returned an empty response; showing simulated data"
	DiagUnparsable     = "webhook response could not be read; showing simulated data"
	DiagTooLarge       = "webhook response exceeded the size limit; showing simulated data"
	diagStatusTemplate = "webhook returned HTTP %d; showing simulated data"
)

type WebhookCaller interface {
	Do(ctx context.Context, req services.WebhookRequest) (*services.WebhookResponse, error)
}

type TenantLookup interface {
	Get(clientKey string) (models.TenantConfig, error)
}

type Simulator interface {
	Generate(ctx context.Context, clientKey string, rng models.DateRange) (models.CampaignMetrics, []models.DailyAnalytics)
}

type Options struct {
	Cooldown       time.Duration
	LoadTimeout    time.Duration
	RefreshTimeout time.Duration
	Origin         string
	Now            func() time.Time
}

// CooldownStatus describes whether a manual refresh would currently run.
type CooldownStatus struct {
	CanRefresh       bool       `json:"can_refresh"`
	InFlight         bool       `json:"in_flight"`
	RemainingSeconds int        `json:"remaining_seconds"`
	CooldownSeconds  int        `json:"cooldown_seconds"`
	LastRefresh      *time.Time `json:"last_refresh,omitempty"`
}

type RefreshResult struct {
	Refreshed     bool             `json:"refreshed"`
	SkippedReason string           `json:"skipped_reason,omitempty"`
	Snapshot      *models.Snapshot `json:"snapshot,omitempty"`
	Cooldown      CooldownStatus   `json:"cooldown"`
}

// view is the per-tenant state shared by every session looking at that tenant.
type view struct {
	hydrated    bool
	inFlight    bool
	lastRefresh time.Time
	seq         uint64
	snapshot    *models.Snapshot
}

type Orchestrator struct {
	tenants TenantLookup
	webhook WebhookCaller
	sim     Simulator
	store   interfaces.RefreshStateRepository
	metrics *Metrics
	logger  *observability.Logger
	opts    Options

	mu    sync.Mutex
	views map[string]*view
}

func New(tenants TenantLookup, webhook WebhookCaller, sim Simulator, store interfaces.RefreshStateRepository, metrics *Metrics, logger *observability.Logger, opts Options) *Orchestrator {
	if opts.Cooldown <= 0 {
		opts.Cooldown = 60 * time.Second
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 15 * time.Second
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 5500 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if store == nil {
		store = NewMemoryStore()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = observability.NewNop()
	}
	return &Orchestrator{
		tenants: tenants,
		webhook: webhook,
		sim:     sim,
		store:   store,
		metrics: metrics,
		logger:  logger,
		opts:    opts,
		views:   make(map[string]*view),
	}
}

// LoadInitial fetches metrics for a freshly opened dashboard. It never fails:
// any problem with the webhook yields simulated data with a diagnostic.
func (o *Orchestrator) LoadInitial(ctx context.Context, clientKey string, rng models.DateRange) models.Snapshot {
	key := canonical(clientKey)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "client_key", Value: key},
		observability.Field{Key: "trigger", Value: TriggerLoad},
	)

	o.mu.Lock()
	v := o.viewLocked(key)
	v.seq++
	seq := v.seq
	o.mu.Unlock()

	snap := o.fetch(ctx, key, models.ActionFetchInitialMetrics, rng, o.opts.LoadTimeout, TriggerLoad)
	return o.apply(ctx, key, seq, snap)
}

// Refresh runs a user-triggered refresh unless the tenant is cooling down or a
// refresh is already running. The cooldown starts before the webhook is called
// and applies whether or not the call succeeds.
func (o *Orchestrator) Refresh(ctx context.Context, clientKey string, rng models.DateRange) RefreshResult {
	key := canonical(clientKey)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "client_key", Value: key},
		observability.Field{Key: "trigger", Value: TriggerRefresh},
	)
	o.hydrate(ctx, key)
	cooldown := o.cooldownFor(key)

	o.mu.Lock()
	v := o.viewLocked(key)
	now := o.opts.Now()
	reason := ""
	switch {
	case v.inFlight:
		reason = SkipInFlight
	case !v.lastRefresh.IsZero() && now.Sub(v.lastRefresh) < cooldown:
		reason = SkipCooldown
	}
	if reason != "" {
		status := o.statusLocked(v, cooldown, now)
		o.mu.Unlock()
		o.metrics.Skipped.WithLabelValues(reason).Inc()
		o.logger.Debug(ctx, "refresh skipped", zap.String("reason", reason))
		return RefreshResult{SkippedReason: reason, Cooldown: status}
	}
	v.inFlight = true
	v.lastRefresh = now
	v.seq++
	seq := v.seq
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		v.inFlight = false
		o.mu.Unlock()
	}()

	if err := o.store.RecordRefresh(ctx, key, now); err != nil {
		o.logger.Error(ctx, "failed to persist refresh time", err)
	}

	snap := o.fetch(ctx, key, models.ActionRefreshDashboard, rng, o.opts.RefreshTimeout, TriggerRefresh)
	snap = o.apply(ctx, key, seq, snap)

	o.mu.Lock()
	v.inFlight = false
	status := o.statusLocked(v, cooldown, o.opts.Now())
	o.mu.Unlock()

	return RefreshResult{Refreshed: true, Snapshot: &snap, Cooldown: status}
}

// Status reports the refresh cooldown for a tenant.
func (o *Orchestrator) Status(ctx context.Context, clientKey string) CooldownStatus {
	key := canonical(clientKey)
	o.hydrate(ctx, key)
	cooldown := o.cooldownFor(key)

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.statusLocked(o.viewLocked(key), cooldown, o.opts.Now())
}

// Latest returns the most recently applied snapshot for a tenant.
func (o *Orchestrator) Latest(clientKey string) (models.Snapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.views[canonical(clientKey)]
	if !ok || v.snapshot == nil {
		return models.Snapshot{}, false
	}
	return *v.snapshot, true
}

func (o *Orchestrator) fetch(ctx context.Context, key, action string, rng models.DateRange, timeout time.Duration, trigger string) models.Snapshot {
	tenant, err := o.tenants.Get(key)
	if err != nil {
		return o.fallback(ctx, key, rng, trigger, DiagUnknownTenant, err)
	}
	if !tenant.WebhookConfigured() {
		return o.fallback(ctx, key, rng, trigger, DiagNotConfigured, nil)
	}

	payload := models.WebhookTrigger{
		Action:    action,
		ClientKey: key,
		Timestamp: o.opts.Now().UTC().Format(time.RFC3339Nano),
		StartDate: rng.StartDate(),
		EndDate:   rng.EndDate(),
		Origin:    o.opts.Origin,
	}

	start := time.Now()
	resp, err := o.webhook.Do(ctx, services.WebhookRequest{
		URL:     tenant.Webhook.URL,
		Method:  tenant.WebhookMethod(),
		Payload: payload,
		Timeout: timeout,
	})
	o.metrics.WebhookDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	if err != nil {
		if services.IsTimeout(err) {
			return o.fallback(ctx, key, rng, trigger, DiagTimeout, err)
		}
		if errors.Is(err, services.ErrResponseTooLarge) {
			return o.fallback(ctx, key, rng, trigger, DiagTooLarge, err)
		}
		return o.fallback(ctx, key, rng, trigger, DiagUnreachable, err)
	}
	if !resp.OK() {
		return o.fallback(ctx, key, rng, trigger, fmt.Sprintf(diagStatusTemplate, resp.StatusCode), nil)
	}

	res, err := normalize.Normalize(resp.Body)
	if err != nil {
		o.metrics.NormalizationFailures.WithLabelValues(failureReason(err)).Inc()
		if errors.Is(err, normalize.ErrEmptyBody) {
			return o.fallback(ctx, key, rng, trigger, DiagEmptyBody, nil)
		}
		return o.fallback(ctx, key, rng, trigger, DiagUnparsable, err)
	}

	metrics := res.Metrics
	metrics.LastUpdated = o.opts.Now().UTC()
	o.metrics.Loads.WithLabelValues(trigger, string(models.SourceWebhook)).Inc()
	o.logger.Debug(ctx, "webhook metrics loaded", zap.String("shape", res.Shape.String()), zap.Bool("salvaged", res.Salvaged))

	return models.Snapshot{
		ClientKey: key,
		Metrics:   metrics,
		Daily:     res.Daily,
		Source:    models.SourceWebhook,
		Range:     rng,
	}
}

func (o *Orchestrator) fallback(ctx context.Context, key string, rng models.DateRange, trigger, diagnostic string, cause error) models.Snapshot {
	fields := []zap.Field{zap.String("diagnostic", diagnostic)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	o.logger.Warn(ctx, "using simulated metrics", fields...)

	metrics, daily := o.sim.Generate(ctx, key, rng)
	metrics.LastUpdated = o.opts.Now().UTC()
	o.metrics.Loads.WithLabelValues(trigger, string(models.SourceSimulated)).Inc()

	return models.Snapshot{
		ClientKey:  key,
		Metrics:    metrics,
		Daily:      daily,
		Source:     models.SourceSimulated,
		Simulated:  true,
		Diagnostic: diagnostic,
		Range:      rng,
	}
}

// apply stores snap only if no newer load or refresh has started since seq was
// issued. Older results go back to their caller marked stale.
func (o *Orchestrator) apply(ctx context.Context, key string, seq uint64, snap models.Snapshot) models.Snapshot {
	snap.Sequence = seq

	o.mu.Lock()
	defer o.mu.Unlock()
	v := o.viewLocked(key)
	if seq != v.seq {
		snap.Stale = true
		o.logger.Info(ctx, "discarding stale metrics", zap.Uint64("sequence", seq), zap.Uint64("latest", v.seq))
		return snap
	}
	stored := snap
	v.snapshot = &stored
	return snap
}

// hydrate loads the persisted last refresh time the first time a tenant is seen.
func (o *Orchestrator) hydrate(ctx context.Context, key string) {
	o.mu.Lock()
	done := o.viewLocked(key).hydrated
	o.mu.Unlock()
	if done {
		return
	}

	last, err := o.store.LastRefresh(ctx, key)
	if err != nil {
		o.logger.Error(ctx, "failed to read refresh state", err)
		return
	}

	o.mu.Lock()
	v := o.viewLocked(key)
	if !v.hydrated {
		if last.After(v.lastRefresh) {
			v.lastRefresh = last
		}
		v.hydrated = true
	}
	o.mu.Unlock()
}

func (o *Orchestrator) cooldownFor(key string) time.Duration {
	if t, err := o.tenants.Get(key); err == nil && t.CooldownSeconds > 0 {
		return time.Duration(t.CooldownSeconds) * time.Second
	}
	return o.opts.Cooldown
}

func (o *Orchestrator) statusLocked(v *view, cooldown time.Duration, now time.Time) CooldownStatus {
	st := CooldownStatus{
		InFlight:        v.inFlight,
		CooldownSeconds: int(cooldown / time.Second),
	}
	if !v.lastRefresh.IsZero() {
		last := v.lastRefresh.UTC()
		st.LastRefresh = &last
		if remaining := cooldown - now.Sub(v.lastRefresh); remaining > 0 {
			st.RemainingSeconds = int(math.Ceil(remaining.Seconds()))
		}
	}
	st.CanRefresh = !st.InFlight && st.RemainingSeconds == 0
	return st
}

func (o *Orchestrator) viewLocked(key string) *view {
	v, ok := o.views[key]
	if !ok {
		v = &view{}
		o.views[key] = v
	}
	return v
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, normalize.ErrEmptyBody):
		return "empty_body"
	case errors.Is(err, normalize.ErrNotJSON):
		return "not_json"
	case errors.Is(err, normalize.ErrUnrecognizedShape):
		return "unrecognized_shape"
	default:
		return "other"
	}
}

func canonical(clientKey string) string {
	return strings.ToLower(strings.TrimSpace(clientKey))
}
