package refresh

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the orchestrator's Prometheus collectors.
type Metrics struct {
	Loads                 *prometheus.CounterVec
	Skipped               *prometheus.CounterVec
	WebhookDuration       *prometheus.HistogramVec
	NormalizationFailures *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientportal",
			Name:      "metrics_loads_total",
			Help:      "Completed metric loads by trigger and data source.",
		}, []string{"trigger", "source"}),
		Skipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientportal",
			Name:      "refresh_skipped_total",
			Help:      "Refresh requests ignored because of cooldown or an in-flight refresh.",
		}, []string{"reason"}),
		WebhookDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clientportal",
			Name:      "webhook_duration_seconds",
			Help:      "Latency of calls to tenant webhooks.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 3, 5, 8, 15},
		}, []string{"trigger"}),
		NormalizationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clientportal",
			Name:      "normalization_failures_total",
			Help:      "Webhook responses that could not be normalized, by reason.",
		}, []string{"reason"}),
	}
}
