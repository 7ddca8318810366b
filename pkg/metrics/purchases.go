package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PurchaseMetrics records purchase orchestration outcomes.
type PurchaseMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

const (
	OutcomeCompleted      = "completed"
	OutcomeConflict       = "conflict"
	OutcomeNotFound       = "not_found"
	OutcomeReversed       = "reversed"
	OutcomePartialFailure = "partial_failure"
)

// NewPurchaseMetrics registers the purchase metrics on the provided registerer.
func NewPurchaseMetrics(reg prometheus.Registerer) *PurchaseMetrics {
	if reg == nil {
		return &PurchaseMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "purchase_duration_seconds",
		Help:    "Duration of purchase orchestrations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_outcomes_total",
		Help: "Purchase orchestration results by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &PurchaseMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// Observe records one orchestration with its outcome and duration.
func (p *PurchaseMetrics) Observe(outcome string, duration time.Duration) {
	if p == nil || p.outcomes == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	p.outcomes.WithLabelValues(outcome).Inc()
	p.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
