// Package metrics exposes triage counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hay-kot/bluelight/internal/core/triage"
)

// TriageMetrics counts every transition of a pending action.
type TriageMetrics struct {
	AppliedTotal      *prometheus.CounterVec
	UndoneTotal       *prometheus.CounterVec
	CommittedTotal    *prometheus.CounterVec
	FailedTotal       *prometheus.CounterVec
	NotifyFailedTotal *prometheus.CounterVec
	CommitSeconds     *prometheus.HistogramVec
}

var _ triage.Observer = (*TriageMetrics)(nil)

// NewTriageMetrics registers the triage metrics with reg.
func NewTriageMetrics(reg prometheus.Registerer) *TriageMetrics {
	factory := promauto.With(reg)
	labels := []string{"queue", "kind"}

	return &TriageMetrics{
		AppliedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bluelight_actions_applied_total",
				Help: "Actions applied optimistically",
			},
			labels,
		),
		UndoneTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bluelight_actions_undone_total",
				Help: "Actions reversed before their undo window closed",
			},
			labels,
		),
		CommittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bluelight_actions_committed_total",
				Help: "Actions durably written to Airtable",
			},
			labels,
		),
		FailedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bluelight_actions_failed_total",
				Help: "Actions whose primary write failed and were restored",
			},
			labels,
		),
		NotifyFailedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bluelight_webhook_failures_total",
				Help: "Best-effort webhook calls that failed after a successful commit",
			},
			labels,
		),
		CommitSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bluelight_commit_seconds",
				Help:    "Latency of the primary commit write",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			labels,
		),
	}
}

func (m *TriageMetrics) Applied(queue string, kind triage.Kind) {
	m.AppliedTotal.WithLabelValues(queue, string(kind)).Inc()
}

func (m *TriageMetrics) Undone(queue string, kind triage.Kind) {
	m.UndoneTotal.WithLabelValues(queue, string(kind)).Inc()
}

func (m *TriageMetrics) Committed(queue string, kind triage.Kind, took time.Duration) {
	m.CommittedTotal.WithLabelValues(queue, string(kind)).Inc()
	m.CommitSeconds.WithLabelValues(queue, string(kind)).Observe(took.Seconds())
}

func (m *TriageMetrics) Failed(queue string, kind triage.Kind) {
	m.FailedTotal.WithLabelValues(queue, string(kind)).Inc()
}

func (m *TriageMetrics) NotifyFailed(queue string, kind triage.Kind) {
	m.NotifyFailedTotal.WithLabelValues(queue, string(kind)).Inc()
}
