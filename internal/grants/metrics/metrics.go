package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for grant operations.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	Decisions        *prometheus.CounterVec
	Conflicts        *prometheus.CounterVec
	SweepRuns        *prometheus.CounterVec
	SweepExpired     *prometheus.CounterVec
	SweepDuration    prometheus.Histogram
	OperationLatency *prometheus.HistogramVec
}

// New registers grant collectors on reg, or the default registerer when nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthbridge_grant_transitions_total",
			Help: "Grant state transitions by grant kind and resulting status",
		}, []string{"kind", "status"}),
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthbridge_authorization_decisions_total",
			Help: "Authorization decisions by outcome and access path",
		}, []string{"allowed", "via"}),
		Conflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthbridge_grant_update_conflicts_total",
			Help: "Conditional grant updates lost to a concurrent writer",
		}, []string{"kind"}),
		SweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthbridge_expiry_sweep_runs_total",
			Help: "Expiry sweep runs by result",
		}, []string{"result"}),
		SweepExpired: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthbridge_expiry_sweep_expired_total",
			Help: "Grants moved to EXPIRED by the sweeper, by grant kind",
		}, []string{"kind"}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "healthbridge_expiry_sweep_duration_seconds",
			Help:    "Duration of expiry sweep runs",
			Buckets: prometheus.DefBuckets,
		}),
		OperationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "healthbridge_grant_operation_latency_seconds",
			Help:    "Latency of grant engine operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncTransition(kind, status string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) IncDecision(allowed bool, via string) {
	if m == nil {
		return
	}
	label := "false"
	if allowed {
		label = "true"
	}
	if via == "" {
		via = "none"
	}
	m.Decisions.WithLabelValues(label, via).Inc()
}

func (m *Metrics) IncConflict(kind string) {
	if m == nil {
		return
	}
	m.Conflicts.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.OperationLatency.WithLabelValues(operation).Observe(seconds)
}

// ObserveSweep records one sweep run. A failed run only counts the failure.
func (m *Metrics) ObserveSweep(seconds float64, standard, emergency int64, err error) {
	if m == nil {
		return
	}
	m.SweepDuration.Observe(seconds)
	if err != nil {
		m.SweepRuns.WithLabelValues("error").Inc()
		return
	}
	m.SweepRuns.WithLabelValues("ok").Inc()
	m.SweepExpired.WithLabelValues("standard").Add(float64(standard))
	m.SweepExpired.WithLabelValues("emergency").Add(float64(emergency))
}
