package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the audit recorder.
type Metrics struct {
	EntriesRecorded *prometheus.CounterVec
	Failures        *prometheus.CounterVec
	Dropped         prometheus.Counter
}

// NewMetrics registers the audit collectors on reg (prometheus.DefaultRegisterer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		EntriesRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthbridge_audit_entries_total",
			Help: "Audit entries persisted, labeled by action",
		}, []string{"action"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthbridge_audit_failures_total",
			Help: "Audit write failures, labeled by stage (store or mirror)",
		}, []string{"stage"}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "healthbridge_audit_dropped_total",
			Help: "Audit entries dropped because the async buffer was full",
		}),
	}
}
