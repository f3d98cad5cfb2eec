// Package metrics exposes the Scheduler and AgentPool's Prometheus
// instrumentation: tick duration, LLM dispatch outcomes, and per-instance
// event queue depth.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the tick, dispatch and queue-depth collectors. The
// Scheduler updates TickDuration each tick; RecordDispatch and
// SetQueueDepth are not called from any server code path.
type Metrics struct {
	TickDuration   prometheus.Histogram
	DispatchTotal  *prometheus.CounterVec
	QueueDepth     *prometheus.GaugeVec
}

// New registers every collector against Prometheus's default global
// registry and returns the bundle; a second call panics on duplicate
// registration.
func New() *Metrics {
	m := &Metrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "simhost",
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one scheduler tick across all active instances.",
			Buckets:   prometheus.DefBuckets,
		}),
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "simhost",
			Subsystem: "agentpool",
			Name:      "dispatch_total",
			Help:      "Count of agent dispatches by role and outcome.",
		}, []string{"role", "outcome"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "simhost",
			Subsystem: "eventbus",
			Name:      "queue_depth",
			Help:      "Pending event count per instance.",
		}, []string{"instance_id"}),
	}
	prometheus.MustRegister(m.TickDuration, m.DispatchTotal, m.QueueDepth)
	return m
}

// ObserveTick records one scheduler tick's wall-clock duration.
func (m *Metrics) ObserveTick(d interface{ Seconds() float64 }) {
	m.TickDuration.Observe(d.Seconds())
}

// RecordDispatch increments the dispatch counter for a role/outcome pair
// ("success", "timeout", "error").
func (m *Metrics) RecordDispatch(role, outcome string) {
	m.DispatchTotal.WithLabelValues(role, outcome).Inc()
}

// SetQueueDepth updates the gauge for one instance's pending event count.
func (m *Metrics) SetQueueDepth(instanceID string, depth int) {
	m.QueueDepth.WithLabelValues(instanceID).Set(float64(depth))
}
