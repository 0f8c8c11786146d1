// Package observability holds generation metrics. The CLI registers them on
// the default registry; library callers may pass their own registerer or
// none at all, in which case recording is a no-op.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts generation work. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	queriesEvaluated prometheus.Counter
	queryErrors      prometheus.Counter
	sharedTypes      prometheus.Counter
	generationRuns   prometheus.Counter
	duration         prometheus.Histogram
}

// NewMetrics creates and registers generation metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queriesEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Name: "codegen_queries_evaluated_total",
			Help: "Number of queries successfully evaluated against the schema.",
		}),
		queryErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "codegen_query_errors_total",
			Help: "Number of queries that failed to evaluate.",
		}),
		sharedTypes: factory.NewCounter(prometheus.CounterOpts{
			Name: "codegen_shared_types_total",
			Help: "Number of repeated object shapes extracted into shared aliases.",
		}),
		generationRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "codegen_generation_runs_total",
			Help: "Number of completed generation runs.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "codegen_generation_duration_seconds",
			Help:    "Wall time of generation runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// QueryEvaluated records one successfully evaluated query.
func (m *Metrics) QueryEvaluated() {
	if m == nil {
		return
	}
	m.queriesEvaluated.Inc()
}

// QueryFailed records one query evaluation failure.
func (m *Metrics) QueryFailed() {
	if m == nil {
		return
	}
	m.queryErrors.Inc()
}

// SharedTypes records the number of shapes extracted in one run.
func (m *Metrics) SharedTypes(n int) {
	if m == nil {
		return
	}
	m.sharedTypes.Add(float64(n))
}

// RunCompleted records one finished generation run and its duration.
func (m *Metrics) RunCompleted(seconds float64) {
	if m == nil {
		return
	}
	m.generationRuns.Inc()
	m.duration.Observe(seconds)
}
