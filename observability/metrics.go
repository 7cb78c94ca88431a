// Package observability provides the logger, metrics and tracing setup
// shared by every component of the core.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the core.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so an embedding application can scrape it.
	Registry *prometheus.Registry

	mutationDuration *prometheus.HistogramVec
	mutationsTotal   *prometheus.CounterVec
	rollbacksTotal   prometheus.Counter
	invalidations    prometheus.Counter
	suggestionsTotal prometheus.Counter
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	externalErrors   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// core metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in
// tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		mutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendwise_mutation_duration_seconds",
				Help:    "Duration of mutations from submit to reconciliation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity", "kind"},
		),
		mutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_mutations_total",
				Help: "Total mutations processed by outcome.",
			},
			[]string{"status"},
		),
		rollbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spendwise_rollbacks_total",
				Help: "Total optimistic writes rolled back after failure.",
			},
		),
		invalidations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spendwise_invalidations_total",
				Help: "Total cache keys invalidated by committed mutations.",
			},
		),
		suggestionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spendwise_classifier_suggestions_total",
				Help: "Total suggestions emitted by the classifier.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_external_errors_total",
				Help: "Total errors from the backend API.",
			},
			[]string{"operation"},
		),
	}
}

// RecordMutationDuration records the submit-to-reconciliation duration
// of one mutation.
func (m *Metrics) RecordMutationDuration(entity, kind string, d time.Duration) {
	m.mutationDuration.WithLabelValues(entity, kind).Observe(d.Seconds())
}

// IncrMutation increments the mutation counter with a status label
// ("committed", "rolled_back", "rejected").
func (m *Metrics) IncrMutation(status string) {
	m.mutationsTotal.WithLabelValues(status).Inc()
}

// IncrRollback increments the rollback counter.
func (m *Metrics) IncrRollback() {
	m.rollbacksTotal.Inc()
}

// AddInvalidations records how many cache keys one mutation touched.
func (m *Metrics) AddInvalidations(n int) {
	m.invalidations.Add(float64(n))
}

// IncrSuggestions records suggestions emitted for one classification.
func (m *Metrics) IncrSuggestions(n int) {
	m.suggestionsTotal.Add(float64(n))
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrExternalError increments the backend error counter.
func (m *Metrics) IncrExternalError(operation string) {
	m.externalErrors.WithLabelValues(operation).Inc()
}

// CoreSnapshot is a point-in-time view of core health, suitable for a
// diagnostics surface in the embedding application.
type CoreSnapshot struct {
	MutationsCommitted  float64 `json:"mutations_committed"`
	MutationsRolledBack float64 `json:"mutations_rolled_back"`
	MutationsRejected   float64 `json:"mutations_rejected"`
	RollbackRate        float64 `json:"rollback_rate"`
	QueryCacheHitRate   float64 `json:"query_cache_hit_rate"`
	MemoHitRate         float64 `json:"memo_hit_rate"`
}

// Snapshot gathers current counter values from Prometheus.
// Counters expose cumulative values.
func (m *Metrics) Snapshot() CoreSnapshot {
	committed := getCounterValue(m.mutationsTotal, "committed")
	rolledBack := getCounterValue(m.mutationsTotal, "rolled_back")
	rejected := getCounterValue(m.mutationsTotal, "rejected")

	queryHits := getCounterValue(m.cacheHits, "query")
	queryMisses := getCounterValue(m.cacheMisses, "query")
	memoHits := getCounterValue(m.cacheHits, "classifier")
	memoMisses := getCounterValue(m.cacheMisses, "classifier")

	snap := CoreSnapshot{
		MutationsCommitted:  committed,
		MutationsRolledBack: rolledBack,
		MutationsRejected:   rejected,
	}
	if committed+rolledBack > 0 {
		snap.RollbackRate = rolledBack / (committed + rolledBack)
	}
	if queryHits+queryMisses > 0 {
		snap.QueryCacheHitRate = queryHits / (queryHits + queryMisses)
	}
	if memoHits+memoMisses > 0 {
		snap.MemoHitRate = memoHits / (memoHits + memoMisses)
	}
	return snap
}

// getCounterValue extracts the current float64 value from a CounterVec
// for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
