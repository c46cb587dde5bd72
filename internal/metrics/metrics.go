// Package metrics exposes prometheus counters for schema compilation and
// document storage.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "docmapper"

	MetricSchemaBuilds    = "schema_builds_total"
	MetricSchemaCacheHits = "schema_cache_hits_total"
	MetricStorageOps      = "storage_operations_total"
	MetricStorageLatency  = "storage_operation_seconds"

	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	SchemaBuilds    *prometheus.CounterVec
	SchemaCacheHits prometheus.Counter
	StorageOps      *prometheus.CounterVec
	StorageLatency  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg when reg is not nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SchemaBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      MetricSchemaBuilds,
				Help:      "Number of schema builds by result.",
			},
			[]string{"result"},
		),
		SchemaCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      MetricSchemaCacheHits,
				Help:      "Number of schema requests served from the cache.",
			},
		),
		StorageOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      MetricStorageOps,
				Help:      "Number of storage operations by operation, collection and result.",
			},
			[]string{"op", "collection", "result"},
		),
		StorageLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      MetricStorageLatency,
				Help:      "Latency of storage operations.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"op"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.SchemaBuilds, m.SchemaCacheHits, m.StorageOps, m.StorageLatency)
	}

	return m
}

func result(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultOK
}

// SchemaBuilt counts a finished schema build.
func (m *Metrics) SchemaBuilt(err error) {
	if m == nil {
		return
	}

	m.SchemaBuilds.WithLabelValues(result(err)).Inc()
}

// CacheHit counts a schema served from the cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}

	m.SchemaCacheHits.Inc()
}

// StorageOp records one storage operation started at start.
func (m *Metrics) StorageOp(op, collection string, start time.Time, err error) {
	if m == nil {
		return
	}

	m.StorageOps.WithLabelValues(op, collection, result(err)).Inc()
	m.StorageLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
