// Package telemetry exposes prometheus metrics for the gateway.
//
// Metrics:
//   - docgate_cache_hits_total / docgate_cache_misses_total
//   - docgate_decisions_total{action,outcome}
//   - docgate_store_fetch_seconds
//   - docgate_store_inits_total
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docgate"

// Collector records gateway metrics.  A nil *Collector is valid and records
// nothing, so callers never have to branch on whether metrics are enabled.
type Collector struct {
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	decisions    *prometheus.CounterVec
	fetchSeconds prometheus.Histogram
	storeInits   prometheus.Counter
}

// NewCollector creates and registers the gateway metrics with registry.
func NewCollector(registry *prometheus.Registry) *Collector {
	c := &Collector{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Document reads served from the proxy cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Document reads that had to reach the backing store.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Terminal outcomes by action and outcome kind.",
		}, []string{"action", "outcome"}),
		fetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_fetch_seconds",
			Help:      "Latency of backing-store fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
		storeInits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_inits_total",
			Help:      "Lazy constructions of the backing store (expected: at most 1).",
		}),
	}

	registry.MustRegister(
		c.cacheHits, c.cacheMisses, c.decisions, c.fetchSeconds, c.storeInits,
	)
	return c
}

func (c *Collector) RecordCacheHit() {
	if c == nil {
		return
	}
	c.cacheHits.Inc()
}

func (c *Collector) RecordCacheMiss() {
	if c == nil {
		return
	}
	c.cacheMisses.Inc()
}

func (c *Collector) RecordDecision(action, outcome string) {
	if c == nil {
		return
	}
	c.decisions.WithLabelValues(action, outcome).Inc()
}

func (c *Collector) RecordStoreFetch(d time.Duration) {
	if c == nil {
		return
	}
	c.fetchSeconds.Observe(d.Seconds())
}

func (c *Collector) RecordStoreInit() {
	if c == nil {
		return
	}
	c.storeInits.Inc()
}
