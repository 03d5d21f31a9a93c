package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stocklens"

// Metrics owns a private registry and the counters the service reports.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups    *prometheus.CounterVec
	pipelineResults *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
}

// New creates the registry together with Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	_ = reg.Register(collectors.NewGoCollector())
	_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "TTL cache lookups by cache name and outcome (hit, miss, stale, error).",
		}, []string{"cache", "outcome"}),
		pipelineResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_requests_total",
			Help:      "Pipeline executions by operation and result kind.",
		}, []string{"operation", "result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_fetch_seconds",
			Help:      "Latency of upstream directory and price fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
	reg.MustRegister(m.cacheLookups, m.pipelineResults, m.fetchDuration)
	return m
}

// ObserveCache records a cache lookup outcome.
func (m *Metrics) ObserveCache(cache, outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(cache, outcome).Inc()
}

// ObservePipeline records the result of one pipeline execution.
func (m *Metrics) ObservePipeline(operation, result string) {
	if m == nil {
		return
	}
	m.pipelineResults.WithLabelValues(operation, result).Inc()
}

// ObserveFetch records how long an upstream call took.
func (m *Metrics) ObserveFetch(source string, started time.Time) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
