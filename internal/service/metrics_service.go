package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

const metricsNamespace = "clinic_admin"

// viewBuckets are tuned for in-memory passes over a tenant collection.
var viewBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5}

// MetricsService owns the Prometheus registry and keeps running totals for the
// JSON summary endpoint.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpDuration *prometheus.HistogramVec
	httpTotal    *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	cacheLatency *prometheus.HistogramVec
	cacheRatio   prometheus.Gauge
	dbDuration   *prometheus.HistogramVec
	viewDuration *prometheus.HistogramVec
	viewSize     *prometheus.GaugeVec
	mutations    *prometheus.CounterVec

	hits, misses      atomic.Uint64
	requests, reqNano atomic.Uint64
	queries, dbNano   atomic.Uint64
	viewPasses        atomic.Uint64
	mutationCount     atomic.Uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	m := &MetricsService{registry: prometheus.NewRegistry()}

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "http", Name: "request_duration_seconds",
		Help: "HTTP request latency by route and status.", Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	m.httpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "http", Name: "requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"method", "path", "status"})
	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Subsystem: "cache", Name: "lookups_total",
		Help: "Dashboard cache lookups by result.",
	}, []string{"result"})
	m.cacheLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "cache", Name: "operation_seconds",
		Help: "Cache round trips by operation.", Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	m.cacheRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Subsystem: "cache", Name: "hit_ratio",
		Help: "Hits over total lookups since start.",
	})
	m.dbDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "db", Name: "query_duration_seconds",
		Help: "Repository query latency by label.", Buckets: prometheus.DefBuckets,
	}, []string{"query"})
	m.viewDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace, Subsystem: "dataview", Name: "apply_seconds",
		Help: "Filter, sort and aggregate pass per entity.", Buckets: viewBuckets,
	}, []string{"entity"})
	m.viewSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Subsystem: "dataview", Name: "collection_size",
		Help: "Records in the last collection passed through the view engine.",
	}, []string{"entity"})
	m.mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace, Name: "mutations_total",
		Help: "Successful create, update and delete operations per entity.",
	}, []string{"entity", "op"})
	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace, Name: "goroutines",
		Help: "Live goroutines.",
	}, func() float64 { return float64(runtime.NumGoroutine()) })

	m.registry.MustRegister(m.httpDuration, m.httpTotal, m.cacheLookups, m.cacheLatency, m.cacheRatio,
		m.dbDuration, m.viewDuration, m.viewSize, m.mutations, goroutines)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.httpTotal.WithLabelValues(method, path, code).Inc()
	m.requests.Add(1)
	m.reqNano.Add(uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a lookup and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.WithLabelValues("get").Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		m.hits.Add(1)
	} else {
		m.cacheLookups.WithLabelValues("miss").Inc()
		m.misses.Add(1)
	}
	m.cacheRatio.Set(ratio(m.hits.Load(), m.misses.Load()))
}

// ObserveCacheWrite tracks a cache set.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.WithLabelValues("set").Observe(duration.Seconds())
}

// ObserveDBQuery records repository timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.queries.Add(1)
	m.dbNano.Add(uint64(duration.Nanoseconds()))
}

// ObserveViewApply records one view engine pass over an entity collection.
func (m *MetricsService) ObserveViewApply(entity string, records int, duration time.Duration) {
	if m == nil {
		return
	}
	m.viewDuration.WithLabelValues(entity).Observe(duration.Seconds())
	m.viewSize.WithLabelValues(entity).Set(float64(records))
	m.viewPasses.Add(1)
}

// ObserveMutation counts a persisted create, update or delete.
func (m *MetricsService) ObserveMutation(entity, op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(entity, op).Inc()
	m.mutationCount.Add(1)
}

// Snapshot returns the running totals for the summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits, misses := m.hits.Load(), m.misses.Load()
	requests, queries := m.requests.Load(), m.queries.Load()
	return models.SystemMetrics{
		CacheHitRatio:            ratio(hits, misses),
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: averageMs(m.reqNano.Load(), requests),
		DBQueryCount:             queries,
		AverageDBQueryDurationMs: averageMs(m.dbNano.Load(), queries),
		ViewPasses:               m.viewPasses.Load(),
		Mutations:                m.mutationCount.Load(),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func ratio(hits, misses uint64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

func averageMs(totalNano, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNano) / float64(count) / float64(time.Millisecond)
}
