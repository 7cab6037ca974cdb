package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Planner metric label values.
const (
	StagePreview = "preview"
	StageCommit  = "commit"

	OutcomeProposed  = "proposed"
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeAccepted  = "accepted"
	OutcomeError     = "error"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	plans           *prometheus.CounterVec
	planSessions    prometheus.Histogram
	placements      *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec
}

// NewMetricsService registers HTTP, cache and planner collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_plans_total",
		Help: "Weekly plan previews and commits by outcome",
	}, []string{"stage", "outcome"})

	planSessions := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_plan_sessions",
		Help:    "Number of sessions per proposed plan",
		Buckets: []float64{0, 1, 3, 5, 10, 20, 40, 80},
	})

	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_placements_total",
		Help: "Manual session placements by outcome",
	}, []string{"outcome"})

	rateLimited := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests refused by the per-user rate limiter",
	}, []string{"path"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups, plans, planSessions, placements, rateLimited, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		plans:           plans,
		planSessions:    planSessions,
		placements:      placements,
		rateLimited:     rateLimited,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup result.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordPlan counts a preview or commit outcome; sessions is observed for proposals only.
func (m *MetricsService) RecordPlan(stage, outcome string, sessions int) {
	if m == nil {
		return
	}
	m.plans.WithLabelValues(stage, outcome).Inc()
	if stage == StagePreview && outcome == OutcomeProposed {
		m.planSessions.Observe(float64(sessions))
	}
}

// RecordPlacement counts a manual placement outcome.
func (m *MetricsService) RecordPlacement(outcome string) {
	if m == nil {
		return
	}
	m.placements.WithLabelValues(outcome).Inc()
}

// RecordRateLimited counts a throttled request.
func (m *MetricsService) RecordRateLimited(path string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(path).Inc()
}
