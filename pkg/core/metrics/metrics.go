// Package metrics holds the Prometheus collectors of the analysis service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all collectors. Each Registry owns its own prometheus
// registry so tests and multiple servers do not collide.
type Registry struct {
	reg *prometheus.Registry

	// Analysis runs
	AnalysisRuns     *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	MetricsComputed  prometheus.Histogram
	MetricsDefined   prometheus.Histogram
	HealthScores     prometheus.Histogram

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	RateLimited  prometheus.Counter

	// Storage
	StoreOps *prometheus.CounterVec
}

// NewRegistry creates and registers every collector.
func NewRegistry() *Registry {
	m := &Registry{
		reg: prometheus.NewRegistry(),

		AnalysisRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fa_analysis_runs_total",
				Help: "Analysis runs by outcome",
			},
			[]string{"result"},
		),

		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fa_analysis_duration_seconds",
				Help:    "Duration of one analysis run in seconds",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"result"},
		),

		MetricsComputed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fa_report_metrics",
				Help:    "Metrics declared per report",
				Buckets: prometheus.LinearBuckets(0, 25, 10),
			},
		),

		MetricsDefined: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fa_report_defined_metrics",
				Help:    "Metrics with a defined value per report",
				Buckets: prometheus.LinearBuckets(0, 25, 10),
			},
		),

		HealthScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fa_health_score",
				Help:    "Distribution of composite health scores",
				Buckets: []float64{55, 65, 75, 85, 100},
			},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fa_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "method", "code"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fa_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fa_http_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),

		StoreOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fa_store_operations_total",
				Help: "Report store operations by backend, operation and result",
			},
			[]string{"backend", "op", "result"},
		),
	}

	m.reg.MustRegister(
		m.AnalysisRuns,
		m.AnalysisDuration,
		m.MetricsComputed,
		m.MetricsDefined,
		m.HealthScores,
		m.HTTPRequests,
		m.HTTPDuration,
		m.RateLimited,
		m.StoreOps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (m *Registry) Gatherer() prometheus.Gatherer { return m.reg }

// RecordAnalysis records one finished run. result is "ok", "invalid" or "error".
func (m *Registry) RecordAnalysis(result string, elapsed time.Duration) {
	m.AnalysisRuns.WithLabelValues(result).Inc()
	m.AnalysisDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// RecordReport records the shape of a successful report.
func (m *Registry) RecordReport(total, defined int, score float64) {
	m.MetricsComputed.Observe(float64(total))
	m.MetricsDefined.Observe(float64(defined))
	m.HealthScores.Observe(score)
}

// RecordHTTP records one served request.
func (m *Registry) RecordHTTP(route, method string, code int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordStore records a store operation.
func (m *Registry) RecordStore(backend, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreOps.WithLabelValues(backend, op, result).Inc()
}
