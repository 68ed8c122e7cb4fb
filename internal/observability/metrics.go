// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Analysis metrics
	WalletsAnalyzed    prometheus.Counter
	SwapsReconstructed prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter

	// Report metrics
	ReportsGenerated prometheus.Counter
	ReportsVerified  *prometheus.CounterVec
	ReportsPurged    prometheus.Counter

	// Provider metrics
	HistoryRequests *prometheus.CounterVec
	HistoryLatency  prometheus.Histogram
	WSReconnects    prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "shadowstats"
	}

	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		WalletsAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "wallets_analyzed_total",
			Help:      "Total number of wallet analysis runs",
		}),
		SwapsReconstructed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "swaps_reconstructed_total",
			Help:      "Total number of swaps reconstructed from transactions",
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "cache_hits_total",
			Help:      "Total number of analytics served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "cache_misses_total",
			Help:      "Total number of analytics computed from fresh history",
		}),

		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "generated_total",
			Help:      "Total number of reports generated",
		}),
		ReportsVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "verified_total",
			Help:      "Total number of report verifications by outcome",
		}, []string{"outcome"}),
		ReportsPurged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "purged_total",
			Help:      "Total number of expired reports deleted",
		}),

		HistoryRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "history_requests_total",
			Help:      "Total number of transaction history requests by status",
		}, []string{"status"}),
		HistoryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "history_request_duration_seconds",
			Help:      "Transaction history request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnects",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(route, status string, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, status).Inc()
	DefaultMetrics.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// RecordAnalysis records an analysis run and its reconstructed swap count.
func RecordAnalysis(swaps int) {
	DefaultMetrics.WalletsAnalyzed.Inc()
	DefaultMetrics.SwapsReconstructed.Add(float64(swaps))
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	DefaultMetrics.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	DefaultMetrics.CacheMisses.Inc()
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordReportVerified records a verification outcome.
func RecordReportVerified(valid bool) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	DefaultMetrics.ReportsVerified.WithLabelValues(outcome).Inc()
}

// RecordReportsPurged adds to the purged reports counter.
func RecordReportsPurged(n int64) {
	DefaultMetrics.ReportsPurged.Add(float64(n))
}

// RecordHistoryRequest records a transaction history request.
func RecordHistoryRequest(status string, seconds float64) {
	DefaultMetrics.HistoryRequests.WithLabelValues(status).Inc()
	DefaultMetrics.HistoryLatency.Observe(seconds)
}

// RecordWSReconnect increments the WebSocket reconnect counter.
func RecordWSReconnect() {
	DefaultMetrics.WSReconnects.Inc()
}
