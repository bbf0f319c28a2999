package middleware

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/strata-dev/strata/pkg/dispatch"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "strata").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "strata",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for route dispatch.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	inFlight        prometheus.Gauge
	unmatchedTotal  prometheus.Counter
	reloadsTotal    *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_total",
			Help:        "Total number of dispatched requests by route pattern, kind, and status",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "kind", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_duration_seconds",
			Help:        "Handler duration in seconds by route pattern",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"pattern", "kind"}),

		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "request_errors_total",
			Help:        "Total number of handler errors by route pattern and error type",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "error_type"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "requests_in_flight",
			Help:        "Number of requests currently inside a handler",
			ConstLabels: config.ConstLabels,
		}),

		unmatchedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "unmatched_total",
			Help:        "Total number of requests no route matched",
			ConstLabels: config.ConstLabels,
		}),

		reloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reloads_total",
			Help:        "Total number of route table reloads by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// every dispatched request.
//
// Labels use the matched route's pattern, never the raw request path,
// so cardinality stays bounded by the size of the route table.
//
// Metrics collected:
//   - strata_requests_total: Counter of requests by pattern, kind, and status
//   - strata_request_duration_seconds: Histogram of handler duration
//   - strata_request_errors_total: Counter of handler errors by pattern and error type
//   - strata_requests_in_flight: Gauge of requests currently being handled
//   - strata_unmatched_total: Counter of unmatched requests (via RecordUnmatched)
//   - strata_reloads_total: Counter of route table reloads (via RecordReload)
//
// Example:
//
//	handler := dispatch.NewHandler(rt, registry,
//	    dispatch.WithMiddleware(middleware.Prometheus()),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) dispatch.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Initialize metrics once
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return dispatch.MiddlewareFunc(func(ctx *dispatch.Ctx, next func() error) error {
		pattern := "unknown"
		kind := ""
		if route := ctx.Route(); route != nil {
			pattern = route.Pattern
			kind = string(route.Kind)
		}

		m.inFlight.Inc()
		start := time.Now()

		err := next()

		duration := time.Since(start).Seconds()
		m.inFlight.Dec()
		m.requestDuration.WithLabelValues(pattern, kind).Observe(duration)

		status := "success"
		if err != nil {
			status = "error"
			m.requestErrors.WithLabelValues(pattern, categorizeError(err)).Inc()
		}
		m.requestsTotal.WithLabelValues(pattern, kind, status).Inc()

		return err
	})
}

// categorizeError returns a category for the error type.
// This prevents high-cardinality labels from error messages.
func categorizeError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "rate limit"):
		return "rate_limit"
	case strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "no handler"):
		return "no_handler"
	case strings.Contains(msg, "unauthorized"):
		return "unauthorized"
	case strings.Contains(msg, "forbidden"):
		return "forbidden"
	case strings.Contains(msg, "validation"):
		return "validation"
	default:
		return "internal"
	}
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordUnmatched records a request that matched no route.
// Wire this into the dispatch not-found handler.
func RecordUnmatched() {
	if globalMetrics != nil {
		globalMetrics.unmatchedTotal.Inc()
	}
}

// RecordReload records a route table reload attempt.
func RecordReload(ok bool) {
	if globalMetrics == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	globalMetrics.reloadsTotal.WithLabelValues(status).Inc()
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector exposes the metrics for use in custom registrations.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	inFlight        prometheus.Gauge
	unmatchedTotal  prometheus.Counter
	reloadsTotal    *prometheus.CounterVec
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		requestsTotal:   globalMetrics.requestsTotal,
		requestDuration: globalMetrics.requestDuration,
		requestErrors:   globalMetrics.requestErrors,
		inFlight:        globalMetrics.inFlight,
		unmatchedTotal:  globalMetrics.unmatchedTotal,
		reloadsTotal:    globalMetrics.reloadsTotal,
	}
}
