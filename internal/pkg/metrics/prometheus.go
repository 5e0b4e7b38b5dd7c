package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriscan",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nutriscan",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nutriscan",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Scan metrics
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriscan",
			Subsystem: "scan",
			Name:      "total",
			Help:      "Total number of scan attempts by plan and outcome",
		},
		[]string{"plan", "outcome"},
	)

	scoreDistribution = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nutriscan",
			Subsystem: "scan",
			Name:      "score",
			Help:      "Distribution of health scores",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"level"},
	)

	quotaRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriscan",
			Subsystem: "quota",
			Name:      "rejections_total",
			Help:      "Scans refused because the daily quota was exhausted",
		},
		[]string{"plan"},
	)

	quotaCounters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nutriscan",
			Subsystem: "quota",
			Name:      "live_counters",
			Help:      "Number of daily quota counters left after the last sweep",
		},
	)

	// Lookup metrics
	lookupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriscan",
			Subsystem: "lookup",
			Name:      "total",
			Help:      "Product lookups by source and result",
		},
		[]string{"source", "result"},
	)

	lookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nutriscan",
			Subsystem: "lookup",
			Name:      "duration_seconds",
			Help:      "Duration of product lookups in seconds",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	// Store metrics
	storeOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nutriscan",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Key-value store operation duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "backend"},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriscan",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events handed to the broker",
		},
		[]string{"type", "status"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordScan records a scan attempt. outcome is one of ok, quota_exceeded,
// not_found or error.
func RecordScan(plan, outcome string) {
	scansTotal.WithLabelValues(plan, outcome).Inc()
}

// ObserveScore records the score of a completed analysis
func ObserveScore(level string, score int) {
	scoreDistribution.WithLabelValues(level).Observe(float64(score))
}

// RecordQuotaRejection records a refused scan
func RecordQuotaRejection(plan string) {
	quotaRejections.WithLabelValues(plan).Inc()
}

// SetQuotaCounters sets the gauge for live quota counters
func SetQuotaCounters(count float64) {
	quotaCounters.Set(count)
}

// RecordLookup records a product lookup
func RecordLookup(source, result string, duration time.Duration) {
	lookupTotal.WithLabelValues(source, result).Inc()
	lookupDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordStoreOp records a key-value store operation duration
func RecordStoreOp(operation, backend string, duration time.Duration) {
	storeOpDuration.WithLabelValues(operation, backend).Observe(duration.Seconds())
}

// RecordEvent records a publish attempt
func RecordEvent(eventType, status string) {
	eventsPublished.WithLabelValues(eventType, status).Inc()
}
