package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	screeningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenings_total",
			Help: "Total number of completed lipid screenings",
		},
		[]string{"risk_level"},
	)

	screeningsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screenings_rejected_total",
			Help: "Total number of screenings rejected at validation",
		},
	)

	activityLogsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activity_logs_total",
			Help: "Total number of daily activity logs recorded",
		},
	)

	escalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escalations_total",
			Help: "Total number of adherence escalation flags raised",
		},
		[]string{"kind"},
	)

	labPanelsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lab_panels_imported_total",
			Help: "Total number of lipid panels imported from the LIS",
		},
		[]string{"status"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath normalizes URL paths for metrics to avoid cardinality explosion
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordScreening records a completed screening by risk level
func RecordScreening(riskLevel string) {
	screeningsTotal.WithLabelValues(riskLevel).Inc()
}

// RecordScreeningRejected records a screening rejected at validation
func RecordScreeningRejected() {
	screeningsRejected.Inc()
}

// RecordActivityLog records a stored daily activity log
func RecordActivityLog() {
	activityLogsTotal.Inc()
}

// RecordEscalation records a raised escalation flag
func RecordEscalation(kind string) {
	escalationsTotal.WithLabelValues(kind).Inc()
}

// RecordLabImport records a lab panel import attempt
func RecordLabImport(status string) {
	labPanelsImported.WithLabelValues(status).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
