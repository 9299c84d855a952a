package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	stageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_transitions_total",
			Help: "Total number of pipeline stage transitions",
		},
		[]string{"to_stage"},
	)

	quoteDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_decisions_total",
			Help: "Total number of quote outcomes",
		},
		[]string{"status"},
	)

	deliveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_failures_total",
			Help: "Total number of failed deliveries",
		},
	)
)

// Metrics records request counts and latencies. Paths are labelled with the
// chi route pattern so per-ID URLs do not blow up label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// RecordStageTransition counts a pipeline card landing in a stage.
func RecordStageTransition(toStage string) {
	stageTransitions.WithLabelValues(toStage).Inc()
}

// RecordQuoteDecision counts a quote reaching a terminal status.
func RecordQuoteDecision(status string) {
	quoteDecisions.WithLabelValues(status).Inc()
}

// RecordDeliveryFailure counts a delivery marked as failed.
func RecordDeliveryFailure() {
	deliveryFailures.Inc()
}
