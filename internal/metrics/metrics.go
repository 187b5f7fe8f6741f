package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		},
	)

	ordersConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_orders_confirmed_total",
			Help: "Orders confirmed through checkout.",
		},
	)

	paymentFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_payment_failures_total",
			Help: "Simulated payment attempts that did not succeed.",
		},
	)
)

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := newResponseWriter(w)

		pathPattern := normalizePath(r.URL.Path)

		httpRequestsInFlight.Inc()

		defer func() {
			httpRequestsInFlight.Dec()

			duration := time.Since(start)

			httpRequestsTotal.WithLabelValues(strconv.Itoa(rw.statusCode), r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
		}()

		next.ServeHTTP(rw, r)
	})
}

// normalizePath collapses variable path segments so the metric label set
// stays bounded. Numeric segments become {id}, a segment after
// /products/category/ becomes {category}.
func normalizePath(path string) string {
	segments := strings.Split(path, "/")

	for i, segment := range segments {
		if segment == "" {
			continue
		}

		if _, err := strconv.Atoi(segment); err == nil {
			segments[i] = "{id}"

			continue
		}

		if i >= 2 && segments[i-1] == "category" && segments[i-2] == "products" {
			segments[i] = "{category}"
		}
	}

	return strings.Join(segments, "/")
}

func OrderConfirmed() {
	ordersConfirmedTotal.Inc()
}

func PaymentFailed() {
	paymentFailuresTotal.Inc()
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
