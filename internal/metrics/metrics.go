package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// unmatchedRoute labels requests no route accepted, keeping raw paths out of the label set.
const unmatchedRoute = "unmatched"

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by status code, method and route pattern.",
	}, []string{"code", "method", "path"})

	latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})
)

// checkout outcomes
const (
	CheckoutSucceeded   = "succeeded"
	CheckoutRejected    = "rejected"
	CheckoutLimited     = "rate_limited"
	CheckoutDeclined    = "declined"
	CheckoutGatewayDown = "gateway_error"
	CheckoutPartial     = "partial_failure"
)

func RecordCheckout(outcome string) {
	checkouts.WithLabelValues(outcome).Inc()
}

func init() {
	for name, c := range map[string]prometheus.Collector{
		"process": collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		"go":      collectors.NewGoCollector(),
	} {
		if err := prometheus.Register(c); err != nil {
			slog.Debug("Collector already registered", slog.String("collector", name), slog.Any("error", err))
		}
	}
}

type codeRecorder struct {
	http.ResponseWriter
	code int
}

func (c *codeRecorder) WriteHeader(code int) {
	c.code = code
	c.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency. It must wrap the ServeMux
// directly so the matched pattern is visible once the mux returns.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight.Inc()
		defer inFlight.Dec()

		rec := &codeRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}

		requests.WithLabelValues(strconv.Itoa(rec.code), r.Method, route).Inc()
		latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
