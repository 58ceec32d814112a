package health

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cart calls are a cache round trip plus at most one catalog lookup, so the
// buckets are finer below 100ms than the client defaults.
var cartLatencyBuckets = []float64{.002, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

var (
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests by chi route",
			Buckets:   cartLatencyBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by chi route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served",
		},
	)
)

// ObserveRequest records one finished request
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}

	HTTPRequests.With(labels).Inc()
	HTTPDuration.With(labels).Observe(elapsed.Seconds())
}
