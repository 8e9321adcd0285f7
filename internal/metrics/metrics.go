// Package metrics collects Prometheus metrics for store operations and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records store and HTTP metrics.
type Collector struct {
	operations *prometheus.CounterVec
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "impactmatch_store_operations_total",
			Help: "Store operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "impactmatch_http_requests_total",
			Help: "HTTP responses by method and status code.",
		}, []string{"method", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "impactmatch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(c.operations, c.requests, c.latency)
	return c
}

// RecordOperation counts one store operation with its outcome.
func (c *Collector) RecordOperation(operation, outcome string) {
	c.operations.WithLabelValues(operation, outcome).Inc()
}

// RecordHTTPRequest counts one HTTP response and observes its latency.
func (c *Collector) RecordHTTPRequest(method string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
