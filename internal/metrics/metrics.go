package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service instruments. The registry is long-lived and safe
// for concurrent use by all in-flight requests; it is injected rather than
// kept as a package global so tests can run against their own registry.
type Metrics struct {
	registry      *prometheus.Registry
	Requests      *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
	StatusUpdates *prometheus.CounterVec
	ActiveOrders  prometheus.Gauge
}

// NewMetrics creates and registers the order service instruments.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_service_requests_total",
		Help: "Total number of requests to order service",
	}, []string{"method", "endpoint", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_service_latency_seconds",
		Help:    "Time taken to process order requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	statusUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Total number of order status updates",
	}, []string{"from_status", "to_status"})

	activeOrders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "active_orders_total",
		Help: "Total number of active orders",
	})

	registry.MustRegister(requests, latency, statusUpdates, activeOrders)

	return &Metrics{
		registry:      registry,
		Requests:      requests,
		Latency:       latency,
		StatusUpdates: statusUpdates,
		ActiveOrders:  activeOrders,
	}
}

// Handler returns the text exposition handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
