package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deskwise/workflow-service/internal/domain"
)

// Metrics exposes engine counters over a Prometheus registry.
type Metrics struct {
	registry     *prometheus.Registry
	operations   *prometheus.CounterVec
	breaches     *prometheus.CounterVec
	sweeps       prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewMetrics initializes and registers collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_engine_operations_total",
			Help: "Engine operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		breaches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_sla_breaches_total",
			Help: "SLA deadlines newly marked breached.",
		}, []string{"category", "deadline"}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workflow_sla_sweeps_total",
			Help: "Breach monitor sweep runs.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "workflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "workflow_http_errors_total",
			Help: "HTTP error responses by route, method and error code.",
		}, []string{"path", "method", "code"}),
	}
	registry.MustRegister(
		m.operations,
		m.breaches,
		m.sweeps,
		m.httpRequests,
		m.httpDuration,
		m.httpErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordOperation counts one engine operation with its outcome label.
func (m *Metrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// RecordBreach counts a newly breached deadline.
func (m *Metrics) RecordBreach(category domain.TicketCategory, deadline string) {
	if m == nil {
		return
	}
	m.breaches.WithLabelValues(string(category), deadline).Inc()
}

// RecordSweep counts one breach monitor pass.
func (m *Metrics) RecordSweep() {
	if m == nil {
		return
	}
	m.sweeps.Inc()
}

// RecordRequest counts a completed HTTP request and observes its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError counts an HTTP error response by its application error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(path, method, code).Inc()
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
