package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dispatch core. A nil *Metrics
// is valid and records nothing, so the core can run without metrics wired.
type Metrics struct {
	registry *prometheus.Registry

	// Dispatch metrics
	DispatchesTotal  *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec

	// Routing metrics
	RouteHitsTotal *prometheus.CounterVec

	// Handler metrics
	HandlerExecutionsTotal   *prometheus.CounterVec
	HandlerExecutionDuration *prometheus.HistogramVec
	HandlerFaultsTotal       *prometheus.CounterVec

	// Classifier metrics
	ClassifierErrorsTotal prometheus.Counter
}

// NewMetrics creates and registers all metrics on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		DispatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_requests_total",
				Help: "Total dispatch requests by terminal response kind",
			},
			[]string{"kind"},
		),
		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_duration_seconds",
				Help:    "End-to-end dispatch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		RouteHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_route_hits_total",
				Help: "Routing decisions by source (keyword or classifier) and handler",
			},
			[]string{"source", "handler"},
		),
		HandlerExecutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handler_executions_total",
				Help: "Handler executions by handler name and outcome kind",
			},
			[]string{"handler", "outcome"},
		),
		HandlerExecutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "handler_execution_duration_seconds",
				Help:    "Duration of handler executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler"},
		),
		HandlerFaultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "handler_faults_total",
				Help: "Recovered handler panics by handler name",
			},
			[]string{"handler"},
		),
		ClassifierErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "classifier_errors_total",
				Help: "Failed external classifier calls",
			},
		),
	}

	registry.MustRegister(
		m.DispatchesTotal,
		m.DispatchDuration,
		m.RouteHitsTotal,
		m.HandlerExecutionsTotal,
		m.HandlerExecutionDuration,
		m.HandlerFaultsTotal,
		m.ClassifierErrorsTotal,
	)

	return m
}

// ObserveDispatch records one finished dispatch.
func (m *Metrics) ObserveDispatch(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.DispatchesTotal.WithLabelValues(kind).Inc()
	m.DispatchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveRoute records a routing decision.
func (m *Metrics) ObserveRoute(source, handler string) {
	if m == nil {
		return
	}
	m.RouteHitsTotal.WithLabelValues(source, handler).Inc()
}

// ObserveHandlerExecution records one handler execution.
func (m *Metrics) ObserveHandlerExecution(handler, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HandlerExecutionsTotal.WithLabelValues(handler, outcome).Inc()
	m.HandlerExecutionDuration.WithLabelValues(handler).Observe(elapsed.Seconds())
}

// ObserveHandlerFault records a recovered handler panic.
func (m *Metrics) ObserveHandlerFault(handler string) {
	if m == nil {
		return
	}
	m.HandlerFaultsTotal.WithLabelValues(handler).Inc()
}

// ObserveClassifierError records a failed classifier call.
func (m *Metrics) ObserveClassifierError() {
	if m == nil {
		return
	}
	m.ClassifierErrorsTotal.Inc()
}

// Handler returns an HTTP handler exposing the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
