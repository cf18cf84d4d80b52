package chat

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics provides Prometheus-compatible metrics collection for
// chat request handling.
//
// Metrics exposed (all namespaced with "toolchat_"):
//
// 1. requests_total (counter): Completed chat requests.
// Labels: status (ok/error).
//
// 2. tool_invocations_total (counter): Tool invocations requested by the
// model. Labels: tool, status (success/error/unknown).
//
// 3. model_latency_ms (histogram): Model round-trip duration in
// milliseconds. Labels: round (1/2).
// Buckets: [10, 50, 100, 250, 500, 1000, 2500, 5000, 10000].
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	metrics := chat.NewPrometheusMetrics(registry)
//	orch := chat.New(m, tools, chat.WithMetrics(metrics))
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
//
// All methods are nil-receiver safe so the orchestrator can run unmetered.
type PrometheusMetrics struct {
	requests        *prometheus.CounterVec
	toolInvocations *prometheus.CounterVec
	modelLatency    *prometheus.HistogramVec
}

// NewPrometheusMetrics creates and registers all chat metrics with the
// provided Prometheus registry.
//
// Parameters:
// - registry: Registry to register metrics with (nil uses the default
// global registerer).
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &PrometheusMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolchat",
			Name:      "requests_total",
			Help:      "Completed chat requests by outcome.",
		}, []string{"status"}),
		toolInvocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolchat",
			Name:      "tool_invocations_total",
			Help:      "Tool invocations requested by the model.",
		}, []string{"tool", "status"}),
		modelLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "toolchat",
			Name:      "model_latency_ms",
			Help:      "Model round-trip latency in milliseconds.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"round"}),
	}
}

// RecordRequest counts one completed chat request.
func (m *PrometheusMetrics) RecordRequest(status string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status).Inc()
}

// RecordToolInvocation counts one tool invocation outcome.
func (m *PrometheusMetrics) RecordToolInvocation(tool, status string) {
	if m == nil {
		return
	}
	m.toolInvocations.WithLabelValues(tool, status).Inc()
}

// ObserveModelLatency records the duration of one model round trip.
func (m *PrometheusMetrics) ObserveModelLatency(round string, d time.Duration) {
	if m == nil {
		return
	}
	m.modelLatency.WithLabelValues(round).Observe(float64(d.Milliseconds()))
}
