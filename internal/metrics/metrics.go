// Package metrics tracks request-level gateway metrics behind a small
// recorder interface, exposed in Prometheus text format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the capability the orchestrator depends on. Every
// request outcome is recorded exactly once, success or failure.
type Recorder interface {
	// RecordRequest observes one completed request with its terminal
	// status code (or failure reason) and total latency.
	RecordRequest(model, statusCode string, latency time.Duration)

	// RecordTokens adds to the per-model generated token total.
	RecordTokens(model string, n int)

	// RecordError counts a failed exchange with the inference server,
	// labeled by reason ("connection_error" or "status_<code>").
	RecordError(model, reason string)

	// SetBackendUp reflects the most recent reachability probe.
	SetBackendUp(up bool)
}

// PromRecorder implements Recorder on a dedicated Prometheus registry,
// so tests and multiple instances do not share global collector state.
type PromRecorder struct {
	registry *prometheus.Registry
	latency  *prometheus.HistogramVec
	requests *prometheus.CounterVec
	tokens   *prometheus.CounterVec
	errors   *prometheus.CounterVec
	up       prometheus.Gauge
}

// Compile-time interface check.
var _ Recorder = (*PromRecorder)(nil)

// NewPromRecorder creates a recorder with all collectors registered.
func NewPromRecorder() *PromRecorder {
	r := &PromRecorder{
		registry: prometheus.NewRegistry(),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "chat_request_latency_seconds",
			Help: "Latency of chat endpoint",
		}, []string{"model"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total chat requests",
		}, []string{"model", "status_code"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_tokens_total",
			Help: "Total tokens in responses",
		}, []string{"model"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_errors_total",
			Help: "Total errors talking to the inference server",
		}, []string{"model", "reason"}),
		up: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ollama_up",
			Help: "Whether the inference server answered the last probe",
		}),
	}

	r.registry.MustRegister(r.latency, r.requests, r.tokens, r.errors, r.up)
	return r
}

// RecordRequest implements Recorder.
func (r *PromRecorder) RecordRequest(model, statusCode string, latency time.Duration) {
	r.requests.WithLabelValues(model, statusCode).Inc()
	r.latency.WithLabelValues(model).Observe(latency.Seconds())
}

// RecordTokens implements Recorder.
func (r *PromRecorder) RecordTokens(model string, n int) {
	r.tokens.WithLabelValues(model).Add(float64(n))
}

// RecordError implements Recorder.
func (r *PromRecorder) RecordError(model, reason string) {
	r.errors.WithLabelValues(model, reason).Inc()
}

// SetBackendUp implements Recorder.
func (r *PromRecorder) SetBackendUp(up bool) {
	if up {
		r.up.Set(1)
	} else {
		r.up.Set(0)
	}
}

// Handler returns the text exposition handler for GET /metrics.
func (r *PromRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
