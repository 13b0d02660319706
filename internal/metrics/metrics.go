// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for Messages
const (
	OutcomeSuccess = "success"
)

// Metrics contains all Prometheus metrics of the voice digest service
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline metrics
	Messages      *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	InFlight      prometheus.Gauge

	// Model metrics
	ModelLoads        *prometheus.CounterVec
	ModelLoadDuration *prometheus.HistogramVec

	// Webhook metrics
	WebhookRequests *prometheus.CounterVec
}

// New creates all metrics on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_digest_messages_total",
			Help: "Processed audio messages by outcome",
		}, []string{"outcome"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voice_digest_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voice_digest_in_flight",
			Help: "Pipeline invocations currently running",
		}),

		ModelLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_digest_model_loads_total",
			Help: "Model load attempts by model and result",
		}, []string{"model", "result"}),
		ModelLoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voice_digest_model_load_duration_seconds",
			Help:    "Time spent loading models",
			Buckets: []float64{0.01, 0.1, 1, 5, 15, 30, 60, 120},
		}, []string{"model"}),

		WebhookRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_digest_webhook_requests_total",
			Help: "Webhook deliveries by HTTP status",
		}, []string{"status"}),
	}
}

// ObserveStage records how long a stage took
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveOutcome counts one finished message
func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Messages.WithLabelValues(outcome).Inc()
}

// ObserveModelLoad counts one load attempt
func (m *Metrics) ObserveModelLoad(model string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.ModelLoads.WithLabelValues(model, result).Inc()
	m.ModelLoadDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
