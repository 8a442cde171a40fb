// Package metrics defines the Prometheus instruments of the intake pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/forecourt/internal/identify"
)

// Metrics owns a registry and the instruments registered on it.
type Metrics struct {
	registry *prometheus.Registry

	// Identifications counts identification outcomes by status and deciding stage.
	Identifications *prometheus.CounterVec

	// Actions counts what intake did with an outcome: sighting, created, queued, failed.
	Actions *prometheus.CounterVec

	// Messages counts chat messages accepted for batching.
	Messages prometheus.Counter

	// BatchDuration observes the time to extract and process one flushed batch.
	BatchDuration prometheus.Histogram
}

// New creates the instruments on a fresh registry together with the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Identifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecourt_identifications_total",
				Help: "Identification outcomes by status and deciding stage.",
			},
			[]string{"status", "stage"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecourt_intake_actions_total",
				Help: "Actions taken by intake for identified descriptors.",
			},
			[]string{"action"},
		),
		Messages: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "forecourt_intake_messages_total",
				Help: "Chat messages accepted for batching.",
			},
		),
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "forecourt_intake_batch_duration_seconds",
				Help:    "Time to extract and process one flushed message batch.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(
		m.Identifications,
		m.Actions,
		m.Messages,
		m.BatchDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOutcome counts one identification outcome.
func (m *Metrics) ObserveOutcome(o identify.Outcome) {
	m.Identifications.WithLabelValues(o.Status.String(), o.Stage).Inc()
}

// ObserveAction counts one intake action.
func (m *Metrics) ObserveAction(action string) {
	m.Actions.WithLabelValues(action).Inc()
}

// ObserveBatch records the duration of a batch that started at start.
func (m *Metrics) ObserveBatch(start time.Time) {
	m.BatchDuration.Observe(time.Since(start).Seconds())
}

// Registry returns the registry the instruments are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
