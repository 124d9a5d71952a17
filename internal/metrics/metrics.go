// Package metrics exposes validation, extension and serialization counters.
//
// All methods are nil-safe so callers may hold a nil *Metrics when no
// registry was configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Assignment results.
const (
	ResultAccepted = "accepted"
	ResultWarned   = "warned"
	ResultRejected = "rejected"
)

// Metrics provides observability for the registry and serializer.
type Metrics struct {
	// Property assignments by result
	Assignments *prometheus.CounterVec

	// Validation failures by error kind
	ValidationErrors *prometheus.CounterVec

	// Runtime extension registrations by what was registered
	Registrations *prometheus.CounterVec

	// Nodes emitted per serialization, by whether they were fully expanded
	Nodes *prometheus.CounterVec

	// Serialization latency
	SerializeLatency prometheus.Histogram
}

// New registers all metrics with reg. A nil reg uses a fresh private
// registry, so repeated construction never panics on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		Assignments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provgraph_assignments_total",
			Help: "Total property assignments by validation result",
		}, []string{"result"}),

		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provgraph_validation_errors_total",
			Help: "Total validation errors by kind",
		}, []string{"kind"}), // kind: "unknown_property", "unknown_class", "domain", "range"

		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provgraph_extension_registrations_total",
			Help: "Total runtime extension registrations by target",
		}, []string{"target"}), // target: "class", "property", "coercion"

		Nodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "provgraph_serialized_nodes_total",
			Help: "Total entity nodes serialized, by expansion",
		}, []string{"expansion"}), // expansion: "full", "reference"

		SerializeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "provgraph_serialize_duration_seconds",
			Help:    "Duration of document serialization",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

// IncAssignment records one assignment outcome.
func (m *Metrics) IncAssignment(result string) {
	if m != nil {
		m.Assignments.WithLabelValues(result).Inc()
	}
}

// IncValidationError records one validation failure.
func (m *Metrics) IncValidationError(kind string) {
	if m != nil {
		m.ValidationErrors.WithLabelValues(kind).Inc()
	}
}

// IncRegistration records one extension registration.
func (m *Metrics) IncRegistration(target string) {
	if m != nil {
		m.Registrations.WithLabelValues(target).Inc()
	}
}

// AddNodes records emitted nodes.
func (m *Metrics) AddNodes(full, references int) {
	if m != nil {
		m.Nodes.WithLabelValues("full").Add(float64(full))
		m.Nodes.WithLabelValues("reference").Add(float64(references))
	}
}

// ObserveSerialize records the duration of one serialization.
func (m *Metrics) ObserveSerialize(d time.Duration) {
	if m != nil {
		m.SerializeLatency.Observe(d.Seconds())
	}
}
