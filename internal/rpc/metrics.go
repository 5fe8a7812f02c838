package rpc

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors in their own registry.
type Metrics struct {
	registry *prometheus.Registry

	Computations *prometheus.CounterVec
	Duration     prometheus.Histogram
}

// NewMetrics creates and registers the server collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	computations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "computations_total",
			Help:      "Total number of chart computations by rule set and outcome",
		},
		[]string{"rule_set", "outcome"},
	)

	duration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "computation_duration_seconds",
			Help:      "Chart computation duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	registry.MustRegister(computations, duration)

	return &Metrics{
		registry:     registry,
		Computations: computations,
		Duration:     duration,
	}
}

// Registry returns the collector registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(ruleSet string, outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Computations.WithLabelValues(ruleSet, string(outcome)).Inc()
	m.Duration.Observe(elapsed.Seconds())
}
