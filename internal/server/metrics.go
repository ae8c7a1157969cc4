package server

import (
	"github.com/mwiater/abplay/internal/abtest"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry    *prometheus.Registry
	evaluations *prometheus.CounterVec
	pValues     prometheus.Histogram
}

// NewMetrics registers the evaluation collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "abplay_evaluations_total",
			Help: "Evaluations by alternative and outcome",
		}, []string{"alternative", "outcome"}),
		pValues: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "abplay_evaluation_p_value",
			Help:    "Distribution of p-values returned by successful evaluations",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
	m.registry.MustRegister(m.evaluations, m.pValues)
	return m
}

func (m *Metrics) observeResult(alternative string, pValue float64, significant bool) {
	outcome := "not_significant"
	if significant {
		outcome = "significant"
	}
	m.evaluations.WithLabelValues(alternative, outcome).Inc()
	m.pValues.Observe(pValue)
}

// observeInvalid labels by the canonical alternative name so spelling
// variants of one alternative share a series.
func (m *Metrics) observeInvalid(alternative abtest.Alternative) {
	label := "unknown"
	if alternative.Valid() {
		label = alternative.String()
	}
	m.evaluations.WithLabelValues(label, "invalid").Inc()
}
