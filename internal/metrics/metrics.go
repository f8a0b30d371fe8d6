// Package metrics exposes Prometheus collectors for model validation and
// graph rendering.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Validation outcomes.
const (
	OutcomeValid  = "valid"
	OutcomeBroken = "broken"
	OutcomeError  = "error"
)

// Metrics groups the workstate collectors.
type Metrics struct {
	Validations *prometheus.CounterVec
	States      *prometheus.GaugeVec
	Renders     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workstate_validations_total",
				Help: "Total number of model validations by outcome",
			},
			[]string{"target", "outcome"},
		),
		States: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "workstate_model_states",
				Help: "Number of states declared per scope in the last loaded model",
			},
			[]string{"scope"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workstate_graph_renders_total",
				Help: "Total number of graph renders by format",
			},
			[]string{"format"},
		),
	}
	reg.MustRegister(m.Validations, m.States, m.Renders)
	return m
}

// ObserveValidation counts one validation of target.
// err is nil for a sound model; broken marks a model that loaded but failed
// its checks, as opposed to a load failure.
func (m *Metrics) ObserveValidation(target string, err error, broken bool) {
	outcome := OutcomeValid
	switch {
	case err != nil && broken:
		outcome = OutcomeBroken
	case err != nil:
		outcome = OutcomeError
	}
	m.Validations.WithLabelValues(target, outcome).Inc()
}

// SetStates records the state count of each scope.
func (m *Metrics) SetStates(counts map[string]int) {
	m.States.Reset()
	for scope, n := range counts {
		m.States.WithLabelValues(scope).Set(float64(n))
	}
}

// ObserveRender counts one rendering in format.
func (m *Metrics) ObserveRender(format string) {
	m.Renders.WithLabelValues(format).Inc()
}
