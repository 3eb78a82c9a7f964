package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a check run.
type Metrics struct {
	Registry        *prometheus.Registry
	ScenariosTotal  *prometheus.CounterVec
	StepDuration    *prometheus.HistogramVec
	StepErrorsTotal *prometheus.CounterVec
	LastRunSuccess  *prometheus.GaugeVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	scenarios := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecheck_scenarios_total",
			Help: "Scenario runs by outcome.",
		},
		[]string{"scenario", "result"},
	)
	stepDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storecheck_step_duration_seconds",
			Help:    "Wall time of each scenario step.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"scenario", "step"},
	)
	stepErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storecheck_step_errors_total",
			Help: "Failed steps by error type.",
		},
		[]string{"scenario", "error_type"},
	)
	lastRun := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storecheck_last_run_success",
			Help: "1 if the last run of the scenario passed, 0 otherwise.",
		},
		[]string{"scenario"},
	)

	registry.MustRegister(scenarios, stepDuration, stepErrors, lastRun)

	return &Metrics{
		Registry:        registry,
		ScenariosTotal:  scenarios,
		StepDuration:    stepDuration,
		StepErrorsTotal: stepErrors,
		LastRunSuccess:  lastRun,
	}
}

// ObserveStep records the duration of a finished step.
func (m *Metrics) ObserveStep(scenario, step string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepDuration.WithLabelValues(scenario, step).Observe(d.Seconds())
}

// IncStepError counts a failed step under its error type label.
func (m *Metrics) IncStepError(scenario, errorType string) {
	if m == nil {
		return
	}
	m.StepErrorsTotal.WithLabelValues(scenario, errorType).Inc()
}

// ScenarioDone records the scenario outcome.
func (m *Metrics) ScenarioDone(scenario string, passed bool) {
	if m == nil {
		return
	}
	result, gauge := "fail", 0.0
	if passed {
		result, gauge = "pass", 1.0
	}
	m.ScenariosTotal.WithLabelValues(scenario, result).Inc()
	m.LastRunSuccess.WithLabelValues(scenario).Set(gauge)
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
