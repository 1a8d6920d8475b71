// Package metrics counts work done by the console and the cube simulations and
// writes it out in the Prometheus text format for textfile collectors.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "machines"

// Metrics holds the collectors for one CLI run on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	ConsoleSteps          prometheus.Counter
	ConsoleRuns           *prometheus.CounterVec
	ConsoleRepairAttempts prometheus.Counter

	CubeGenerations prometheus.Counter
	CubeActiveCells prometheus.Gauge
	CubeKnownCells  prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		ConsoleSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "steps_total",
			Help:      "Instructions executed by the console",
		}),
		ConsoleRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "runs_total",
			Help:      "Console runs by final status, including each repair attempt",
		}, []string{"status"}),
		ConsoleRepairAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "repair_attempts_total",
			Help:      "Candidate instruction swaps tried by the repair search",
		}),

		CubeGenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cube",
			Name:      "generations_total",
			Help:      "Generations simulated",
		}),
		CubeActiveCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cube",
			Name:      "active_cells",
			Help:      "Active cells after the last generation",
		}),
		CubeKnownCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cube",
			Name:      "known_cells",
			Help:      "Cells tracked by the sparse grid after the last generation",
		}),
	}

	m.Registry.MustRegister(
		m.ConsoleSteps,
		m.ConsoleRuns,
		m.ConsoleRepairAttempts,
		m.CubeGenerations,
		m.CubeActiveCells,
		m.CubeKnownCells,
	)

	return m
}

// ObserveConsole records a finished console run.
func (m *Metrics) ObserveConsole(status string, steps int) {
	m.ConsoleRuns.WithLabelValues(status).Inc()
	m.ConsoleSteps.Add(float64(steps))
}

// ObserveRepair records a finished repair search. Each attempt is a console run
// of its own, so outcomes, keyed by final status, also feed the runs counter.
func (m *Metrics) ObserveRepair(attempts, steps int, outcomes map[string]int) {
	m.ConsoleRepairAttempts.Add(float64(attempts))
	m.ConsoleSteps.Add(float64(steps))

	for status, runs := range outcomes {
		m.ConsoleRuns.WithLabelValues(status).Add(float64(runs))
	}
}

// ObserveGeneration records one simulated generation and the grid size after it.
func (m *Metrics) ObserveGeneration(active, known int) {
	m.CubeGenerations.Inc()
	m.CubeActiveCells.Set(float64(active))
	m.CubeKnownCells.Set(float64(known))
}

// WriteFile writes every registered metric to filename atomically.
func (m *Metrics) WriteFile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", filename, err)
	}

	return nil
}
