// SPDX-License-Identifier: MIT

package telemetry

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/equilibrium"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes solver progress as Prometheus metrics on a private
// registry. A disabled Metrics accepts every call and records nothing.
//
// Metrics implements dp.Observer, so it can be passed to dp.WithObserver.
type Metrics struct {
	config MetricsConfig

	// Dynamic-programming metrics
	solves        *prometheus.CounterVec
	iterations    *prometheus.CounterVec
	lastError     *prometheus.GaugeVec
	solveDuration *prometheus.HistogramVec

	// Equilibrium metrics
	eqSteps  prometheus.Counter
	eqK      prometheus.Gauge
	eqExcess prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.ExponentialBuckets(0.001, 4, 10)
	}
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solves_total",
				Help:      "Completed dynamic-programming solves",
			},
			[]string{"algorithm", "status"},
		),
		iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "iterations_total",
				Help:      "Outer iterations performed by dynamic-programming solvers",
			},
			[]string{"algorithm"},
		),
		lastError: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "iteration_error",
				Help:      "Error of the most recent outer iteration (sup-norm change, or changed actions for hpi)",
			},
			[]string{"algorithm"},
		),
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Duration of dynamic-programming solves in seconds",
				Buckets:   buckets,
			},
			[]string{"algorithm"},
		),

		eqSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equilibrium_evaluations_total",
			Help:      "Evaluations of the equilibrium map G(K)",
		}),
		eqK: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "equilibrium_capital",
			Help:      "Capital stock K of the latest equilibrium evaluation",
		}),
		eqExcess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "equilibrium_excess",
			Help:      "K - G(K) at the latest equilibrium evaluation",
		}),
	}

	registry.MustRegister(
		m.solves,
		m.iterations,
		m.lastError,
		m.solveDuration,
		m.eqSteps,
		m.eqK,
		m.eqExcess,
	)

	return m, nil
}

// Observe implements dp.Observer.
func (m *Metrics) Observe(it dp.Iteration) {
	if m.iterations == nil {
		return
	}
	algo := it.Algorithm.String()
	m.iterations.WithLabelValues(algo).Inc()
	m.lastError.WithLabelValues(algo).Set(it.Error)
}

// RecordSolve counts a finished solve. Status is "converged",
// "not_converged" or "failed".
func (m *Metrics) RecordSolve(algo dp.Algorithm, res *dp.Result, err error) {
	if m.solves == nil {
		return
	}
	status := "converged"
	switch {
	case errors.Is(err, dp.ErrNotConverged):
		status = "not_converged"
	case err != nil:
		status = "failed"
	}
	m.solves.WithLabelValues(algo.String(), status).Inc()
	if res != nil {
		m.solveDuration.WithLabelValues(algo.String()).Observe(res.Elapsed.Seconds())
	}
}

// RecordEquilibriumStep records one G(K) evaluation; it fits
// equilibrium.Options.OnStep.
func (m *Metrics) RecordEquilibriumStep(s equilibrium.Step) {
	if m.eqSteps == nil {
		return
	}
	m.eqSteps.Inc()
	m.eqK.Set(s.K)
	m.eqExcess.Set(s.K - s.Supply)
}

// Registry returns the underlying registry, nil when disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path in the Prometheus text format,
// suitable for the node exporter's textfile collector. It is a no-op when
// metrics are disabled.
func (m *Metrics) WriteTextfile(path string) error {
	if m.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("telemetry: write %s: %w", path, err)
	}
	return nil
}
