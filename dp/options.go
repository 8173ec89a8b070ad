// SPDX-License-Identifier: MIT

package dp

import (
	"math"
	"runtime"

	"github.com/katalvlaran/bellman/matrix"
	"github.com/rs/zerolog"
)

// Algorithm selects the outer solution strategy.
type Algorithm int

const (
	// VFI is value iteration: v ← T(v) until the sup-norm change is ≤ tol.
	VFI Algorithm = iota

	// HPI is Howard policy iteration: exact evaluation then greedy improvement
	// until the policy is unchanged.
	HPI

	// OPI is optimistic policy iteration: greedy σ, then v ← T_σ^m(v).
	OPI
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case VFI:
		return "vfi"
	case HPI:
		return "hpi"
	case OPI:
		return "opi"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps "vfi", "hpi" and "opi" to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch s {
	case "vfi":
		return VFI, true
	case "hpi":
		return HPI, true
	case "opi":
		return OPI, true
	default:
		return VFI, false
	}
}

// Defaults (single source of truth).
const (
	DefaultTolerance  = 1e-6
	DefaultVFIMaxIter = 10_000
	DefaultHPIMaxIter = 200
	DefaultOPIMaxIter = 1_000
	DefaultSteps      = 10
)

// Panic messages for nonsensical option values (programmer error).
const (
	panicTolerance = "dp: WithTolerance: tol must be finite and > 0"
	panicMaxIter   = "dp: WithMaxIter: maxIter must be >= 1"
	panicSteps     = "dp: WithSteps: m must be >= 1"
	panicWorkers   = "dp: WithWorkers: workers must be >= 0"
	panicKrylov    = "dp: WithKrylov: tol must be > 0 and maxIter >= 1"
)

// Iteration is one diagnostic record emitted after each outer step.
// For HPI, Error is the number of states whose action changed.
type Iteration struct {
	Algorithm Algorithm
	Index     int
	Error     float64
}

// Observer receives per-iteration diagnostics. It is advisory: observers
// cannot influence the solve.
type Observer interface {
	Observe(it Iteration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(it Iteration)

// Observe implements Observer.
func (f ObserverFunc) Observe(it Iteration) { f(it) }

// Option configures a solve. Constructors panic only on nonsensical values.
type Option func(*config)

// config is the resolved option set.
type config struct {
	algorithm  Algorithm
	tol        float64
	maxIter    int
	maxIterSet bool
	steps      int
	workers    int
	initial    []float64
	krylov     matrix.KrylovOptions
	logger     zerolog.Logger
	observer   Observer
}

// WithAlgorithm selects the algorithm used by Solve.
func WithAlgorithm(a Algorithm) Option {
	return func(c *config) { c.algorithm = a }
}

// WithTolerance sets the sup-norm stopping tolerance of VFI and OPI.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicTolerance)
	}
	return func(c *config) { c.tol = tol }
}

// WithMaxIter sets the outer iteration ceiling.
func WithMaxIter(n int) Option {
	if n < 1 {
		panic(panicMaxIter)
	}
	return func(c *config) { c.maxIter, c.maxIterSet = n, true }
}

// WithSteps sets m, the number of policy-operator applications per OPI step.
func WithSteps(m int) Option {
	if m < 1 {
		panic(panicSteps)
	}
	return func(c *config) { c.steps = m }
}

// WithWorkers bounds the goroutines used inside one operator application.
// 0 selects runtime.GOMAXPROCS(0); 1 runs sequentially.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkers)
	}
	return func(c *config) { c.workers = n }
}

// WithInitialValue sets v₀ (copied). Its length is checked when the solve starts.
func WithInitialValue(v []float64) Option {
	cp := append([]float64(nil), v...)
	return func(c *config) { c.initial = cp }
}

// WithKrylov configures the BiCGStab solve of the policy evaluator.
func WithKrylov(tol float64, maxIter int) Option {
	if !(tol > 0) || maxIter < 1 {
		panic(panicKrylov)
	}
	return func(c *config) { c.krylov = matrix.KrylovOptions{Tol: tol, MaxIter: maxIter} }
}

// WithLogger routes diagnostics to l. The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithObserver registers a per-iteration observer.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// gatherOptions applies opts over defaults for the algorithm algo, which
// overrides any WithAlgorithm among opts. The iteration ceiling default
// depends on the algorithm, so it is filled in after all options ran.
func gatherOptions(algo Algorithm, opts ...Option) config {
	c := config{
		tol:    DefaultTolerance,
		steps:  DefaultSteps,
		krylov: matrix.DefaultKrylovOptions(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	c.algorithm = algo
	if !c.maxIterSet {
		switch c.algorithm {
		case HPI:
			c.maxIter = DefaultHPIMaxIter
		case OPI:
			c.maxIter = DefaultOPIMaxIter
		default:
			c.maxIter = DefaultVFIMaxIter
		}
	}
	if c.workers == 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}

	return c
}

// selectedAlgorithm returns the algorithm chosen by opts (VFI when none is).
func selectedAlgorithm(opts ...Option) Algorithm {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c.algorithm
}

func (c *config) observe(k int, e float64) {
	c.logger.Debug().
		Str("algorithm", c.algorithm.String()).
		Int("iteration", k).
		Float64("error", e).
		Msg("iteration")
	if c.observer != nil {
		c.observer.Observe(Iteration{Algorithm: c.algorithm, Index: k, Error: e})
	}
}
