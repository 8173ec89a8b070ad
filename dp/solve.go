// SPDX-License-Identifier: MIT

package dp

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/bellman/matrix"
	"gonum.org/v1/gonum/floats"
)

const (
	opVFI   = "ValueIteration"
	opHPI   = "PolicyIteration"
	opOPI   = "OptimisticPolicyIteration"
	opSolve = "Solve"
)

// Result is the outcome of one solve.
//
// Value and Policy are freshly allocated and owned by the caller. When
// Converged is false the algorithm stopped at its iteration ceiling and
// Value/Policy hold the last iterate; the accompanying error wraps
// ErrNotConverged.
type Result struct {
	Algorithm  Algorithm
	Dims       Dims
	Value      []float64
	Policy     []int
	Iterations int
	// Error is the last sup-norm change for VFI and OPI and the number of
	// states whose action changed for HPI.
	Error     float64
	Converged bool
	Elapsed   time.Duration
}

// At returns the value and the chosen action at state (i, j).
func (r *Result) At(i, j int) (float64, int) {
	s := r.Dims.Index(i, j)
	return r.Value[s], r.Policy[s]
}

// Solve runs the algorithm selected by WithAlgorithm (VFI by default).
func Solve(ctx context.Context, m *Model, opts ...Option) (*Result, error) {
	switch a := selectedAlgorithm(opts...); a {
	case VFI:
		return ValueIteration(ctx, m, opts...)
	case HPI:
		return PolicyIteration(ctx, m, opts...)
	case OPI:
		return OptimisticPolicyIteration(ctx, m, opts...)
	default:
		return nil, fmt.Errorf("%s: unknown algorithm %d: %w", opSolve, int(a), ErrInvalidModel)
	}
}

// initialValue returns a private copy of v₀, zeros when none was configured.
func (c *config) initialValue(op string, m *Model) ([]float64, error) {
	n := m.dims.States()
	if c.initial == nil {
		return make([]float64, n), nil
	}
	if len(c.initial) != n {
		return nil, fmt.Errorf("%s: initial value length %d, want %d: %w", op, len(c.initial), n, ErrDimensionMismatch)
	}
	if err := matrix.ValidateFiniteVec(c.initial); err != nil {
		return nil, fmt.Errorf("%s: initial value: %w", op, err)
	}

	return append([]float64(nil), c.initial...), nil
}

// start checks the model and prepares the shared solve state.
func (c *config) start(op string, m *Model) (operators, []float64, *Result, error) {
	if err := checkModel(op, m); err != nil {
		return operators{}, nil, nil, err
	}
	v, err := c.initialValue(op, m)
	if err != nil {
		return operators{}, nil, nil, err
	}
	c.logger.Debug().
		Str("algorithm", c.algorithm.String()).
		Int("states", m.dims.States()).
		Int("actions", m.dims.NA).
		Int("max_iter", c.maxIter).
		Msg("solve started")

	return newOperators(m, c.workers), v, &Result{Algorithm: c.algorithm, Dims: m.dims}, nil
}

// finish stamps the elapsed time, logs the outcome and reports
// non-convergence as an error alongside the populated result.
func (c *config) finish(op string, res *Result, began time.Time) (*Result, error) {
	res.Elapsed = time.Since(began)
	if !res.Converged {
		c.logger.Warn().
			Str("algorithm", res.Algorithm.String()).
			Int("iterations", res.Iterations).
			Float64("error", res.Error).
			Msg("iteration limit reached")
		return res, fmt.Errorf("%s: %d iterations, error %g: %w", op, res.Iterations, res.Error, ErrNotConverged)
	}
	c.logger.Info().
		Str("algorithm", res.Algorithm.String()).
		Int("iterations", res.Iterations).
		Float64("error", res.Error).
		Dur("elapsed", res.Elapsed).
		Msg("solve converged")

	return res, nil
}

// supDist is max_s |a[s] − b[s]|.
func supDist(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}

func interrupted(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
