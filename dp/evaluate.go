// SPDX-License-Identifier: MIT

package dp

import (
	"fmt"

	"github.com/katalvlaran/bellman/matrix"
)

// evaluationOperator returns L_σ(x) = x − β·P_σ·x as a matrix-free operator.
// P_σ·x is read off the continuation array, so each application costs one
// continuation pass and never allocates an (NX·NY)² matrix.
func (o operators) evaluationOperator(sigma []int) matrix.LinearOperator {
	d, m := o.m.dims, o.m
	return matrix.OperatorFunc{
		N: d.States(),
		Fn: func(dst, x []float64) error {
			ev := o.continuation(x)
			var s, k int
			for s = range dst {
				k = s*d.NA + sigma[s]
				dst[s] = x[s] - m.beta*ev[m.next[k]*d.NY+s%d.NY]
			}
			return nil
		},
	}
}

// evaluate solves (I − βP_σ)v = r_σ by BiCGStab starting from x0.
func (o operators) evaluate(sigma []int, x0 []float64, opts matrix.KrylovOptions) ([]float64, matrix.KrylovResult, error) {
	return matrix.BiCGStab(o.evaluationOperator(sigma), o.rewardOf(sigma), x0, opts)
}

// EvaluatePolicy returns v_σ, the exact value of following σ forever, i.e. the
// solution of
//
//	v_σ = r_σ + β P_σ v_σ.
//
// The system is solved matrix-free with BiCGStab; WithKrylov tunes the
// solver, WithInitialValue sets its starting guess and WithWorkers bounds the
// parallelism of each operator application. Other options are ignored.
//
// Errors:
//   - ErrInvalidModel, ErrDimensionMismatch, ErrInvalidPolicy (inputs).
//   - ErrPolicyEvaluation wrapping matrix.ErrKrylovNotConverged or
//     matrix.ErrKrylovBreakdown; no vector is returned in that case.
func EvaluatePolicy(m *Model, sigma []int, opts ...Option) ([]float64, error) {
	if err := checkModel(opEvaluate, m); err != nil {
		return nil, err
	}
	if err := checkPolicy(opEvaluate, m, sigma); err != nil {
		return nil, err
	}
	c := gatherOptions(HPI, opts...)
	x0, err := c.initialValue(opEvaluate, m)
	if err != nil {
		return nil, err
	}

	v, kr, err := newOperators(m, c.workers).evaluate(sigma, x0, c.krylov)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", opEvaluate, ErrPolicyEvaluation, err)
	}
	c.logger.Debug().
		Int("krylov_iterations", kr.Iterations).
		Float64("residual", kr.Residual).
		Msg("policy evaluated")

	return v, nil
}
