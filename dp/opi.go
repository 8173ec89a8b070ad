// SPDX-License-Identifier: MIT

package dp

import (
	"context"
	"time"
)

// OptimisticPolicyIteration computes σ = Greedy(v) and sets v ← T_σ^m(v) at
// every outer step, stopping once max|v_new − v_old| ≤ tol. m is set by
// WithSteps (DefaultSteps otherwise). With m = 1 each step equals one VFI
// step; large m approaches HPI.
//
// Errors: ErrInvalidModel, ErrDimensionMismatch, ErrNotConverged (with the
// last iterate).
func OptimisticPolicyIteration(ctx context.Context, m *Model, opts ...Option) (*Result, error) {
	c := gatherOptions(OPI, opts...)
	ops, v, res, err := c.start(opOPI, m)
	if err != nil {
		return nil, err
	}
	began := time.Now()

	var (
		k, i  int
		w     []float64
		sigma []int
	)
	for k = 1; k <= c.maxIter; k++ {
		if err = interrupted(ctx, opOPI); err != nil {
			return nil, err
		}
		// T_σ(v) = T(v) for the greedy σ of v, so the first application is free.
		w, sigma = ops.maximize(v, true)
		for i = 1; i < c.steps; i++ {
			w = ops.policyStep(sigma, w)
		}
		res.Error = supDist(w, v)
		res.Iterations = k
		v = w
		c.observe(k, res.Error)
		if res.Error <= c.tol {
			res.Converged = true
			break
		}
	}

	res.Value = v
	_, res.Policy = ops.maximize(v, true)

	return c.finish(opOPI, res, began)
}
