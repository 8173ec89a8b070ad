// SPDX-License-Identifier: MIT

package dp

import (
	"context"
	"time"
)

// ValueIteration applies v ← T(v) from v₀ (zeros unless WithInitialValue)
// until max|T(v) − v| ≤ tol, then extracts the greedy policy of the final v.
//
// The context is consulted before every outer iteration; a cancelled context
// stops the solve with ctx.Err() and no result.
//
// Errors: ErrInvalidModel, ErrDimensionMismatch (initial value),
// ErrNotConverged (returned together with the last iterate).
//
// Complexity: O(K·(NX·NY² + NX·NY·NA)) for K iterations, K ≈ log(tol)/log(β).
func ValueIteration(ctx context.Context, m *Model, opts ...Option) (*Result, error) {
	c := gatherOptions(VFI, opts...)
	ops, v, res, err := c.start(opVFI, m)
	if err != nil {
		return nil, err
	}
	began := time.Now()

	var (
		k  int
		tv []float64
	)
	for k = 1; k <= c.maxIter; k++ {
		if err = interrupted(ctx, opVFI); err != nil {
			return nil, err
		}
		tv, _ = ops.maximize(v, false)
		res.Error = supDist(tv, v)
		res.Iterations = k
		v = tv
		c.observe(k, res.Error)
		if res.Error <= c.tol {
			res.Converged = true
			break
		}
	}

	res.Value = v
	_, res.Policy = ops.maximize(v, true)

	return c.finish(opVFI, res, began)
}
