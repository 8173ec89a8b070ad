// SPDX-License-Identifier: MIT

package dp

import (
	"context"
	"fmt"
	"time"
)

// PolicyIteration runs Howard policy iteration: starting from the greedy
// policy of v₀, it alternates exact evaluation (EvaluatePolicy) and greedy
// improvement until the policy is unchanged, compared index by index.
//
// Each evaluation warm-starts BiCGStab from the previous policy's value.
// Result.Error counts the states whose action changed in the last step.
//
// Errors:
//   - ErrInvalidModel, ErrDimensionMismatch.
//   - ErrPolicyEvaluation (Krylov failure); no result is returned.
//   - ErrNotConverged with the last iterate.
func PolicyIteration(ctx context.Context, m *Model, opts ...Option) (*Result, error) {
	c := gatherOptions(HPI, opts...)
	ops, v, res, err := c.start(opHPI, m)
	if err != nil {
		return nil, err
	}
	began := time.Now()

	_, sigma := ops.maximize(v, true)
	var (
		k, changed int
		next       []int
	)
	for k = 1; k <= c.maxIter; k++ {
		if err = interrupted(ctx, opHPI); err != nil {
			return nil, err
		}
		v, _, err = ops.evaluate(sigma, v, c.krylov)
		if err != nil {
			return nil, fmt.Errorf("%s: iteration %d: %w: %w", opHPI, k, ErrPolicyEvaluation, err)
		}
		_, next = ops.maximize(v, true)
		changed = countChanged(sigma, next)
		sigma = next
		res.Iterations = k
		res.Error = float64(changed)
		c.observe(k, res.Error)
		if changed == 0 {
			res.Converged = true
			break
		}
	}

	res.Value = v
	res.Policy = sigma

	return c.finish(opHPI, res, began)
}

func countChanged(a, b []int) int {
	n := 0
	for s := range a {
		if a[s] != b[s] {
			n++
		}
	}
	return n
}
