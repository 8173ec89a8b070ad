// SPDX-License-Identifier: MIT

package dp

import "errors"

var (
	// ErrInvalidModel is returned by NewModel for malformed specifications:
	// β outside (0,1), non-positive dimensions, a nil or non-stochastic kernel,
	// NaN/+Inf rewards or next-state indices outside the grid.
	ErrInvalidModel = errors.New("dp: invalid model")

	// ErrNoFeasibleAction is returned by NewModel when some state has −∞ reward
	// for every action.
	ErrNoFeasibleAction = errors.New("dp: state has no feasible action")

	// ErrDimensionMismatch is returned when a value or policy array does not
	// have one entry per state.
	ErrDimensionMismatch = errors.New("dp: dimension mismatch")

	// ErrInvalidPolicy is returned for policies with out-of-range or infeasible actions.
	ErrInvalidPolicy = errors.New("dp: invalid policy")

	// ErrNotConverged is returned, together with the last iterate, when an
	// algorithm reaches its iteration ceiling before meeting its tolerance.
	ErrNotConverged = errors.New("dp: iteration limit reached before convergence")

	// ErrPolicyEvaluation wraps failures of the Krylov solve inside the policy
	// evaluator. The underlying matrix.ErrKrylovNotConverged or
	// matrix.ErrKrylovBreakdown remains matchable with errors.Is.
	ErrPolicyEvaluation = errors.New("dp: policy evaluation failed")
)
