// SPDX-License-Identifier: MIT

package dp

import (
	"fmt"
	"math"
	"runtime"

	"github.com/katalvlaran/bellman/matrix"
	"gonum.org/v1/gonum/floats"
)

// Operation tags for error wrapping.
const (
	opB          = "B"
	opT          = "T"
	opGreedy     = "Greedy"
	opTSigma     = "TSigma"
	opRewardOf   = "RewardOf"
	opTransition = "TransitionOf"
	opEvaluate   = "EvaluatePolicy"
)

// operators binds a model to a worker budget. All methods are pure: inputs
// are never mutated and every call returns freshly allocated slices.
type operators struct {
	m       *Model
	workers int
}

func newOperators(m *Model, workers int) operators {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return operators{m: m, workers: workers}
}

// continuation returns ev with ev[k*NY + j] = Σ_j' v[k*NY + j'] · Q[j, j'],
// the expected value of landing on endogenous index k from shock j.
// Complexity: O(NX·NY²).
func (o operators) continuation(v []float64) []float64 {
	d := o.m.dims
	ev := make([]float64, d.States())
	parallelFor(o.workers, d.NX, func(lo, hi int) {
		var k, j int
		for k = lo; k < hi; k++ {
			vk := v[k*d.NY : (k+1)*d.NY]
			for j = 0; j < d.NY; j++ {
				ev[k*d.NY+j] = floats.Dot(o.m.q.RawRow(j), vk)
			}
		}
	})

	return ev
}

// rhs materializes B[s*NA + a] = r(s, a) + β·ev[next(s, a)*NY + j].
// Infeasible pairs stay at −∞ because −∞ + finite = −∞.
func (o operators) rhs(v []float64) []float64 {
	d, m := o.m.dims, o.m
	ev := o.continuation(v)
	out := make([]float64, d.States()*d.NA)
	parallelFor(o.workers, d.States(), func(lo, hi int) {
		var s, j, a, k int
		for s = lo; s < hi; s++ {
			j = s % d.NY
			for a = 0; a < d.NA; a++ {
				k = s*d.NA + a
				out[k] = m.reward[k] + m.beta*ev[m.next[k]*d.NY+j]
			}
		}
	})

	return out
}

// maximize computes T(v) and, when withPolicy is set, the greedy policy.
// Ties resolve to the lowest action index: a later action replaces the
// incumbent only when strictly greater.
func (o operators) maximize(v []float64, withPolicy bool) ([]float64, []int) {
	d, m := o.m.dims, o.m
	ev := o.continuation(v)
	tv := make([]float64, d.States())
	var sigma []int
	if withPolicy {
		sigma = make([]int, d.States())
	}
	parallelFor(o.workers, d.States(), func(lo, hi int) {
		var (
			s, j, a, k, arg int
			best, val       float64
		)
		for s = lo; s < hi; s++ {
			j = s % d.NY
			best, arg = math.Inf(-1), 0
			for a = 0; a < d.NA; a++ {
				k = s*d.NA + a
				val = m.reward[k] + m.beta*ev[m.next[k]*d.NY+j]
				if val > best {
					best, arg = val, a
				}
			}
			tv[s] = best
			if withPolicy {
				sigma[s] = arg
			}
		}
	})

	return tv, sigma
}

// policyStep computes T_σ(v)[s] = r(s, σ[s]) + β·ev[next(s, σ[s])*NY + j].
func (o operators) policyStep(sigma []int, v []float64) []float64 {
	d, m := o.m.dims, o.m
	ev := o.continuation(v)
	out := make([]float64, d.States())
	parallelFor(o.workers, d.States(), func(lo, hi int) {
		var s, k int
		for s = lo; s < hi; s++ {
			k = s*d.NA + sigma[s]
			out[s] = m.reward[k] + m.beta*ev[m.next[k]*d.NY+s%d.NY]
		}
	})

	return out
}

// rewardOf returns r_σ[s] = r(s, σ[s]).
func (o operators) rewardOf(sigma []int) []float64 {
	d := o.m.dims
	out := make([]float64, d.States())
	for s := range out {
		out[s] = o.m.reward[s*d.NA+sigma[s]]
	}

	return out
}

// ---------- validation ----------

func checkModel(op string, m *Model) error {
	if m == nil {
		return fmt.Errorf("%s: nil model: %w", op, ErrInvalidModel)
	}
	return nil
}

func checkValue(op string, m *Model, v []float64) error {
	if len(v) != m.dims.States() {
		return fmt.Errorf("%s: value length %d, want %d: %w", op, len(v), m.dims.States(), ErrDimensionMismatch)
	}
	return nil
}

// checkPolicy requires one in-range, feasible action per state.
func checkPolicy(op string, m *Model, sigma []int) error {
	d := m.dims
	if len(sigma) != d.States() {
		return fmt.Errorf("%s: policy length %d, want %d: %w", op, len(sigma), d.States(), ErrDimensionMismatch)
	}
	for s, a := range sigma {
		if a < 0 || a >= d.NA {
			return fmt.Errorf("%s: action %d at state %d outside [0,%d): %w", op, a, s, d.NA, ErrInvalidPolicy)
		}
		if math.IsInf(m.reward[s*d.NA+a], -1) {
			i, j := d.Split(s)
			return fmt.Errorf("%s: action %d infeasible at state (%d,%d): %w", op, a, i, j, ErrInvalidPolicy)
		}
	}
	return nil
}

// ---------- public operators ----------

// B returns the Bellman right-hand side for every state-action pair, laid out
// as s*NA + a with s = i*NY + j:
//
//	B[i, j, a] = r(i, j, a) + β Σ_j' v[next(i, j, a), j'] Q[j, j'].
//
// Infeasible pairs are −∞. v is not mutated.
//
// Errors: ErrInvalidModel (nil model), ErrDimensionMismatch.
// Complexity: O(NX·NY² + NX·NY·NA) time and O(NX·NY·NA) memory.
func B(m *Model, v []float64) ([]float64, error) {
	if err := checkModel(opB, m); err != nil {
		return nil, err
	}
	if err := checkValue(opB, m, v); err != nil {
		return nil, err
	}

	return newOperators(m, 0).rhs(v), nil
}

// T applies the Bellman operator, T(v)[s] = max_a B[s, a].
// T is a β-contraction in the sup norm and is monotone: v ≤ w ⇒ T(v) ≤ T(w).
//
// Errors: ErrInvalidModel, ErrDimensionMismatch.
func T(m *Model, v []float64) ([]float64, error) {
	if err := checkModel(opT, m); err != nil {
		return nil, err
	}
	if err := checkValue(opT, m, v); err != nil {
		return nil, err
	}
	tv, _ := newOperators(m, 0).maximize(v, false)

	return tv, nil
}

// Greedy returns σ[s] = argmax_a B[s, a], picking the lowest action index
// among equal maxima. Equal means equal as float64 values: no tolerance is
// applied, so of two values one ulp apart the larger wins regardless of
// index.
//
// Errors: ErrInvalidModel, ErrDimensionMismatch.
func Greedy(m *Model, v []float64) ([]int, error) {
	if err := checkModel(opGreedy, m); err != nil {
		return nil, err
	}
	if err := checkValue(opGreedy, m, v); err != nil {
		return nil, err
	}
	_, sigma := newOperators(m, 0).maximize(v, true)

	return sigma, nil
}

// TSigma applies the policy operator of σ:
//
//	T_σ(v)[i, j] = r_σ[i, j] + β Σ_j' v[next(i, j, σ[i, j]), j'] Q[j, j'].
//
// Errors: ErrInvalidModel, ErrDimensionMismatch, ErrInvalidPolicy.
func TSigma(m *Model, sigma []int, v []float64) ([]float64, error) {
	if err := checkModel(opTSigma, m); err != nil {
		return nil, err
	}
	if err := checkPolicy(opTSigma, m, sigma); err != nil {
		return nil, err
	}
	if err := checkValue(opTSigma, m, v); err != nil {
		return nil, err
	}

	return newOperators(m, 0).policyStep(sigma, v), nil
}

// RewardOf returns r_σ, the per-state reward of following σ. It is derived on
// demand and never cached.
//
// Errors: ErrInvalidModel, ErrDimensionMismatch, ErrInvalidPolicy.
func RewardOf(m *Model, sigma []int) ([]float64, error) {
	if err := checkModel(opRewardOf, m); err != nil {
		return nil, err
	}
	if err := checkPolicy(opRewardOf, m, sigma); err != nil {
		return nil, err
	}

	return newOperators(m, 0).rewardOf(sigma), nil
}

// TransitionOf materializes the joint transition matrix of σ,
//
//	P_σ[(i, j), (i', j')] = 1{i' = next(i, j, σ[i, j])} · Q[j, j'],
//
// as an (NX·NY)×(NX·NY) Dense. Rows are copies of rows of Q, so P_σ is
// row-stochastic whenever Q is. Intended for stationary-distribution work on
// moderate state counts; the policy evaluator never builds it.
//
// Errors: ErrInvalidModel, ErrDimensionMismatch, ErrInvalidPolicy.
// Complexity: O((NX·NY)²) memory.
func TransitionOf(m *Model, sigma []int) (*matrix.Dense, error) {
	if err := checkModel(opTransition, m); err != nil {
		return nil, err
	}
	if err := checkPolicy(opTransition, m, sigma); err != nil {
		return nil, err
	}
	d := m.dims
	n := d.States()
	p, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTransition, err)
	}
	var s, j, nx int
	for s = 0; s < n; s++ {
		j = s % d.NY
		nx = m.next[s*d.NA+sigma[s]]
		copy(p.RawRow(s)[nx*d.NY:(nx+1)*d.NY], m.q.RawRow(j))
	}

	return p, nil
}
