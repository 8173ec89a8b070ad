// SPDX-License-Identifier: MIT

package dp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/bellman/matrix"
)

const opNewModel = "NewModel"

// Dims describes the shape of a problem.
//   - NX: endogenous grid size (assets, inventory, ...).
//   - NY: exogenous shock grid size; Q is NY×NY.
//   - NA: number of action indices per state.
type Dims struct {
	NX, NY, NA int
}

// States returns the number of joint states NX·NY.
func (d Dims) States() int { return d.NX * d.NY }

// Index returns the flat state index of (i, j).
func (d Dims) Index(i, j int) int { return i*d.NY + j }

// Split is the inverse of Index.
func (d Dims) Split(s int) (i, j int) { return s / d.NY, s % d.NY }

// RewardFunc returns the one-period reward of action a in state (i, j), or
// math.Inf(-1) when the action is infeasible there.
type RewardFunc func(i, j, a int) float64

// NextFunc returns the endogenous index reached next period after action a
// in state (i, j).
type NextFunc func(i, j, a int) int

// Spec is the construction-time description of a problem.
//
// Fields:
//   - Beta: discount factor, 0 < β < 1.
//   - Dims: grid sizes, all positive.
//   - Q: NY×NY row-stochastic shock kernel (copied by NewModel).
//   - Reward: reward function; evaluated once per (i, j, a) at construction.
//   - Next: next-state function; nil means "action a is the next index"
//     and requires NA == NX.
type Spec struct {
	Beta   float64
	Dims   Dims
	Q      *matrix.Dense
	Reward RewardFunc
	Next   NextFunc
}

// Model is an immutable, validated Markov decision problem.
// Reward and next-state tables are materialized once so that the operators
// touch only flat slices in their hot loops.
type Model struct {
	beta   float64
	dims   Dims
	q      *matrix.Dense
	reward []float64 // len NX*NY*NA, index s*NA + a
	next   []int     // len NX*NY*NA, values in [0, NX)
}

// NewModel validates spec and builds a Model.
//
// Contracts:
//   - 0 < Beta < 1, all Dims positive.
//   - Q square NY×NY and row-stochastic within matrix.StochasticTol.
//   - Reward never NaN or +Inf; −Inf marks infeasibility.
//   - Next within [0, NX) for every feasible and infeasible action alike.
//   - Every state has at least one finite-reward action.
//
// Errors: ErrInvalidModel (wrapping matrix sentinels where relevant),
// ErrNoFeasibleAction.
//
// Complexity: O(NX·NY·NA) reward/next evaluations plus O(NY²) validation.
func NewModel(spec Spec) (*Model, error) {
	d := spec.Dims
	if !(spec.Beta > 0 && spec.Beta < 1) {
		return nil, fmt.Errorf("%s: beta=%g not in (0,1): %w", opNewModel, spec.Beta, ErrInvalidModel)
	}
	if d.NX <= 0 || d.NY <= 0 || d.NA <= 0 {
		return nil, fmt.Errorf("%s: dims %+v: %w", opNewModel, d, ErrInvalidModel)
	}
	if spec.Reward == nil {
		return nil, fmt.Errorf("%s: nil reward: %w", opNewModel, ErrInvalidModel)
	}
	next := spec.Next
	if next == nil {
		if d.NA != d.NX {
			return nil, fmt.Errorf("%s: nil Next requires NA == NX, got NA=%d NX=%d: %w", opNewModel, d.NA, d.NX, ErrInvalidModel)
		}
		next = func(_, _, a int) int { return a }
	}
	if spec.Q == nil {
		return nil, fmt.Errorf("%s: nil kernel: %w", opNewModel, ErrInvalidModel)
	}
	if spec.Q.Rows() != d.NY {
		return nil, fmt.Errorf("%s: kernel %dx%d, NY=%d: %w: %w", opNewModel, spec.Q.Rows(), spec.Q.Cols(), d.NY, ErrInvalidModel, matrix.ErrDimensionMismatch)
	}
	if err := matrix.ValidateRowStochastic(spec.Q, matrix.StochasticTol); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", opNewModel, ErrInvalidModel, err)
	}

	m := &Model{
		beta:   spec.Beta,
		dims:   d,
		q:      spec.Q.CloneDense(),
		reward: make([]float64, d.States()*d.NA),
		next:   make([]int, d.States()*d.NA),
	}

	var (
		i, j, a, s, k, nx int
		r                 float64
		feasible          bool
	)
	for i = 0; i < d.NX; i++ {
		for j = 0; j < d.NY; j++ {
			s = d.Index(i, j)
			feasible = false
			for a = 0; a < d.NA; a++ {
				k = s*d.NA + a
				r = spec.Reward(i, j, a)
				if math.IsNaN(r) || math.IsInf(r, 1) {
					return nil, fmt.Errorf("%s: reward(%d,%d,%d)=%g: %w", opNewModel, i, j, a, r, ErrInvalidModel)
				}
				nx = next(i, j, a)
				if nx < 0 || nx >= d.NX {
					return nil, fmt.Errorf("%s: next(%d,%d,%d)=%d outside [0,%d): %w", opNewModel, i, j, a, nx, d.NX, ErrInvalidModel)
				}
				m.reward[k] = r
				m.next[k] = nx
				if !math.IsInf(r, -1) {
					feasible = true
				}
			}
			if !feasible {
				return nil, fmt.Errorf("%s: state (%d,%d): %w", opNewModel, i, j, ErrNoFeasibleAction)
			}
		}
	}

	return m, nil
}

// Beta returns the discount factor.
func (m *Model) Beta() float64 { return m.beta }

// Dims returns the problem shape.
func (m *Model) Dims() Dims { return m.dims }

// Kernel returns a copy of the shock transition matrix Q.
func (m *Model) Kernel() *matrix.Dense { return m.q.CloneDense() }

// Reward returns the tabulated reward of action a in state (i, j).
// Indices are not bounds-checked beyond the slice access.
func (m *Model) Reward(i, j, a int) float64 {
	return m.reward[m.dims.Index(i, j)*m.dims.NA+a]
}

// Next returns the tabulated next endogenous index of action a in state (i, j).
func (m *Model) Next(i, j, a int) int {
	return m.next[m.dims.Index(i, j)*m.dims.NA+a]
}

// Feasible reports whether action a is admissible in state (i, j).
func (m *Model) Feasible(i, j, a int) bool {
	return !math.IsInf(m.Reward(i, j, a), -1)
}
