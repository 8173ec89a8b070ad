// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"math"

	"github.com/katalvlaran/bellman/dp"
)

const opInventory = "NewInventory"

// InventoryParams describes a firm holding integer stock x ∈ {0, …, K}.
// Each period it observes demand d, sells min(x, d) at price p and orders a
// units at unit cost c plus a fixed cost κ when a > 0:
//
//	x' = x − min(x, d) + a ≤ K,
//	π  = p·min(x, d) − c·a − κ·1{a > 0}.
//
// Demand values are non-negative integers following a Markov chain.
type InventoryParams struct {
	Beta      float64 `yaml:"beta" json:"beta" validate:"gt=0,lt=1"`
	Capacity  int     `yaml:"capacity" json:"capacity" validate:"gte=1"`
	Price     float64 `yaml:"price" json:"price" validate:"gt=0"`
	UnitCost  float64 `yaml:"unit_cost" json:"unit_cost" validate:"gte=0"`
	FixedCost float64 `yaml:"fixed_cost" json:"fixed_cost" validate:"gte=0"`
	Demand    Markov  `yaml:"demand" json:"demand"`
}

// GeometricDemand returns i.i.d. demand on {0, …, n−1} with
// P(d = k) ∝ (1 − q)^k·q, truncated and renormalized.
func GeometricDemand(q float64, n int) (Markov, error) {
	if !(q > 0 && q < 1) || n < 1 {
		return Markov{}, fmt.Errorf("GeometricDemand: q=%g n=%d: %w", q, n, ErrInvalidParams)
	}
	values := make([]float64, n)
	probs := make([]float64, n)
	var sum float64
	for k := range probs {
		values[k] = float64(k)
		probs[k] = math.Pow(1-q, float64(k)) * q
		sum += probs[k]
	}
	for k := range probs {
		probs[k] /= sum
	}

	return IID(values, probs), nil
}

// DefaultInventoryParams: β = 0.98, K = 40, p = 1, c = 0.2, κ = 2 and
// geometric demand with q = 0.4 truncated at 20 units.
func DefaultInventoryParams() InventoryParams {
	demand, _ := GeometricDemand(0.4, 20)
	return InventoryParams{
		Beta:      0.98,
		Capacity:  40,
		Price:     1,
		UnitCost:  0.2,
		FixedCost: 2,
		Demand:    demand,
	}
}

// NewInventory builds the inventory problem. The action is the order size
// a ∈ {0, …, K}; orders that would overflow the capacity are infeasible.
func NewInventory(p InventoryParams) (*Problem, error) {
	if err := checkParams(opInventory, p); err != nil {
		return nil, err
	}
	for _, d := range p.Demand.Values {
		if d < 0 || d != math.Trunc(d) {
			return nil, fmt.Errorf("%s: demand %g not a non-negative integer: %w", opInventory, d, ErrInvalidParams)
		}
	}
	q, err := p.Demand.kernel(opInventory)
	if err != nil {
		return nil, err
	}

	k := p.Capacity
	x := make([]float64, k+1)
	for i := range x {
		x[i] = float64(i)
	}
	d := append([]float64(nil), p.Demand.Values...)

	sold := func(i, j int) int { return min(i, int(d[j])) }
	m, err := dp.NewModel(dp.Spec{
		Beta: p.Beta,
		Dims: dp.Dims{NX: k + 1, NY: len(d), NA: k + 1},
		Q:    q,
		Reward: func(i, j, a int) float64 {
			s := sold(i, j)
			if i-s+a > k {
				return math.Inf(-1)
			}
			r := p.Price*float64(s) - p.UnitCost*float64(a)
			if a > 0 {
				r -= p.FixedCost
			}
			return r
		},
		Next: func(i, j, a int) int {
			return min(i-sold(i, j)+a, k)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opInventory, err)
	}

	return &Problem{Model: m, Grid: x, Shocks: d}, nil
}
