// SPDX-License-Identifier: MIT

package models

import (
	"fmt"

	"github.com/katalvlaran/bellman/dp"
)

const opSavings = "NewSavings"

// SavingsParams describes the optimal savings problem
//
//	max E Σ βᵗ u(cₜ)   s.t.  c + w' = R·w + y,  w' on the wealth grid,
//
// with CRRA utility and Markov income y.
type SavingsParams struct {
	Beta     float64 `yaml:"beta" json:"beta" validate:"gt=0,lt=1"`
	R        float64 `yaml:"r" json:"r" validate:"gt=0"` // gross return on wealth
	Gamma    float64 `yaml:"gamma" json:"gamma" validate:"gt=0"`
	WMin     float64 `yaml:"w_min" json:"w_min" validate:"gte=0"`
	WMax     float64 `yaml:"w_max" json:"w_max" validate:"gtfield=WMin"`
	GridSize int     `yaml:"grid_size" json:"grid_size" validate:"gte=2"`
	Income   Markov  `yaml:"income" json:"income"`
}

// DefaultSavingsParams is the two-state benchmark: β = 0.96, R = 1.01, γ = 2,
// 200 wealth points on [0, 20], income {0.5, 1.5} with persistence 0.9.
func DefaultSavingsParams() SavingsParams {
	return SavingsParams{
		Beta:     0.96,
		R:        1.01,
		Gamma:    2,
		WMin:     0,
		WMax:     20,
		GridSize: 200,
		Income: Markov{
			Values: []float64{0.5, 1.5},
			Q:      [][]float64{{0.9, 0.1}, {0.1, 0.9}},
		},
	}
}

// NewSavings builds the savings problem. Actions index next-period wealth, so
// NA = NX and c = R·w_i + y_j − w_a must be strictly positive.
func NewSavings(p SavingsParams) (*Problem, error) {
	if err := checkParams(opSavings, p); err != nil {
		return nil, err
	}
	q, err := p.Income.kernel(opSavings)
	if err != nil {
		return nil, err
	}

	w := linspace(p.WMin, p.WMax, p.GridSize)
	y := append([]float64(nil), p.Income.Values...)
	u := crra(p.Gamma)

	m, err := dp.NewModel(dp.Spec{
		Beta: p.Beta,
		Dims: dp.Dims{NX: len(w), NY: len(y), NA: len(w)},
		Q:    q,
		Reward: func(i, j, a int) float64 {
			return u(p.R*w[i] + y[j] - w[a])
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSavings, err)
	}

	return &Problem{Model: m, Grid: w, Shocks: y}, nil
}
