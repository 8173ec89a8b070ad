// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"math"

	"github.com/katalvlaran/bellman/dp"
)

const opHousehold = "NewHousehold"

// HouseholdParams describes the Aiyagari household: it owns assets a on a
// grid, supplies productivity z (Markov) at wage w and earns interest r:
//
//	c + a' = w·z + (1 + r)·a.
type HouseholdParams struct {
	Beta         float64 `yaml:"beta" json:"beta" validate:"gt=0,lt=1"`
	Gamma        float64 `yaml:"gamma" json:"gamma" validate:"gt=0"`
	AMin         float64 `yaml:"a_min" json:"a_min" validate:"gte=0"`
	AMax         float64 `yaml:"a_max" json:"a_max" validate:"gtfield=AMin"`
	GridSize     int     `yaml:"grid_size" json:"grid_size" validate:"gte=2"`
	Productivity Markov  `yaml:"productivity" json:"productivity"`
}

// DefaultHouseholdParams: β = 0.96, γ = 2 (CRRA), 200 asset points on
// [0, 20], productivity {0.1, 1.0} with persistence 0.9.
func DefaultHouseholdParams() HouseholdParams {
	return HouseholdParams{
		Beta:     0.96,
		Gamma:    2,
		AMin:     0,
		AMax:     20,
		GridSize: 200,
		Productivity: Markov{
			Values: []float64{0.1, 1.0},
			Q:      [][]float64{{0.9, 0.1}, {0.1, 0.9}},
		},
	}
}

// Validate checks the parameters and the productivity kernel without
// building a model.
//
// Errors: ErrInvalidParams.
func (p HouseholdParams) Validate() error {
	if err := checkParams(opHousehold, p); err != nil {
		return err
	}
	_, err := p.Productivity.kernel(opHousehold)
	return err
}

// NewHousehold builds the household problem at prices (r, w). Actions index
// next-period assets.
//
// Errors: ErrInvalidParams for invalid parameters, 1 + r ≤ 0 or w ≤ 0.
func NewHousehold(p HouseholdParams, r, w float64) (*Problem, error) {
	if err := checkParams(opHousehold, p); err != nil {
		return nil, err
	}
	if !(1+r > 0) || math.IsInf(r, 0) {
		return nil, fmt.Errorf("%s: r=%g: %w", opHousehold, r, ErrInvalidParams)
	}
	if !(w > 0) || math.IsInf(w, 0) {
		return nil, fmt.Errorf("%s: w=%g: %w", opHousehold, w, ErrInvalidParams)
	}
	q, err := p.Productivity.kernel(opHousehold)
	if err != nil {
		return nil, err
	}

	a := linspace(p.AMin, p.AMax, p.GridSize)
	z := append([]float64(nil), p.Productivity.Values...)
	u := crra(p.Gamma)

	m, err := dp.NewModel(dp.Spec{
		Beta: p.Beta,
		Dims: dp.Dims{NX: len(a), NY: len(z), NA: len(a)},
		Q:    q,
		Reward: func(i, j, k int) float64 {
			return u(w*z[j] + (1+r)*a[i] - a[k])
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opHousehold, err)
	}

	return &Problem{Model: m, Grid: a, Shocks: z}, nil
}
