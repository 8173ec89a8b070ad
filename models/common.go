// SPDX-License-Identifier: MIT

package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/markov"
	"github.com/katalvlaran/bellman/matrix"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidParams is returned when a parameter struct fails validation.
var ErrInvalidParams = errors.New("models: invalid parameters")

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New()

// Problem is a built model together with the grids that give its indices
// economic meaning.
type Problem struct {
	Model *dp.Model
	// Grid holds the endogenous values x_i (wealth, assets, inventory).
	Grid []float64
	// Shocks holds the exogenous values y_j (income, productivity, demand).
	Shocks []float64
}

// Markov is an exogenous process: its values and row-stochastic kernel.
type Markov struct {
	Values []float64   `yaml:"values" json:"values" validate:"required,min=1"`
	Q      [][]float64 `yaml:"q" json:"q" validate:"required,min=1,dive,min=1,dive,gte=0,lte=1"`
}

// kernel converts Q to a Dense after checking it matches Values.
func (m Markov) kernel(op string) (*matrix.Dense, error) {
	if len(m.Q) != len(m.Values) {
		return nil, fmt.Errorf("%s: kernel has %d rows for %d values: %w", op, len(m.Q), len(m.Values), ErrInvalidParams)
	}
	q, err := matrix.NewDenseFromRows(m.Q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidParams, err)
	}
	if err = matrix.ValidateRowStochastic(q, matrix.StochasticTol); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidParams, err)
	}

	return q, nil
}

// LogAR1 returns the Tauchen discretization of log y' = ρ log y + σε as a
// Markov process in levels, y = exp(grid).
func LogAR1(n int, rho, sigma, m float64) (Markov, error) {
	grid, q, err := markov.Tauchen(n, rho, sigma, m)
	if err != nil {
		return Markov{}, fmt.Errorf("LogAR1: %w: %w", ErrInvalidParams, err)
	}
	out := Markov{Values: make([]float64, n), Q: make([][]float64, n)}
	for i, g := range grid {
		out.Values[i] = math.Exp(g)
		out.Q[i] = q.RawRow(i)
	}

	return out, nil
}

// IID returns a Markov process whose rows all equal probs, so the shock is
// drawn independently every period. probs must sum to one.
func IID(values, probs []float64) Markov {
	q := make([][]float64, len(values))
	for i := range q {
		q[i] = append([]float64(nil), probs...)
	}
	return Markov{Values: append([]float64(nil), values...), Q: q}
}

// checkParams runs struct-tag validation and wraps failures.
func checkParams(op string, p any) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidParams, err)
	}
	return nil
}

// crra returns u(c) = c^(1−γ)/(1−γ), or log c when γ = 1.
// u(c) = −∞ for c ≤ 0.
func crra(gamma float64) func(c float64) float64 {
	if gamma == 1 {
		return func(c float64) float64 {
			if c <= 0 {
				return math.Inf(-1)
			}
			return math.Log(c)
		}
	}
	return func(c float64) float64 {
		if c <= 0 {
			return math.Inf(-1)
		}
		return math.Pow(c, 1-gamma) / (1 - gamma)
	}
}

// linspace returns n evenly spaced points on [lo, hi].
func linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}
