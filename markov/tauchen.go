// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"math"

	"github.com/katalvlaran/bellman/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const opTauchen = "Tauchen"

// Tauchen discretizes the AR(1) process y' = ρy + σε, ε ~ N(0,1), into n
// equally spaced points spanning ±m unconditional standard deviations.
//
// Returns the grid (ascending) and the n×n row-stochastic transition kernel.
// Boundary columns absorb the tails, so every row sums to one.
//
// Errors: ErrInvalidParams for n < 2, |ρ| ≥ 1, σ ≤ 0 or m ≤ 0.
func Tauchen(n int, rho, sigma, m float64) ([]float64, *matrix.Dense, error) {
	switch {
	case n < 2:
		return nil, nil, fmt.Errorf("%s: n=%d: %w", opTauchen, n, ErrInvalidParams)
	case math.IsNaN(rho) || math.Abs(rho) >= 1:
		return nil, nil, fmt.Errorf("%s: rho=%g: %w", opTauchen, rho, ErrInvalidParams)
	case !(sigma > 0) || math.IsInf(sigma, 0):
		return nil, nil, fmt.Errorf("%s: sigma=%g: %w", opTauchen, sigma, ErrInvalidParams)
	case !(m > 0) || math.IsInf(m, 0):
		return nil, nil, fmt.Errorf("%s: m=%g: %w", opTauchen, m, ErrInvalidParams)
	}

	stdY := math.Sqrt(sigma * sigma / (1 - rho*rho))
	xMax := m * stdY
	grid := floats.Span(make([]float64, n), -xMax, xMax)
	half := (grid[1] - grid[0]) / 2

	q, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opTauchen, err)
	}
	cdf := distuv.UnitNormal.CDF
	var (
		i, j int
		z    float64
	)
	for i = 0; i < n; i++ {
		row := q.RawRow(i)
		for j = 0; j < n; j++ {
			z = grid[j] - rho*grid[i]
			switch j {
			case 0:
				row[j] = cdf((z + half) / sigma)
			case n - 1:
				row[j] = 1 - cdf((z-half)/sigma)
			default:
				row[j] = cdf((z+half)/sigma) - cdf((z-half)/sigma)
			}
		}
		// Telescoping sums leave float64 rounding only; rescale it away.
		floats.Scale(1/floats.Sum(row), row)
	}

	if err = matrix.ValidateRowStochastic(q, matrix.StochasticTol); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opTauchen, err)
	}

	return grid, q, nil
}
