// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/bellman/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns Σ_i w_i x_i / Σ_i w_i.
// Errors: matrix.ErrDimensionMismatch, ErrDegenerate (empty input or zero total weight).
func Mean(x, w []float64) (float64, error) {
	if err := matrix.ValidateVecLen(w, len(x)); err != nil {
		return 0, fmt.Errorf("Mean: %w", err)
	}
	if len(x) == 0 || floats.Sum(w) == 0 {
		return 0, fmt.Errorf("Mean: %w", ErrDegenerate)
	}

	return stat.Mean(x, w), nil
}

// Gini returns the Gini coefficient of the weighted distribution (x, w),
// computed from the Lorenz curve: G = 1 − Σ_k w_k (L_{k−1} + L_k) over values
// sorted ascending, with L the cumulative share of Σ w x.
// Values must be non-negative.
//
// Errors: matrix.ErrDimensionMismatch, ErrDegenerate (empty, zero mean,
// negative values or weights).
func Gini(x, w []float64) (float64, error) {
	if err := matrix.ValidateVecLen(w, len(x)); err != nil {
		return 0, fmt.Errorf("Gini: %w", err)
	}
	n := len(x)
	if n == 0 {
		return 0, fmt.Errorf("Gini: %w", ErrDegenerate)
	}

	idx := make([]int, n)
	for i := range idx {
		if x[i] < 0 || w[i] < 0 {
			return 0, fmt.Errorf("Gini: negative entry at %d: %w", i, ErrDegenerate)
		}
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	totalW := floats.Sum(w)
	var totalX float64
	for i := 0; i < n; i++ {
		totalX += w[i] * x[i]
	}
	if totalW == 0 || totalX == 0 {
		return 0, fmt.Errorf("Gini: %w", ErrDegenerate)
	}

	var prev, cum, area float64
	for _, k := range idx {
		cum += w[k] * x[k] / totalX
		area += (w[k] / totalW) * (prev + cum)
		prev = cum
	}

	return 1 - area, nil
}

// MarginalX sums a joint distribution laid out as s = i*ny + j over j,
// returning the marginal over the nx endogenous grid points.
// Errors: matrix.ErrDimensionMismatch.
func MarginalX(psi []float64, nx, ny int) ([]float64, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("MarginalX: %w", matrix.ErrInvalidDimensions)
	}
	if err := matrix.ValidateVecLen(psi, nx*ny); err != nil {
		return nil, fmt.Errorf("MarginalX: %w", err)
	}
	out := make([]float64, nx)
	for i := 0; i < nx; i++ {
		out[i] = floats.Sum(psi[i*ny : (i+1)*ny])
	}

	return out, nil
}
