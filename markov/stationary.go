// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"math"

	"github.com/katalvlaran/bellman/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const opStationary = "Stationary"

// validityTol bounds how far a solved ψ may drift from Σψ = 1 before the
// solve is reported as failed instead of returned.
const validityTol = 1e-8

// Stationary returns the stationary distribution ψ of the row-stochastic
// matrix p, i.e. the probability vector with ψ = ψP.
//
// The singular system (I − Pᵀ)ψᵀ = 0, Σψ = 1 is replaced by the well-posed
// (I − Pᵀ + O)ψᵀ = 1: for any stationary ψ, Oψᵀ = 1 and (I − Pᵀ)ψᵀ = 0, and the
// regularized matrix is non-singular exactly when the stationary distribution
// is unique. The system is solved densely with a partially pivoted LU.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch, matrix.ErrNaNInf,
//     matrix.ErrNotStochastic (precondition; p is never re-normalized).
//   - ErrSingular when the LU solve fails or yields a vector that is not a
//     probability distribution (reducible or periodic-degenerate chains).
//
// Complexity: O(n³) time, O(n²) memory.
func Stationary(p *matrix.Dense) ([]float64, error) {
	if err := matrix.ValidateRowStochastic(p, matrix.StochasticTol); err != nil {
		return nil, fmt.Errorf("%s: %w", opStationary, err)
	}
	n := p.Rows()

	// a[i,j] = δij − p[j,i] + 1
	data := make([]float64, n*n)
	var i, j int
	for i = 0; i < n; i++ {
		row := p.RawRow(i)
		for j = 0; j < n; j++ {
			data[j*n+i] -= row[j]
		}
	}
	for i = 0; i < n; i++ {
		data[i*n+i]++
		for j = 0; j < n; j++ {
			data[i*n+j]++
		}
	}
	a := mat.NewDense(n, n, data)

	ones := make([]float64, n)
	for i = range ones {
		ones[i] = 1
	}

	var lu mat.LU
	lu.Factorize(a)
	var x mat.VecDense
	// SolveVecTo reports a mat.Condition error for singular or near-singular factors.
	if err := lu.SolveVecTo(&x, false, mat.NewVecDense(n, ones)); err != nil {
		return nil, fmt.Errorf("%s: %v%s: %w", opStationary, err, recurrentHint(p), ErrSingular)
	}

	psi := make([]float64, n)
	for i = 0; i < n; i++ {
		psi[i] = x.AtVec(i)
	}
	if err := checkDistribution(psi); err != nil {
		return nil, fmt.Errorf("%s%s: %w", opStationary, recurrentHint(p), err)
	}

	return psi, nil
}

// recurrentHint names the recurrent class count when there is more than one.
func recurrentHint(p *matrix.Dense) string {
	classes, err := Classes(p)
	if err != nil {
		return ""
	}
	if r := len(Recurrent(classes)); r > 1 {
		return fmt.Sprintf(" (%d recurrent classes)", r)
	}
	return ""
}

// checkDistribution verifies Σψ ≈ 1 and ψ ≥ −validityTol.
func checkDistribution(psi []float64) error {
	if err := matrix.ValidateFiniteVec(psi); err != nil {
		return fmt.Errorf("%v: %w", err, ErrSingular)
	}
	if s := floats.Sum(psi); math.Abs(s-1) > validityTol {
		return fmt.Errorf("solution sums to %.12g: %w", s, ErrSingular)
	}
	if lo := floats.Min(psi); lo < -validityTol {
		return fmt.Errorf("negative mass %.3e: %w", lo, ErrSingular)
	}

	return nil
}
