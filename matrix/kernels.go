// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels consumed by the
// dynamic-programming operators. All functions perform strict fail-fast
// validation and return clear errors on dimension mismatches.
//
// Notes:
//   - Kernels take a fast path over the flat buffer when the operand is *Dense,
//     and fall back to At/Set with a fixed i→j order otherwise.
//   - All kernels use central validators and wrap via matrixErrorf at the facade.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ZeroSum is the initial sum value for dot products and accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMatVec    = "MatVec"
	opVecMat    = "VecMat"
	opTranspose = "Transpose"
	opMaxAbs    = "MaxAbsDiff"
	opOperator  = "AsOperator"
	opBiCGStab  = "BiCGStab"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec computes y = m * x for a column vector x.
// Implementation:
//   - Stage 1: Validate m non-nil and len(x) == m.Cols().
//   - Stage 2: Row-major dot products (fast path on *Dense).
//
// Returns:
//   - []float64: freshly allocated y with len == m.Rows().
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)

	// Fast-path: *Dense allows flat, row-major dot-products.
	if d, ok := m.(*Dense); ok {
		for i := 0; i < rows; i++ {
			y[i] = floats.Dot(d.data[i*cols:(i+1)*cols], x)
		}

		return y, nil
	}

	// Fallback: interface-based dot-products via At.
	var (
		i, j int
		mv   float64
		err  error
	)
	for i = 0; i < rows; i++ {
		y[i] = ZeroSum
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[i] += mv * x[j]
		}
	}

	return y, nil
}

// VecMat computes the row-vector product y = xᵀ * m (len(x) == m.Rows()).
// This is the one-step push-forward ψ ↦ ψP of a distribution through a kernel.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(c).
func VecMat(x []float64, m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opVecMat, err)
	}
	if err := ValidateVecLen(x, m.Rows()); err != nil {
		return nil, matrixErrorf(opVecMat, err)
	}
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, cols)

	if d, ok := m.(*Dense); ok {
		for i := 0; i < rows; i++ {
			if x[i] == 0 {
				continue // skip zero for performance
			}
			floats.AddScaled(y, x[i], d.data[i*cols:(i+1)*cols])
		}

		return y, nil
	}

	var (
		i, j int
		mv   float64
		err  error
	)
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if mv, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opVecMat, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			y[j] += x[i] * mv
		}
	}

	return y, nil
}

// Transpose returns a new Dense with rows and columns swapped (mᵀ).
// The original matrix is never mutated.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if dm, ok := m.(*Dense); ok {
		// data[i*cols + j] → res.data[j*rows + i]
		for i = 0; i < rows; i++ {
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = dm.data[i*cols+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			res.data[j*rows+i] = v
		}
	}

	return res, nil
}

// MaxAbsDiff returns the sup-norm distance max_i |a[i] − b[i]|.
// This is the convergence metric of every outer iteration in package dp.
//
// Errors:
//   - ErrNilMatrix (nil slice), ErrDimensionMismatch (length mismatch).
//
// Complexity:
//   - Time O(n), Space O(1).
func MaxAbsDiff(a, b []float64) (float64, error) {
	if err := ValidateVecLen(a, len(b)); err != nil {
		return 0, matrixErrorf(opMaxAbs, err)
	}
	if b == nil {
		return 0, matrixErrorf(opMaxAbs, ErrNilMatrix)
	}
	if len(a) == 0 {
		return 0, nil
	}

	return floats.Distance(a, b, math.Inf(1)), nil
}
