// SPDX-License-Identifier: MIT

// Package matrix - matrix-free Krylov solver (BiCGStab).
//
// Purpose:
//   - Solve A·x = b for a square LinearOperator A without forming A.
//   - Report non-convergence and breakdown explicitly; never return a silently
//     wrong vector.
//
// Determinism:
//   - Fixed operation order; identical inputs give bit-identical outputs.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Krylov defaults.
const (
	// DefaultKrylovTol is the relative residual target ‖b − A·x‖₂ ≤ tol·‖b‖₂.
	DefaultKrylovTol = 1e-10

	// DefaultKrylovMaxIter caps the number of BiCGStab iterations.
	DefaultKrylovMaxIter = 1000
)

// KrylovOptions configures BiCGStab.
//   - Tol: relative residual target (> 0).
//   - MaxIter: hard iteration ceiling (> 0).
type KrylovOptions struct {
	Tol     float64
	MaxIter int
}

// DefaultKrylovOptions returns the documented defaults.
func DefaultKrylovOptions() KrylovOptions {
	return KrylovOptions{Tol: DefaultKrylovTol, MaxIter: DefaultKrylovMaxIter}
}

// KrylovResult reports how a solve went, including on failure.
type KrylovResult struct {
	// Iterations is the number of BiCGStab iterations performed.
	Iterations int

	// Residual is the final relative residual ‖b − A·x‖₂ / ‖b‖₂.
	Residual float64
}

// BiCGStab solves A·x = b with the stabilized bi-conjugate gradient method.
// Implementation:
//   - Stage 1: validate shapes and finiteness; x ← x0 (zeros when nil); r ← b − A·x.
//   - Stage 2: BiCGStab recurrences with shadow residual r̂ = r₀; early exit on
//     the half-step residual s.
//
// Behavior highlights:
//   - b == 0 returns the zero vector immediately.
//   - x0 is copied, never mutated.
//
// Inputs:
//   - op: square operator, n = op.Dim().
//   - b: right-hand side (len n, finite).
//   - x0: initial guess (len n) or nil.
//   - opts: tolerance and iteration cap.
//
// Returns:
//   - []float64: the solution when err == nil; the last iterate otherwise.
//   - KrylovResult: iteration count and final relative residual.
//
// Errors:
//   - ErrDimensionMismatch, ErrNilMatrix, ErrNaNInf (inputs),
//     ErrKrylovBreakdown (ρ, r̂·v, t·t or ω collapsed to zero),
//     ErrKrylovNotConverged (iteration cap reached).
//
// Complexity:
//   - Two operator applications plus O(n) vector work per iteration.
func BiCGStab(op LinearOperator, b, x0 []float64, opts KrylovOptions) ([]float64, KrylovResult, error) {
	var res KrylovResult
	if op == nil {
		return nil, res, matrixErrorf(opBiCGStab, ErrNilMatrix)
	}
	n := op.Dim()
	if n <= 0 {
		return nil, res, matrixErrorf(opBiCGStab, ErrInvalidDimensions)
	}
	if err := ValidateVecLen(b, n); err != nil {
		return nil, res, matrixErrorf(opBiCGStab, err)
	}
	if err := ValidateFiniteVec(b); err != nil {
		return nil, res, matrixErrorf(opBiCGStab, err)
	}
	if opts.Tol <= 0 || opts.MaxIter <= 0 {
		opts = DefaultKrylovOptions()
	}

	x := make([]float64, n)
	if x0 != nil {
		if err := ValidateVecLen(x0, n); err != nil {
			return nil, res, matrixErrorf(opBiCGStab, err)
		}
		copy(x, x0)
	}

	bNorm := floats.Norm(b, 2)
	if bNorm == 0 {
		// A·0 = 0 solves the homogeneous system exactly.
		return make([]float64, n), res, nil
	}
	target := opts.Tol * bNorm

	// r = b − A·x
	r := make([]float64, n)
	if err := op.Apply(r, x); err != nil {
		return nil, res, matrixErrorf(opBiCGStab, err)
	}
	floats.SubTo(r, b, r)
	rNorm := floats.Norm(r, 2)
	res.Residual = rNorm / bNorm
	if rNorm <= target {
		return x, res, nil
	}

	var (
		rHat                = append([]float64(nil), r...)
		p                   = make([]float64, n)
		v                   = make([]float64, n)
		s                   = make([]float64, n)
		t                   = make([]float64, n)
		rho, alpha, omega   = 1.0, 1.0, 1.0
		rhoNew, beta, denom float64
		i, k                int
	)
	for k = 1; k <= opts.MaxIter; k++ {
		res.Iterations = k

		rhoNew = floats.Dot(rHat, r)
		if rhoNew == 0 {
			return x, res, matrixErrorf(opBiCGStab, fmt.Errorf("iteration %d: rho=0: %w", k, ErrKrylovBreakdown))
		}
		if k == 1 {
			copy(p, r)
		} else {
			beta = (rhoNew / rho) * (alpha / omega)
			for i = 0; i < n; i++ {
				p[i] = r[i] + beta*(p[i]-omega*v[i])
			}
		}

		// v = A·p
		if err := op.Apply(v, p); err != nil {
			return x, res, matrixErrorf(opBiCGStab, err)
		}
		denom = floats.Dot(rHat, v)
		if denom == 0 {
			return x, res, matrixErrorf(opBiCGStab, fmt.Errorf("iteration %d: r̂·v=0: %w", k, ErrKrylovBreakdown))
		}
		alpha = rhoNew / denom

		// s = r − α·v; early exit on the half step.
		floats.AddScaledTo(s, r, -alpha, v)
		if sNorm := floats.Norm(s, 2); sNorm <= target {
			floats.AddScaled(x, alpha, p)
			res.Residual = sNorm / bNorm

			return x, res, nil
		}

		// t = A·s
		if err := op.Apply(t, s); err != nil {
			return x, res, matrixErrorf(opBiCGStab, err)
		}
		denom = floats.Dot(t, t)
		if denom == 0 {
			return x, res, matrixErrorf(opBiCGStab, fmt.Errorf("iteration %d: t·t=0: %w", k, ErrKrylovBreakdown))
		}
		omega = floats.Dot(t, s) / denom

		// x += α·p + ω·s ; r = s − ω·t
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(x, omega, s)
		floats.AddScaledTo(r, s, -omega, t)

		rNorm = floats.Norm(r, 2)
		res.Residual = rNorm / bNorm
		if rNorm <= target {
			return x, res, nil
		}
		if omega == 0 {
			return x, res, matrixErrorf(opBiCGStab, fmt.Errorf("iteration %d: omega=0: %w", k, ErrKrylovBreakdown))
		}
		rho = rhoNew
	}

	return x, res, matrixErrorf(opBiCGStab, fmt.Errorf("%d iterations, residual %.3e: %w", opts.MaxIter, res.Residual, ErrKrylovNotConverged))
}
