// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All kernels MUST return these sentinels and tests MUST check them
// via errors.Is. No kernel should panic on user-triggered error conditions.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Kernels wrap with matrixErrorf(op, ErrX) so the
// operation name travels with the sentinel; callers still use errors.Is.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> shape/length -> NaN/Inf -> structural (stochastic) -> convergence.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. a vector whose length differs from the matrix column count.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrRaggedRows is returned by NewDenseFromRows when rows differ in length.
	ErrRaggedRows = errors.New("matrix: ragged rows")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required (kernel entries, right-hand sides).
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNotStochastic signals that a matrix expected to be row-stochastic has a
	// negative entry or a row whose sum differs from 1 beyond StochasticTol.
	ErrNotStochastic = errors.New("matrix: matrix is not row-stochastic")

	// ErrKrylovNotConverged indicates that an iterative Krylov solve reached its
	// iteration cap before the residual met the requested tolerance.
	ErrKrylovNotConverged = errors.New("matrix: krylov solve did not converge")

	// ErrKrylovBreakdown indicates a zero denominator inside BiCGStab (ρ or ω
	// collapsed), which happens for singular or severely ill-conditioned systems.
	ErrKrylovBreakdown = errors.New("matrix: krylov solve broke down")
)
