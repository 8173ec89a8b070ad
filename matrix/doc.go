// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra substrate of bellman.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked accessors and
//     fast paths over its flat backing slice.
//   - Central validators (shape, vector length, finiteness, row-stochastic)
//     returning plain sentinels that callers wrap with an operation tag.
//   - Kernels used by the dynamic-programming operators: MatVec, VecMat,
//     Transpose and the sup-norm distance MaxAbsDiff.
//   - A matrix-free LinearOperator abstraction and a BiCGStab Krylov solver,
//     so large linear systems such as (I - βP_σ)v = r_σ never need to be
//     materialized as n×n matrices.
//
// Transition kernels are validated once, at construction time, with
// ValidateRowStochastic; algorithms downstream rely on the invariant and do
// not re-normalize.
//
// See example_test.go for usage patterns.
package matrix
