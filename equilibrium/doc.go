// SPDX-License-Identifier: MIT

// Package equilibrium finds the stationary general equilibrium of an
// Aiyagari economy: a capital stock K* that reproduces itself once fed
// through factor prices, the household problem and the stationary
// distribution of assets.
//
// The outer map is
//
//	G(K) = Σ_s ψ_σ(s)·a(s),   σ = optimal policy at (r(K), w(r(K))),
//
// and the search runs either bracketed bisection on h(K) = K − G(K) (the
// default) or damped iteration K ← αK + (1 − α)G(K).
//
// Every evaluation of G first checks the stability condition β(1 + r) < 1
// and fails with ErrUnstable before any dynamic program is solved.
package equilibrium
