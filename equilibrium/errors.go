// SPDX-License-Identifier: MIT

package equilibrium

import "errors"

var (
	// ErrInvalidEconomy marks malformed firm parameters or search options.
	ErrInvalidEconomy = errors.New("equilibrium: invalid economy")

	// ErrUnstable is returned when β(1 + r(K)) ≥ 1: households would save
	// without bound and the capital supply is not defined.
	ErrUnstable = errors.New("equilibrium: stability condition β(1+r) < 1 violated")

	// ErrNoBracket is returned when bisection cannot find K_lo < K_hi with
	// h(K_lo) ≤ 0 ≤ h(K_hi) inside the stable region.
	ErrNoBracket = errors.New("equilibrium: no sign change of K − G(K)")

	// ErrNoFixedPoint is returned when the bisection bracket shrinks below
	// the tolerance around a jump of G, so no evaluated K satisfies
	// |K − G(K)| ≤ Tol. The result carries the best evaluation found.
	ErrNoFixedPoint = errors.New("equilibrium: bracket collapsed on a jump of G")

	// ErrNotConverged is returned with the last iterate when the search hits
	// its iteration ceiling.
	ErrNotConverged = errors.New("equilibrium: iteration limit reached before convergence")
)
