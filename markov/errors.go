// SPDX-License-Identifier: MIT

package markov

import "errors"

var (
	// ErrSingular is returned when the regularized stationary system cannot be
	// solved, which happens for chains without a unique stationary distribution.
	ErrSingular = errors.New("markov: stationary system is singular")

	// ErrInvalidParams is returned for out-of-range discretization parameters.
	ErrInvalidParams = errors.New("markov: invalid parameters")

	// ErrDegenerate is returned by statistics that are undefined for the input,
	// e.g. the Gini coefficient of a distribution with zero mean.
	ErrDegenerate = errors.New("markov: degenerate distribution")
)
