// SPDX-License-Identifier: MIT

// Package markov works with finite Markov chains given as row-stochastic
// matrices.
//
// What is here:
//
//   - Stationary: the unique invariant distribution ψ = ψP of a chain, via a
//     dense LU solve of the regularized system (I − Pᵀ + O)ψᵀ = 1, where O is
//     the all-ones matrix.
//   - Tauchen: discretization of a Gaussian AR(1) process into a grid and a
//     transition kernel.
//   - Mean, Gini, MarginalX: aggregate statistics of a distribution over a
//     state grid, as used to close equilibrium models.
//   - Reach, Classes: breadth-first reachability and communicating classes of
//     the support graph; more than one closed class means no unique ψ.
//
// Preconditions are checked, never repaired: a kernel that is not
// row-stochastic is rejected with matrix.ErrNotStochastic and the solver does
// not re-normalize its output.
//
//	psi, err := markov.Stationary(p)
//	if err != nil {
//	  // matrix.ErrNotStochastic or markov.ErrSingular
//	}
package markov
