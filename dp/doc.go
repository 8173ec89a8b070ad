// SPDX-License-Identifier: MIT

// Package dp solves finite Markov decision problems whose state is a pair
// (x_i, y_j) of an endogenous grid point and an exogenous shock.
//
// 🚀 What is in dp?
//
//	A small dynamic-programming engine built from composable operators:
//	  • B: Bellman right-hand side for every (state, action) pair
//	  • T: Bellman operator, max over actions
//	  • Greedy: argmax policy, lowest action index on exact ties
//	  • TSigma: policy operator for a fixed policy σ
//	  • EvaluatePolicy: exact v_σ from (I − βP_σ)v = r_σ, solved matrix-free
//	  • ValueIteration, PolicyIteration, OptimisticPolicyIteration
//
// ✨ Model contract:
//
//   - Model is immutable once NewModel returns; it may be shared freely.
//   - Infeasible actions carry reward −∞ and are never chosen.
//   - The shock kernel Q is validated row-stochastic at construction.
//   - States are laid out flat as s = i*NY + j; state-action pairs as s*NA + a.
//
// ⚙️ Usage:
//
//	m, err := dp.NewModel(dp.Spec{Beta: 0.96, Dims: dims, Q: q, Reward: r, Next: next})
//	res, err := dp.Solve(ctx, m, dp.WithAlgorithm(dp.HPI))
//	if errors.Is(err, dp.ErrNotConverged) {
//	  // res holds the last iterate, res.Converged == false
//	}
//
// All three algorithms converge to the same fixed point of T; they differ in
// how many outer iterations they need and how expensive each one is.
package dp
