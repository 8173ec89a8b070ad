// SPDX-License-Identifier: MIT

// Package bellman solves infinite-horizon discounted dynamic programs on
// finite, discretized state spaces, and the heterogeneous-agent equilibria
// built on top of them.
//
// 🚀 What is bellman?
//
//	A small numerical toolkit that brings together:
//		• Bellman operators: B, T, T_σ and the greedy-policy operator
//		• Solvers: value iteration, Howard policy iteration, optimistic policy iteration
//		• Policy evaluation: matrix-free BiCGStab on (I − βP_σ)v = r_σ
//		• Markov tools: stationary distributions, Tauchen discretization, Gini
//		• Models: consumption-savings, Aiyagari household, inventory control
//		• Equilibrium: Aiyagari capital market clearing by bisection or damping
//
// ✨ Why choose bellman?
//
//   - Exact layout: states are flat (i, j) pairs, state-actions (s, a)
//   - Deterministic: ties break to the lowest action, runs are reproducible
//   - Parallel: operator sweeps fan out over the endogenous grid
//   - Observable: zerolog diagnostics and Prometheus iteration metrics
//
// Packages:
//
//	matrix/      dense row-major matrices, validators, BiCGStab
//	markov/      stationary distributions, Tauchen, distribution statistics
//	dp/          the model, operators and the VFI / HPI / OPI solvers
//	models/      ready-made problems built from validated parameters
//	equilibrium/ the Aiyagari firm, G(K) and the K* search
//	telemetry/   logger and metrics wiring
//	config/      YAML run configuration
//	cmd/bellman  the command-line front end
//
// Quick example:
//
//	p, _ := models.NewSavings(models.DefaultSavingsParams())
//	res, err := dp.Solve(ctx, p.Model, dp.WithAlgorithm(dp.HPI))
//
//	go install github.com/katalvlaran/bellman/cmd/bellman@latest
package bellman
