// SPDX-License-Identifier: MIT

// Package models builds ready-to-solve dp.Model values for the classic
// discrete dynamic programs:
//
//   - Savings: a household choosing next-period wealth under Markov income.
//   - Inventory: a firm ordering stock under Markov demand with a storage cap.
//   - Household: the Aiyagari household facing interest rate r and wage w.
//
// Parameter structs carry yaml and validate tags so they can be read straight
// from a configuration file; every builder validates its parameters before
// tabulating rewards. Consumption (or residual storage) feasibility uses strict
// comparisons against zero with no tolerance: infeasible actions get reward
// −∞ and are never chosen by the solvers.
package models
