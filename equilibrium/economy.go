// SPDX-License-Identifier: MIT

package equilibrium

import (
	"context"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/markov"
	"github.com/katalvlaran/bellman/models"
)

const (
	opNewEconomy = "NewEconomy"
	opG          = "G"
)

var validate = validator.New()

// Economy couples a firm with the household side. It is immutable and safe
// to share; every G evaluation builds its own household model.
type Economy struct {
	firm      Firm
	household models.HouseholdParams
}

// NewEconomy validates both parameter sets.
//
// Errors: ErrInvalidEconomy (firm), models.ErrInvalidParams (household).
func NewEconomy(f Firm, h models.HouseholdParams) (*Economy, error) {
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", opNewEconomy, ErrInvalidEconomy, err)
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opNewEconomy, err)
	}

	return &Economy{firm: f, household: h}, nil
}

// Firm returns the production side.
func (e *Economy) Firm() Firm { return e.firm }

// Household returns the household parameters.
func (e *Economy) Household() models.HouseholdParams { return e.household }

// StabilityFrontier returns K_f, the capital stock at which β(1 + r) = 1:
//
//	K_f = N·(α·A / (1/β − 1 + δ))^(1/(1−α)).
//
// Since r(K) decreases in K, the economy is stable exactly for K > K_f.
func (e *Economy) StabilityFrontier() float64 {
	return e.firm.Capital(1/e.household.Beta - 1)
}

// CheckStable reports ErrUnstable unless K > 0 and β(1 + r(K)) < 1.
func (e *Economy) CheckStable(k float64) error {
	if !(k > 0) || math.IsInf(k, 0) {
		return fmt.Errorf("K=%g: %w", k, ErrInvalidEconomy)
	}
	r := e.firm.Rate(k)
	if e.household.Beta*(1+r) >= 1 {
		return fmt.Errorf("K=%g r=%.6f β(1+r)=%.6f (need K > %.6f): %w",
			k, r, e.household.Beta*(1+r), e.StabilityFrontier(), ErrUnstable)
	}
	return nil
}

// Evaluation is one G(K) computation.
type Evaluation struct {
	K      float64 // capital demand that set prices
	R      float64 // interest rate r(K)
	W      float64 // wage w(r)
	Supply float64 // G(K): mean assets under the stationary distribution

	// Household is the household problem built at (R, W) and Solution its
	// value and policy. Distribution is the stationary distribution over
	// (a_i, z_j), flat as i*NY + j.
	Household    *models.Problem
	Solution     *dp.Result
	Distribution []float64
}

// Excess is K − G(K).
func (ev *Evaluation) Excess() float64 { return ev.K - ev.Supply }

// G evaluates the outer map at K:
//
//  1. check β(1 + r(K)) < 1 (fails before any solve),
//  2. set r = r(K), w = w(r) and build the household problem,
//  3. solve it with dp.Solve(opts...),
//  4. compute ψ from dp.TransitionOf and markov.Stationary,
//  5. return mean assets Σ ψ·a.
//
// Errors propagate unchanged in kind: ErrUnstable, dp.ErrNotConverged,
// dp.ErrPolicyEvaluation, markov.ErrSingular and context errors.
func (e *Economy) G(ctx context.Context, k float64, opts ...dp.Option) (*Evaluation, error) {
	if err := e.CheckStable(k); err != nil {
		return nil, fmt.Errorf("%s: %w", opG, err)
	}
	ev := &Evaluation{K: k, R: e.firm.Rate(k)}
	ev.W = e.firm.Wage(ev.R)

	prob, err := models.NewHousehold(e.household, ev.R, ev.W)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opG, err)
	}
	res, err := dp.Solve(ctx, prob.Model, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: K=%g: %w", opG, k, err)
	}
	p, err := dp.TransitionOf(prob.Model, res.Policy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opG, err)
	}
	psi, err := markov.Stationary(p)
	if err != nil {
		return nil, fmt.Errorf("%s: K=%g: %w", opG, k, err)
	}
	d := prob.Model.Dims()
	marginal, err := markov.MarginalX(psi, d.NX, d.NY)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opG, err)
	}
	if ev.Supply, err = markov.Mean(prob.Grid, marginal); err != nil {
		return nil, fmt.Errorf("%s: %w", opG, err)
	}
	ev.Household, ev.Solution, ev.Distribution = prob, res, psi

	return ev, nil
}
