// SPDX-License-Identifier: MIT

package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/equilibrium"
	"github.com/katalvlaran/bellman/markov"
	"github.com/spf13/cobra"
)

type equilibriumReport struct {
	RunID       string  `json:"run_id"`
	Method      string  `json:"method"`
	Converged   bool    `json:"converged"`
	K           float64 `json:"capital"`
	R           float64 `json:"interest_rate"`
	W           float64 `json:"wage"`
	Supply      float64 `json:"asset_supply"`
	Residual    float64 `json:"residual"`
	Iterations  int     `json:"evaluations"`
	ElapsedMS   float64 `json:"elapsed_ms"`
	Frontier    float64 `json:"stability_frontier"`
	WealthGini  float64 `json:"wealth_gini,omitempty"`
	Constrained float64 `json:"borrowing_constrained"`
}

func newEquilibriumCommand(g *globals) *cobra.Command {
	var (
		method string
		guess  float64
	)

	cmd := &cobra.Command{
		Use:   "equilibrium",
		Short: "Find the stationary equilibrium of an Aiyagari economy",
		Long: `Equilibrium searches for the capital stock K* at which household asset
supply G(K*) equals firm capital demand. Every evaluation of G solves the
household problem at the prices implied by K and computes the stationary
distribution of its optimal policy.

Capital stocks at or below the stability frontier, where β(1+r) ≥ 1, are
rejected before any household problem is solved.`,
		Example: `  # Bisection with the default economy
  bellman equilibrium

  # Damped iteration from K = 8 with JSON output
  bellman equilibrium --method damped --guess 8 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			r, err := g.start(cmd, "equilibrium")
			if err != nil {
				return err
			}
			defer r.closeInto(&err)

			if method != "" {
				if _, ok := equilibrium.ParseMethod(method); !ok {
					return fmt.Errorf("unknown method %q", method)
				}
				r.cfg.Equilibrium.Method = method
			}
			if guess > 0 {
				r.cfg.Equilibrium.Guess = guess
			}

			e, err := r.cfg.BuildEconomy()
			if err != nil {
				return err
			}
			opts := r.cfg.EquilibriumOptions(r.logger.Logger)
			opts.Solver = append(opts.Solver, dp.WithObserver(r.metrics))
			opts.OnStep = r.metrics.RecordEquilibriumStep

			res, solveErr := equilibrium.Solve(cmd.Context(), e, r.cfg.Guess(e), opts)
			if res == nil {
				return solveErr
			}

			rep := equilibriumReport{
				RunID:      r.id,
				Method:     res.Method.String(),
				Converged:  res.Converged,
				K:          res.K,
				R:          res.R,
				W:          res.W,
				Supply:     res.Supply,
				Residual:   res.Residual,
				Iterations: res.Iterations,
				ElapsedMS:  float64(res.Elapsed.Microseconds()) / 1e3,
				Frontier:   e.StabilityFrontier(),
			}
			if err = describeWealth(&rep, res.Last); err != nil {
				return err
			}
			if err = r.emit(rep, func(w io.Writer) error { return writeEquilibrium(w, rep) }); err != nil {
				return err
			}

			return solveErr
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "override equilibrium.method (bisection, damped)")
	cmd.Flags().Float64Var(&guess, "guess", 0, "initial capital stock (default 1.25 x stability frontier)")

	return cmd
}

// describeWealth adds the wealth Gini and the constrained share from the
// stationary distribution of the last evaluation.
func describeWealth(rep *equilibriumReport, ev *equilibrium.Evaluation) error {
	if ev == nil {
		return nil
	}
	d := ev.Household.Model.Dims()
	marginal, err := markov.MarginalX(ev.Distribution, d.NX, d.NY)
	if err != nil {
		return err
	}
	rep.Constrained = marginal[0]
	gini, err := markov.Gini(ev.Household.Grid, marginal)
	switch {
	case err == nil:
		rep.WealthGini = gini
	case !errors.Is(err, markov.ErrDegenerate):
		return err
	}
	return nil
}

func writeEquilibrium(w io.Writer, rep equilibriumReport) error {
	status := "converged"
	if !rep.Converged {
		status = "NOT converged"
	}
	_, err := fmt.Fprintf(w,
		"%s %s after %d evaluations (%.1f ms)\n"+
			"  K* = %.6f  (frontier %.6f)\n"+
			"  r  = %.6f\n"+
			"  w  = %.6f\n"+
			"  G(K*) = %.6f  residual %.3g\n"+
			"  wealth gini %.4f, constrained share %.4f\n",
		rep.Method, status, rep.Iterations, rep.ElapsedMS,
		rep.K, rep.Frontier, rep.R, rep.W, rep.Supply, rep.Residual,
		rep.WealthGini, rep.Constrained)
	return err
}
