// SPDX-License-Identifier: MIT

package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/models"
	"github.com/spf13/cobra"
)

type solveReport struct {
	RunID      string    `json:"run_id"`
	Model      string    `json:"model"`
	Algorithm  string    `json:"algorithm"`
	Converged  bool      `json:"converged"`
	Iterations int       `json:"iterations"`
	Error      float64   `json:"error"`
	ElapsedMS  float64   `json:"elapsed_ms"`
	NX         int       `json:"nx"`
	NY         int       `json:"ny"`
	Grid       []float64 `json:"grid,omitempty"`
	Shocks     []float64 `json:"shocks,omitempty"`
	Value      []float64 `json:"value,omitempty"`
	Policy     []int     `json:"policy,omitempty"`
}

func newSolveCommand(g *globals) *cobra.Command {
	var (
		algorithm string
		model     string
		full      bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the configured dynamic program",
		Long: `Solve builds the model named in the config (or --model) and runs the
selected algorithm until the stopping rule holds.

A run that hits its iteration ceiling prints the last iterate and exits
non-zero.`,
		Example: `  # Default savings model with value iteration
  bellman solve

  # Inventory model from a file, Howard policy iteration, full table
  bellman solve -c run.yaml --model inventory --algorithm hpi --full`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			r, err := g.start(cmd, "solve")
			if err != nil {
				return err
			}
			defer r.closeInto(&err)

			if err = override(r, algorithm, model); err != nil {
				return err
			}
			p, res, solveErr := r.solve(cmd)
			if res == nil {
				return solveErr
			}

			rep := solveReport{
				RunID:      r.id,
				Model:      r.cfg.Model.Kind,
				Algorithm:  res.Algorithm.String(),
				Converged:  res.Converged,
				Iterations: res.Iterations,
				Error:      res.Error,
				ElapsedMS:  float64(res.Elapsed.Microseconds()) / 1e3,
				NX:         res.Dims.NX,
				NY:         res.Dims.NY,
			}
			if full {
				rep.Grid, rep.Shocks = p.Grid, p.Shocks
				rep.Value, rep.Policy = res.Value, res.Policy
			}
			if err = r.emit(rep, func(w io.Writer) error { return writeSolve(w, rep, p, res, full) }); err != nil {
				return err
			}

			return solveErr
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "", "override solver.algorithm (vfi, hpi, opi)")
	cmd.Flags().StringVar(&model, "model", "", "override model.kind (savings, inventory, household)")
	cmd.Flags().BoolVar(&full, "full", false, "include the value function and policy")

	return cmd
}

// override applies the --algorithm and --model flags to the loaded config.
func override(r *run, algorithm, model string) error {
	if algorithm != "" {
		if _, ok := dp.ParseAlgorithm(algorithm); !ok {
			return fmt.Errorf("unknown algorithm %q", algorithm)
		}
		r.cfg.Solver.Algorithm = algorithm
	}
	if model != "" {
		r.cfg.Model.Kind = model
	}
	return nil
}

// solve builds the configured model and solves it with metrics attached.
// A non-converged result is returned together with its error.
func (r *run) solve(cmd *cobra.Command) (*models.Problem, *dp.Result, error) {
	p, err := r.cfg.BuildModel()
	if err != nil {
		return nil, nil, err
	}
	algo, _ := dp.ParseAlgorithm(r.cfg.Solver.Algorithm)
	opts := append(r.cfg.Solver.Options(),
		dp.WithLogger(r.logger.Logger),
		dp.WithObserver(r.metrics),
	)

	res, err := dp.Solve(cmd.Context(), p.Model, opts...)
	r.metrics.RecordSolve(algo, res, err)
	if err != nil && !errors.Is(err, dp.ErrNotConverged) {
		return nil, nil, err
	}

	return p, res, err
}

func writeSolve(w io.Writer, rep solveReport, p *models.Problem, res *dp.Result, full bool) error {
	status := "converged"
	if !rep.Converged {
		status = "NOT converged"
	}
	fmt.Fprintf(w, "%s on %s (%d x %d states): %s after %d iterations, error %.3g, %.1f ms\n",
		rep.Algorithm, rep.Model, rep.NX, rep.NY, status, rep.Iterations, rep.Error, rep.ElapsedMS)
	if !full {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "x\ty\tv(x,y)\tx'")
	for i, x := range p.Grid {
		for j, y := range p.Shocks {
			v, a := res.At(i, j)
			fmt.Fprintf(tw, "%.4g\t%.4g\t%.6g\t%.4g\n", x, y, v, p.Grid[p.Model.Next(i, j, a)])
		}
	}
	return tw.Flush()
}
