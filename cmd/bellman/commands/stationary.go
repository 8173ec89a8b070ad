// SPDX-License-Identifier: MIT

package commands

import (
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/markov"
	"github.com/spf13/cobra"
)

type stationaryReport struct {
	RunID     string    `json:"run_id"`
	Model     string    `json:"model"`
	Algorithm string    `json:"algorithm"`
	Mean      float64   `json:"mean"`
	Gini      *float64  `json:"gini,omitempty"`
	Mass      float64   `json:"mass_at_min"`
	Recurrent int       `json:"recurrent_classes"`
	Grid      []float64 `json:"grid,omitempty"`
	Marginal  []float64 `json:"marginal,omitempty"`
}

func newStationaryCommand(g *globals) *cobra.Command {
	var (
		algorithm string
		model     string
		full      bool
	)

	cmd := &cobra.Command{
		Use:   "stationary",
		Short: "Stationary distribution under the optimal policy",
		Long: `Stationary solves the configured model, builds the state transition
matrix of the optimal policy and reports its stationary distribution over
the endogenous grid: the mean, the Gini coefficient and the mass at the
lowest grid point.`,
		Example: `  bellman stationary -c run.yaml --model household --full`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			r, err := g.start(cmd, "stationary")
			if err != nil {
				return err
			}
			defer r.closeInto(&err)

			if err = override(r, algorithm, model); err != nil {
				return err
			}
			p, res, err := r.solve(cmd)
			if err != nil {
				return err
			}
			pSigma, err := dp.TransitionOf(p.Model, res.Policy)
			if err != nil {
				return err
			}
			classes, err := markov.Classes(pSigma)
			if err != nil {
				return err
			}
			psi, err := markov.Stationary(pSigma)
			if err != nil {
				return err
			}
			d := p.Model.Dims()
			marginal, err := markov.MarginalX(psi, d.NX, d.NY)
			if err != nil {
				return err
			}
			mean, err := markov.Mean(p.Grid, marginal)
			if err != nil {
				return err
			}

			rep := stationaryReport{
				RunID:     r.id,
				Model:     r.cfg.Model.Kind,
				Algorithm: res.Algorithm.String(),
				Mean:      mean,
				Mass:      marginal[0],
				Recurrent: len(markov.Recurrent(classes)),
			}
			switch gini, gerr := markov.Gini(p.Grid, marginal); {
			case gerr == nil:
				rep.Gini = &gini
			case !errors.Is(gerr, markov.ErrDegenerate):
				return gerr
			}
			if full {
				rep.Grid, rep.Marginal = p.Grid, marginal
			}
			r.logger.Info().Float64("mean", mean).Float64("mass_at_min", rep.Mass).Msg("Stationary distribution computed")

			return r.emit(rep, func(w io.Writer) error { return writeStationary(w, rep) })
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "", "override solver.algorithm (vfi, hpi, opi)")
	cmd.Flags().StringVar(&model, "model", "", "override model.kind (savings, inventory, household)")
	cmd.Flags().BoolVar(&full, "full", false, "include the marginal distribution")

	return cmd
}

func writeStationary(w io.Writer, rep stationaryReport) error {
	gini := math.NaN()
	if rep.Gini != nil {
		gini = *rep.Gini
	}
	fmt.Fprintf(w, "%s (%s): mean %.6g, gini %.4f, mass at minimum %.4f, %d recurrent class(es)\n",
		rep.Model, rep.Algorithm, rep.Mean, gini, rep.Mass, rep.Recurrent)
	if rep.Marginal == nil {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "x\tpsi(x)")
	for i, x := range rep.Grid {
		fmt.Fprintf(tw, "%.4g\t%.6g\n", x, rep.Marginal[i])
	}
	return tw.Flush()
}
