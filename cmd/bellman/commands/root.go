// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/katalvlaran/bellman/config"
	"github.com/katalvlaran/bellman/telemetry"
	"github.com/spf13/cobra"
)

// Global flags
type globals struct {
	configPath string
	logLevel   string
	jsonOutput bool
}

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	return newRootCommand(version, commit, buildDate).ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:   "bellman",
		Short: "Discrete-state dynamic programming solver",
		Long: `bellman solves infinite-horizon discounted dynamic programs on finite
state spaces with value iteration, Howard policy iteration or optimistic
policy iteration, and finds stationary equilibria of Aiyagari economies.

Models and solver settings come from a YAML file (--config); without one the
built-in savings model is solved with the default settings.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override logging.level from the config")
	rootCmd.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newSolveCommand(g))
	rootCmd.AddCommand(newStationaryCommand(g))
	rootCmd.AddCommand(newEquilibriumCommand(g))

	return rootCmd
}

// run bundles what every subcommand needs: the configuration, a logger
// tagged with a fresh run id, and the metrics collector.
type run struct {
	id      string
	cfg     *config.File
	logger  *telemetry.Logger
	metrics *telemetry.Metrics
	out     io.Writer
	json    bool
}

func (g *globals) start(cmd *cobra.Command, component string) (*run, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return nil, err
		}
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}

	base, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	metrics, err := telemetry.NewMetrics(cfg.Metrics)
	if err != nil {
		_ = base.Close()
		return nil, err
	}

	id := uuid.New().String()
	logger := base.WithRunID(id).WithComponent(component)
	logger.Debug().Str("config", g.configPath).Msg("Run started")

	return &run{
		id:      id,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		out:     cmd.OutOrStdout(),
		json:    g.jsonOutput,
	}, nil
}

// close exports metrics when a textfile is configured and releases the log
// output.
func (r *run) close() error {
	var err error
	if path := r.cfg.Metrics.Textfile; path != "" {
		err = r.metrics.WriteTextfile(path)
	}
	if cerr := r.logger.Close(); err == nil {
		err = cerr
	}
	return err
}

// closeInto runs close and stores its error in *err unless one is set.
func (r *run) closeInto(err *error) {
	if cerr := r.close(); *err == nil {
		*err = cerr
	}
}

// emit writes v as indented JSON, or calls text for the human format.
func (r *run) emit(v any, text func(w io.Writer) error) error {
	if !r.json {
		return text(r.out)
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
