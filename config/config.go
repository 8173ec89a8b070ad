// SPDX-License-Identifier: MIT

// Package config reads run configurations for the bellman command from YAML
// and turns them into models, solver options and economies.
//
// A file looks like:
//
//	model:
//	  kind: savings            # savings | inventory | household
//	  savings:                 # optional; defaults when omitted
//	    beta: 0.96
//	    grid_size: 200
//	solver:
//	  algorithm: hpi           # vfi | hpi | opi
//	  tolerance: 1.0e-6
//	equilibrium:
//	  method: bisection        # bisection | damped
//	  guess: 8
//	logging:
//	  level: info
//	metrics:
//	  enabled: true
//	  textfile: bellman.prom
//
// Zero values mean "use the library default" throughout.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/equilibrium"
	"github.com/katalvlaran/bellman/matrix"
	"github.com/katalvlaran/bellman/models"
	"github.com/katalvlaran/bellman/telemetry"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for unreadable, malformed or invalid files.
var ErrInvalidConfig = errors.New("config: invalid configuration")

var validate = validator.New()

// File is the root of a configuration file.
type File struct {
	Model       ModelConfig             `yaml:"model"`
	Solver      SolverConfig            `yaml:"solver"`
	Equilibrium EquilibriumConfig       `yaml:"equilibrium"`
	Logging     telemetry.LoggingConfig `yaml:"logging"`
	Metrics     telemetry.MetricsConfig `yaml:"metrics"`
}

// ModelConfig selects and parameterizes one of the built-in models.
// R and W are the prices used when a household model is solved on its own;
// a zero W is replaced by the default firm's wage at R.
type ModelConfig struct {
	Kind      string                  `yaml:"kind" validate:"omitempty,oneof=savings inventory household"`
	Savings   *models.SavingsParams   `yaml:"savings"`
	Inventory *models.InventoryParams `yaml:"inventory"`
	Household *models.HouseholdParams `yaml:"household"`
	R         float64                 `yaml:"r" validate:"gt=-1"`
	W         float64                 `yaml:"w" validate:"gte=0"`
}

// SolverConfig holds the dp solver settings.
type SolverConfig struct {
	Algorithm     string  `yaml:"algorithm" validate:"omitempty,oneof=vfi hpi opi"`
	Tolerance     float64 `yaml:"tolerance" validate:"gte=0"`
	MaxIter       int     `yaml:"max_iter" validate:"gte=0"`
	Steps         int     `yaml:"steps" validate:"gte=0"`
	Workers       int     `yaml:"workers" validate:"gte=0"`
	KrylovTol     float64 `yaml:"krylov_tol" validate:"gte=0"`
	KrylovMaxIter int     `yaml:"krylov_max_iter" validate:"gte=0"`
}

// EquilibriumConfig holds the Aiyagari economy and its search settings.
// Damping is a pointer because 0 (undamped iteration) is a valid setting;
// nil selects equilibrium.DefaultDamping.
type EquilibriumConfig struct {
	Firm      *equilibrium.Firm       `yaml:"firm"`
	Household *models.HouseholdParams `yaml:"household"`
	Method    string                  `yaml:"method" validate:"omitempty,oneof=bisection damped"`
	Guess     float64                 `yaml:"guess" validate:"gte=0"`
	Tol       float64                 `yaml:"tol" validate:"gte=0"`
	MaxIter   int                     `yaml:"max_iter" validate:"gte=0"`
	Damping   *float64                `yaml:"damping" validate:"omitempty,gte=0,lt=1"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		Model:   ModelConfig{Kind: "savings"},
		Solver:  SolverConfig{Algorithm: "vfi"},
		Logging: telemetry.DefaultLoggingConfig(),
		Metrics: telemetry.DefaultMetricsConfig(),
	}
}

// Load reads and validates the file at path over Default().
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default() and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*File, error) {
	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidConfig, err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return f, nil
}

// algorithm falls back to VFI when unset.
func (s SolverConfig) algorithm() dp.Algorithm {
	a, _ := dp.ParseAlgorithm(s.Algorithm)
	return a
}

// Options converts the settings into dp options; zero fields are skipped.
func (s SolverConfig) Options() []dp.Option {
	opts := []dp.Option{dp.WithAlgorithm(s.algorithm()), dp.WithWorkers(s.Workers)}
	if s.Tolerance > 0 {
		opts = append(opts, dp.WithTolerance(s.Tolerance))
	}
	if s.MaxIter > 0 {
		opts = append(opts, dp.WithMaxIter(s.MaxIter))
	}
	if s.Steps > 0 {
		opts = append(opts, dp.WithSteps(s.Steps))
	}
	if s.KrylovTol > 0 || s.KrylovMaxIter > 0 {
		k := matrix.DefaultKrylovOptions()
		if s.KrylovTol > 0 {
			k.Tol = s.KrylovTol
		}
		if s.KrylovMaxIter > 0 {
			k.MaxIter = s.KrylovMaxIter
		}
		opts = append(opts, dp.WithKrylov(k.Tol, k.MaxIter))
	}
	return opts
}

// BuildModel constructs the configured model.
func (f *File) BuildModel() (*models.Problem, error) {
	m := f.Model
	switch m.Kind {
	case "", "savings":
		p := models.DefaultSavingsParams()
		if m.Savings != nil {
			p = *m.Savings
		}
		return models.NewSavings(p)
	case "inventory":
		p := models.DefaultInventoryParams()
		if m.Inventory != nil {
			p = *m.Inventory
		}
		return models.NewInventory(p)
	case "household":
		p := models.DefaultHouseholdParams()
		if m.Household != nil {
			p = *m.Household
		}
		w := m.W
		if w == 0 {
			w = equilibrium.DefaultFirm().Wage(m.R)
		}
		return models.NewHousehold(p, m.R, w)
	default:
		return nil, fmt.Errorf("%w: model kind %q", ErrInvalidConfig, m.Kind)
	}
}

// BuildEconomy constructs the configured Aiyagari economy.
func (f *File) BuildEconomy() (*equilibrium.Economy, error) {
	firm := equilibrium.DefaultFirm()
	if f.Equilibrium.Firm != nil {
		firm = *f.Equilibrium.Firm
	}
	h := models.DefaultHouseholdParams()
	if f.Equilibrium.Household != nil {
		h = *f.Equilibrium.Household
	}
	return equilibrium.NewEconomy(firm, h)
}

// EquilibriumOptions merges the search settings with the solver options.
func (f *File) EquilibriumOptions(logger zerolog.Logger) equilibrium.Options {
	e := f.Equilibrium
	opts := equilibrium.DefaultOptions()
	if m, ok := equilibrium.ParseMethod(e.Method); ok {
		opts.Method = m
	}
	if e.Tol > 0 {
		opts.Tol = e.Tol
	}
	if e.MaxIter > 0 {
		opts.MaxIter = e.MaxIter
	}
	if e.Damping != nil {
		opts.Damping = *e.Damping
	}
	opts.Solver = f.Solver.Options()
	opts.Logger = logger

	return opts
}

// Guess returns the configured initial capital, or 1.25 times the stability
// frontier of e when unset.
func (f *File) Guess(e *equilibrium.Economy) float64 {
	if f.Equilibrium.Guess > 0 {
		return f.Equilibrium.Guess
	}
	return 1.25 * e.StabilityFrontier()
}
