package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/bellman/config"
	"github.com/katalvlaran/bellman/equilibrium"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
model:
  kind: inventory
  inventory:
    beta: 0.95
    capacity: 10
    price: 1
    unit_cost: 0.2
    fixed_cost: 1
    demand:
      values: [0, 1, 2]
      q:
        - [0.25, 0.5, 0.25]
        - [0.25, 0.5, 0.25]
        - [0.25, 0.5, 0.25]
solver:
  algorithm: hpi
  tolerance: 1.0e-8
  workers: 2
  krylov_tol: 1.0e-12
equilibrium:
  method: damped
  damping: 0.95
  guess: 7.5
  firm:
    a: 1
    n: 1
    alpha: 0.36
    delta: 0.08
logging:
  level: debug
  format: json
metrics:
  enabled: false
`

func TestParse_Sample(t *testing.T) {
	f, err := config.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "inventory", f.Model.Kind)
	require.NotNil(t, f.Model.Inventory)
	assert.Equal(t, 10, f.Model.Inventory.Capacity)
	assert.Equal(t, "hpi", f.Solver.Algorithm)
	assert.Equal(t, "debug", f.Logging.Level)
	assert.Equal(t, "json", f.Logging.Format)
	// Untouched defaults survive.
	assert.Equal(t, "stderr", f.Logging.Output)
	assert.False(t, f.Metrics.Enabled)

	p, err := f.BuildModel()
	require.NoError(t, err)
	assert.Equal(t, 11, p.Model.Dims().NX)
	assert.Equal(t, 3, p.Model.Dims().NY)

	opts := f.EquilibriumOptions(zerolog.Nop())
	assert.Equal(t, equilibrium.Damped, opts.Method)
	assert.Equal(t, 0.95, opts.Damping)
	assert.Equal(t, equilibrium.DefaultTol, opts.Tol)
	assert.NotEmpty(t, opts.Solver)

	e, err := f.BuildEconomy()
	require.NoError(t, err)
	assert.Equal(t, 0.36, e.Firm().Alpha)
	assert.Equal(t, 7.5, f.Guess(e))
}

func TestParse_Empty(t *testing.T) {
	f, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), f)

	p, err := f.BuildModel()
	require.NoError(t, err)
	assert.Equal(t, 200, p.Model.Dims().NX)

	e, err := f.BuildEconomy()
	require.NoError(t, err)
	assert.InDelta(t, 1.25*e.StabilityFrontier(), f.Guess(e), 1e-12)
}

func TestEquilibriumOptions_Damping(t *testing.T) {
	f, err := config.Parse([]byte("equilibrium:\n  method: damped\n  damping: 0\n"))
	require.NoError(t, err)
	assert.Zero(t, f.EquilibriumOptions(zerolog.Nop()).Damping, "explicit zero is kept")

	f, err = config.Parse([]byte("equilibrium:\n  method: damped\n"))
	require.NoError(t, err)
	assert.Equal(t, equilibrium.DefaultDamping, f.EquilibriumOptions(zerolog.Nop()).Damping)
}

func TestParse_Household(t *testing.T) {
	f, err := config.Parse([]byte("model:\n  kind: household\n  r: 0.02\n"))
	require.NoError(t, err)
	p, err := f.BuildModel()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Model.Dims().NY)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "model:\n  kind: savings\n  colour: red\n",
		"bad kind":          "model:\n  kind: lottery\n",
		"bad algorithm":     "solver:\n  algorithm: newton\n",
		"negative tol":      "solver:\n  tolerance: -1\n",
		"bad method":        "equilibrium:\n  method: secant\n",
		"damping one":       "equilibrium:\n  damping: 1\n",
		"negative damping":  "equilibrium:\n  damping: -0.1\n",
		"bad level":         "logging:\n  level: loud\n",
		"nested params":     "model:\n  savings:\n    beta: 1.5\n    grid_size: 10\n    r: 1\n    w_max: 1\n",
		"negative bucket":   "metrics:\n  buckets: [0.1, -1]\n",
		"malformed":         "model: [",
		"rate below minus1": "model:\n  r: -2\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	f, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "inventory", f.Model.Kind)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSolverOptions_Defaults(t *testing.T) {
	assert.Len(t, config.SolverConfig{}.Options(), 2)
	assert.Len(t, config.SolverConfig{Tolerance: 1e-6, MaxIter: 10, Steps: 5, KrylovMaxIter: 50}.Options(), 6)
}
