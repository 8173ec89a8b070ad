package markov_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/bellman/markov"
	"github.com/katalvlaran/bellman/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomStochastic builds a strictly positive n×n row-stochastic matrix.
func randomStochastic(t *testing.T, rng *rand.Rand, n int) *matrix.Dense {
	t.Helper()
	p, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		row := p.RawRow(i)
		var sum float64
		for j := range row {
			row[j] = rng.Float64() + 1e-3
			sum += row[j]
		}
		for j := range row {
			row[j] /= sum
		}
	}
	require.NoError(t, matrix.ValidateRowStochastic(p, matrix.StochasticTol))
	return p
}

// TestStationary_TwoState matches the closed form (b, a)/(a+b).
func TestStationary_TwoState(t *testing.T) {
	t.Parallel()
	p, err := matrix.NewDenseFromRows([][]float64{{0.9, 0.1}, {0.2, 0.8}})
	require.NoError(t, err)

	psi, err := markov.Stationary(p)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 1.0 / 3}, psi, 1e-12)
}

// TestStationary_RandomKernels checks Σψ = 1, ψ ≥ −ε and ψ ≈ ψP.
func TestStationary_RandomKernels(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 5, 17, 60} {
		p := randomStochastic(t, rng, n)

		psi, err := markov.Stationary(p)
		require.NoError(t, err, "n=%d", n)

		var sum float64
		for _, v := range psi {
			assert.GreaterOrEqual(t, v, -1e-12)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-10)

		next, err := matrix.VecMat(psi, p)
		require.NoError(t, err)
		assert.InDeltaSlice(t, psi, next, 1e-10, "n=%d", n)
	}
}

// TestStationary_Preconditions rejects non-stochastic input without repair.
func TestStationary_Preconditions(t *testing.T) {
	t.Parallel()
	bad, err := matrix.NewDenseFromRows([][]float64{{0.5, 0.6}, {0.5, 0.5}})
	require.NoError(t, err)
	_, err = markov.Stationary(bad)
	assert.ErrorIs(t, err, matrix.ErrNotStochastic)

	_, err = markov.Stationary(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestStationary_Reducible reports chains without a unique distribution.
func TestStationary_Reducible(t *testing.T) {
	t.Parallel()
	id, err := matrix.Identity(2)
	require.NoError(t, err)

	_, err = markov.Stationary(id)
	assert.ErrorIs(t, err, markov.ErrSingular)
	assert.ErrorContains(t, err, "2 recurrent classes")
}

// gamblersRuin is a 5-state walk absorbed at both ends.
func gamblersRuin(t *testing.T) *matrix.Dense {
	t.Helper()
	p, err := matrix.NewDenseFromRows([][]float64{
		{1, 0, 0, 0, 0},
		{0.5, 0, 0.5, 0, 0},
		{0, 0.5, 0, 0.5, 0},
		{0, 0, 0.5, 0, 0.5},
		{0, 0, 0, 0, 1},
	})
	require.NoError(t, err)
	return p
}

// TestReach gives breadth-first depths and parents on the support graph.
func TestReach(t *testing.T) {
	t.Parallel()
	p := gamblersRuin(t)

	res, err := markov.Reach(p, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 3, 0, 4}, res.Order)
	assert.Equal(t, []int{2, 1, 0, 1, 2}, res.Depth)
	assert.Equal(t, []int{1, 2, -1, 2, 3}, res.Parent)

	res, err = markov.Reach(p, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Order)
	assert.True(t, res.Reached(0))
	assert.False(t, res.Reached(4))

	_, err = markov.Reach(p, 5)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = markov.Reach(nil, 0)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestClasses separates the absorbing ends from the transient middle.
func TestClasses(t *testing.T) {
	t.Parallel()
	classes, err := markov.Classes(gamblersRuin(t))
	require.NoError(t, err)
	assert.Equal(t, []markov.Class{
		{States: []int{0}, Closed: true},
		{States: []int{1, 2, 3}, Closed: false},
		{States: []int{4}, Closed: true},
	}, classes)
	assert.Len(t, markov.Recurrent(classes), 2)

	irreducible, err := markov.Classes(randomStochastic(t, rand.New(rand.NewSource(3)), 6))
	require.NoError(t, err)
	require.Len(t, irreducible, 1)
	assert.True(t, irreducible[0].Closed)
	assert.Len(t, irreducible[0].States, 6)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = markov.Classes(rect)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestTauchen checks grid symmetry and stochastic rows.
func TestTauchen(t *testing.T) {
	t.Parallel()
	grid, q, err := markov.Tauchen(7, 0.9, 0.1, 3)
	require.NoError(t, err)
	require.Len(t, grid, 7)
	assert.InDelta(t, -grid[6], grid[0], 1e-15)
	assert.InDelta(t, 0.0, grid[3], 1e-15)
	require.NoError(t, matrix.ValidateRowStochastic(q, matrix.StochasticTol))

	// Persistence: the middle state mostly stays near the middle.
	mid, err := q.Row(3)
	require.NoError(t, err)
	assert.Greater(t, mid[3], mid[0])
	assert.InDelta(t, mid[2], mid[4], 1e-12)

	_, _, err = markov.Tauchen(1, 0.9, 0.1, 3)
	assert.ErrorIs(t, err, markov.ErrInvalidParams)
	_, _, err = markov.Tauchen(5, 1, 0.1, 3)
	assert.ErrorIs(t, err, markov.ErrInvalidParams)
	_, _, err = markov.Tauchen(5, 0.5, 0, 3)
	assert.ErrorIs(t, err, markov.ErrInvalidParams)
}

// TestMeanGiniMarginal covers the distribution statistics.
func TestMeanGiniMarginal(t *testing.T) {
	t.Parallel()
	m, err := markov.Mean([]float64{1, 3}, []float64{0.25, 0.75})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, m, 1e-15)

	g, err := markov.Gini([]float64{2, 2, 2}, []float64{1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, g, 1e-15)

	g, err = markov.Gini([]float64{1, 0}, []float64{0.5, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, g, 1e-15)

	_, err = markov.Gini([]float64{0, 0}, []float64{1, 1})
	assert.ErrorIs(t, err, markov.ErrDegenerate)

	marg, err := markov.MarginalX([]float64{0.1, 0.2, 0.3, 0.4}, 2, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3, 0.7}, marg, 1e-15)

	_, err = markov.MarginalX([]float64{1}, 2, 2)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
