package dp_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewModel_Validation covers every construction-time rejection.
func TestNewModel_Validation(t *testing.T) {
	q, err := matrix.NewDenseFromRows([][]float64{{0.5, 0.5}, {0.2, 0.8}})
	require.NoError(t, err)
	skewed, err := matrix.NewDenseFromRows([][]float64{{0.5, 0.6}, {0.2, 0.8}})
	require.NoError(t, err)
	ok := func(_, _, _ int) float64 { return 1 }
	dims := dp.Dims{NX: 3, NY: 2, NA: 3}

	cases := []struct {
		name string
		spec dp.Spec
		want []error
	}{
		{"beta zero", dp.Spec{Beta: 0, Dims: dims, Q: q, Reward: ok}, []error{dp.ErrInvalidModel}},
		{"beta one", dp.Spec{Beta: 1, Dims: dims, Q: q, Reward: ok}, []error{dp.ErrInvalidModel}},
		{"beta NaN", dp.Spec{Beta: math.NaN(), Dims: dims, Q: q, Reward: ok}, []error{dp.ErrInvalidModel}},
		{"empty grid", dp.Spec{Beta: 0.9, Dims: dp.Dims{NX: 0, NY: 2, NA: 3}, Q: q, Reward: ok}, []error{dp.ErrInvalidModel}},
		{"nil reward", dp.Spec{Beta: 0.9, Dims: dims, Q: q}, []error{dp.ErrInvalidModel}},
		{"nil kernel", dp.Spec{Beta: 0.9, Dims: dims, Reward: ok}, []error{dp.ErrInvalidModel}},
		{"kernel size", dp.Spec{Beta: 0.9, Dims: dp.Dims{NX: 3, NY: 3, NA: 3}, Q: q, Reward: ok},
			[]error{dp.ErrInvalidModel, matrix.ErrDimensionMismatch}},
		{"not stochastic", dp.Spec{Beta: 0.9, Dims: dims, Q: skewed, Reward: ok},
			[]error{dp.ErrInvalidModel, matrix.ErrNotStochastic}},
		{"NA != NX without Next", dp.Spec{Beta: 0.9, Dims: dp.Dims{NX: 3, NY: 2, NA: 2}, Q: q, Reward: ok},
			[]error{dp.ErrInvalidModel}},
		{"NaN reward", dp.Spec{Beta: 0.9, Dims: dims, Q: q, Reward: func(_, _, _ int) float64 { return math.NaN() }},
			[]error{dp.ErrInvalidModel}},
		{"+Inf reward", dp.Spec{Beta: 0.9, Dims: dims, Q: q, Reward: func(_, _, _ int) float64 { return math.Inf(1) }},
			[]error{dp.ErrInvalidModel}},
		{"next out of range", dp.Spec{Beta: 0.9, Dims: dims, Q: q, Reward: ok, Next: func(_, _, a int) int { return a + 1 }},
			[]error{dp.ErrInvalidModel}},
		{"no feasible action", dp.Spec{Beta: 0.9, Dims: dims, Q: q, Reward: func(i, _, _ int) float64 {
			if i == 2 {
				return math.Inf(-1)
			}
			return 0
		}}, []error{dp.ErrNoFeasibleAction}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := dp.NewModel(tc.spec)
			assert.Nil(t, m)
			for _, want := range tc.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

// TestNewModel_Accessors checks tabulation and kernel isolation.
func TestNewModel_Accessors(t *testing.T) {
	m := tiny(t)
	assert.Equal(t, 0.5, m.Beta())
	assert.Equal(t, dp.Dims{NX: 2, NY: 1, NA: 2}, m.Dims())
	assert.Equal(t, 1.5, m.Reward(0, 0, 0))
	assert.Equal(t, 1, m.Next(1, 0, 1))
	assert.False(t, m.Feasible(1, 0, 0))
	assert.True(t, m.Feasible(1, 0, 1))

	k := m.Kernel()
	require.NoError(t, k.Set(0, 0, 7))
	again := m.Kernel()
	v, err := again.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v, "Kernel must return a copy")
}

// TestDims_IndexSplit round-trips the flat layout.
func TestDims_IndexSplit(t *testing.T) {
	d := dp.Dims{NX: 4, NY: 3, NA: 4}
	assert.Equal(t, 12, d.States())
	for i := 0; i < d.NX; i++ {
		for j := 0; j < d.NY; j++ {
			s := d.Index(i, j)
			gi, gj := d.Split(s)
			assert.Equal(t, i, gi)
			assert.Equal(t, j, gj)
		}
	}
}
