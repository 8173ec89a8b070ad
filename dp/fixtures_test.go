package dp_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/matrix"
	"github.com/stretchr/testify/require"
)

// savings is a household choosing next-period wealth w' on a grid given
// wealth w and income y: c = R·w + y − w', u(c) = c^(1−γ)/(1−γ).
type savings struct {
	grid   []float64
	income []float64
	model  *dp.Model
}

func newSavings(t *testing.T, n int) savings {
	t.Helper()
	const (
		beta  = 0.96
		r     = 1.01
		gamma = 2.0
		wMax  = 20.0
	)
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = wMax * float64(i) / float64(n-1)
	}
	income := []float64{0.5, 1.5}
	q, err := matrix.NewDenseFromRows([][]float64{{0.9, 0.1}, {0.1, 0.9}})
	require.NoError(t, err)

	m, err := dp.NewModel(dp.Spec{
		Beta: beta,
		Dims: dp.Dims{NX: n, NY: 2, NA: n},
		Q:    q,
		Reward: func(i, j, a int) float64 {
			c := r*grid[i] + income[j] - grid[a]
			if c <= 0 {
				return math.Inf(-1)
			}
			return math.Pow(c, 1-gamma) / (1 - gamma)
		},
	})
	require.NoError(t, err)

	return savings{grid: grid, income: income, model: m}
}

// tiny is a hand-checkable model: NX=2, NY=1, β=0.5, action = next index,
// action 0 infeasible in state 1.
//
//	r(0,0,·) = [1.5, 0.5], r(1,0,·) = [−∞, 2]
func tiny(t *testing.T) *dp.Model {
	t.Helper()
	q, err := matrix.NewDenseFromRows([][]float64{{1}})
	require.NoError(t, err)
	rewards := [][]float64{{1.5, 0.5}, {math.Inf(-1), 2}}

	m, err := dp.NewModel(dp.Spec{
		Beta:   0.5,
		Dims:   dp.Dims{NX: 2, NY: 1, NA: 2},
		Q:      q,
		Reward: func(i, _, a int) float64 { return rewards[i][a] },
	})
	require.NoError(t, err)
	return m
}

// halving moves from grid index i to i/2, which is feasible in savings.
func halving(d dp.Dims) []int {
	sigma := make([]int, d.States())
	for s := range sigma {
		i, _ := d.Split(s)
		sigma[s] = i / 2
	}
	return sigma
}

func constant(n int, c float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = c
	}
	return v
}

func supDist(a, b []float64) float64 {
	var d float64
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}
