package dp_test

import (
	"context"
	"errors"
	"testing"

	"github.com/katalvlaran/bellman/dp"
	"github.com/katalvlaran/bellman/matrix"
	"github.com/katalvlaran/bellman/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValueIteration_UniqueFixedPoint starts VFI from zeros and from ones.
func TestValueIteration_UniqueFixedPoint(t *testing.T) {
	s := newSavings(t, 40)
	n := s.model.Dims().States()
	ctx := context.Background()

	a, err := dp.ValueIteration(ctx, s.model, dp.WithTolerance(1e-8))
	require.NoError(t, err)
	b, err := dp.ValueIteration(ctx, s.model, dp.WithTolerance(1e-8), dp.WithInitialValue(constant(n, 1)))
	require.NoError(t, err)

	assert.True(t, a.Converged)
	assert.True(t, b.Converged)
	assert.InDeltaSlice(t, a.Value, b.Value, 1e-5)
	assert.Equal(t, a.Policy, b.Policy)
}

// TestAlgorithms_Agree requires exact policy equality and matching values
// for VFI, HPI and OPI with several step counts.
func TestAlgorithms_Agree(t *testing.T) {
	inv, err := models.NewInventory(models.DefaultInventoryParams())
	require.NoError(t, err)
	problems := map[string]*dp.Model{
		"savings":   newSavings(t, 25).model,
		"inventory": inv.Model, // state-dependent infeasibility, custom next state
	}
	runs := map[string][]dp.Option{
		"vfi":     {dp.WithAlgorithm(dp.VFI), dp.WithTolerance(1e-9)},
		"opi m1":  {dp.WithAlgorithm(dp.OPI), dp.WithTolerance(1e-9), dp.WithSteps(1)},
		"opi m10": {dp.WithAlgorithm(dp.OPI), dp.WithTolerance(1e-9), dp.WithSteps(10)},
		"opi m50": {dp.WithAlgorithm(dp.OPI), dp.WithTolerance(1e-9), dp.WithSteps(50)},
	}
	ctx := context.Background()

	for pname, m := range problems {
		ref, err := dp.PolicyIteration(ctx, m)
		require.NoError(t, err, pname)
		require.True(t, ref.Converged, pname)

		for name, opts := range runs {
			t.Run(pname+"/"+name, func(t *testing.T) {
				res, err := dp.Solve(ctx, m, append(opts, dp.WithMaxIter(20000))...)
				require.NoError(t, err)
				assert.True(t, res.Converged)
				assert.Equal(t, ref.Policy, res.Policy)
				assert.InDeltaSlice(t, ref.Value, res.Value, 1e-6)
			})
		}
	}
}

// TestOPI_OneStepIsVFI checks that m = 1 reproduces the VFI iterates.
func TestOPI_OneStepIsVFI(t *testing.T) {
	s := newSavings(t, 20)
	ctx := context.Background()

	vfi, err := dp.ValueIteration(ctx, s.model, dp.WithMaxIter(7))
	require.ErrorIs(t, err, dp.ErrNotConverged)
	opi, err := dp.OptimisticPolicyIteration(ctx, s.model, dp.WithMaxIter(7), dp.WithSteps(1))
	require.ErrorIs(t, err, dp.ErrNotConverged)

	assert.Equal(t, vfi.Value, opi.Value)
	assert.Equal(t, vfi.Policy, opi.Policy)
}

// TestHPI_FewIterations converges in far fewer outer steps than VFI.
func TestHPI_FewIterations(t *testing.T) {
	s := newSavings(t, 40)
	ctx := context.Background()

	hpi, err := dp.PolicyIteration(ctx, s.model)
	require.NoError(t, err)
	vfi, err := dp.ValueIteration(ctx, s.model)
	require.NoError(t, err)

	assert.Less(t, hpi.Iterations, vfi.Iterations)
	assert.Equal(t, 0.0, hpi.Error)
	assert.Equal(t, dp.HPI, hpi.Algorithm)
}

// TestSavings_Scenario uses the 200-point grid: VFI and HPI agree within one
// grid step and the high-income policy crosses the 45° line strictly inside
// the grid.
func TestSavings_Scenario(t *testing.T) {
	s := newSavings(t, 200)
	ctx := context.Background()

	vfi, err := dp.ValueIteration(ctx, s.model)
	require.NoError(t, err)
	hpi, err := dp.PolicyIteration(ctx, s.model)
	require.NoError(t, err)

	for st := range vfi.Policy {
		diff := vfi.Policy[st] - hpi.Policy[st]
		assert.True(t, diff >= -1 && diff <= 1, "state %d: vfi=%d hpi=%d", st, vfi.Policy[st], hpi.Policy[st])
	}

	const high = 1
	crossing := -1
	for i := range s.grid {
		if _, a := hpi.At(i, high); a >= i {
			crossing = i
		}
	}
	require.GreaterOrEqual(t, crossing, 0)
	assert.Greater(t, s.grid[crossing], 0.0)
	assert.Less(t, s.grid[crossing], s.grid[len(s.grid)-1])
}

// TestSolve_NotConverged returns the last iterate with an explicit error.
func TestSolve_NotConverged(t *testing.T) {
	s := newSavings(t, 20)
	n := s.model.Dims().States()

	for _, algo := range []dp.Algorithm{dp.VFI, dp.HPI, dp.OPI} {
		res, err := dp.Solve(context.Background(), s.model, dp.WithAlgorithm(algo), dp.WithMaxIter(1))
		assert.ErrorIs(t, err, dp.ErrNotConverged, algo.String())
		require.NotNil(t, res)
		assert.False(t, res.Converged)
		assert.Equal(t, 1, res.Iterations)
		assert.Len(t, res.Value, n)
		assert.Len(t, res.Policy, n)
	}
}

// TestPolicyIteration_KrylovFailure is reported apart from DP non-convergence.
func TestPolicyIteration_KrylovFailure(t *testing.T) {
	s := newSavings(t, 40)

	res, err := dp.PolicyIteration(context.Background(), s.model, dp.WithKrylov(1e-14, 1))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, dp.ErrPolicyEvaluation)
	assert.ErrorIs(t, err, matrix.ErrKrylovNotConverged)
	assert.False(t, errors.Is(err, dp.ErrNotConverged))
}

// TestSolve_Cancelled does not start an iteration on a cancelled context.
func TestSolve_Cancelled(t *testing.T) {
	s := newSavings(t, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	obs := dp.ObserverFunc(func(dp.Iteration) { calls++ })
	for _, algo := range []dp.Algorithm{dp.VFI, dp.HPI, dp.OPI} {
		res, err := dp.Solve(ctx, s.model, dp.WithAlgorithm(algo), dp.WithObserver(obs))
		assert.Nil(t, res)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Zero(t, calls)
}

// TestSolve_Observer receives one record per outer iteration.
func TestSolve_Observer(t *testing.T) {
	s := newSavings(t, 20)
	var got []dp.Iteration
	obs := dp.ObserverFunc(func(it dp.Iteration) { got = append(got, it) })

	res, err := dp.Solve(context.Background(), s.model, dp.WithAlgorithm(dp.OPI), dp.WithObserver(obs))
	require.NoError(t, err)
	require.Len(t, got, res.Iterations)
	for k, it := range got {
		assert.Equal(t, dp.OPI, it.Algorithm)
		assert.Equal(t, k+1, it.Index)
	}
	assert.Equal(t, res.Error, got[len(got)-1].Error)
}

// TestSolve_Workers gives identical results sequentially and in parallel.
func TestSolve_Workers(t *testing.T) {
	s := newSavings(t, 120)
	ctx := context.Background()

	seq, err := dp.ValueIteration(ctx, s.model, dp.WithWorkers(1))
	require.NoError(t, err)
	par, err := dp.ValueIteration(ctx, s.model, dp.WithWorkers(4))
	require.NoError(t, err)
	assert.Equal(t, seq.Value, par.Value)
	assert.Equal(t, seq.Policy, par.Policy)
}

// TestSolve_InitialValueLength rejects a wrongly sized v₀.
func TestSolve_InitialValueLength(t *testing.T) {
	s := newSavings(t, 20)
	_, err := dp.ValueIteration(context.Background(), s.model, dp.WithInitialValue([]float64{1, 2}))
	assert.ErrorIs(t, err, dp.ErrDimensionMismatch)

	_, err = dp.Solve(context.Background(), nil)
	assert.ErrorIs(t, err, dp.ErrInvalidModel)
}

// TestOptions_Panics on nonsensical values.
func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { dp.WithTolerance(0) })
	assert.Panics(t, func() { dp.WithTolerance(-1) })
	assert.Panics(t, func() { dp.WithMaxIter(0) })
	assert.Panics(t, func() { dp.WithSteps(0) })
	assert.Panics(t, func() { dp.WithWorkers(-1) })
	assert.Panics(t, func() { dp.WithKrylov(0, 10) })
	assert.NotPanics(t, func() { dp.WithWorkers(0) })
}

// TestParseAlgorithm round-trips names.
func TestParseAlgorithm(t *testing.T) {
	for _, a := range []dp.Algorithm{dp.VFI, dp.HPI, dp.OPI} {
		got, ok := dp.ParseAlgorithm(a.String())
		assert.True(t, ok)
		assert.Equal(t, a, got)
	}
	_, ok := dp.ParseAlgorithm("newton")
	assert.False(t, ok)
}
