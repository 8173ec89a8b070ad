package matrix_test

import (
	"testing"

	"github.com/katalvlaran/bellman/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hidden wraps a Dense so kernels take the interface fallback path.
type hidden struct{ matrix.Matrix }

// TestMatVec_FastAndFallback checks both code paths agree.
func TestMatVec_FastAndFallback(t *testing.T) {
	t.Parallel()
	m, err := matrix.NewDenseFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	x := []float64{1, 0, -1}

	y, err := matrix.MatVec(m, x)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, y)

	y2, err := matrix.MatVec(hidden{m}, x)
	require.NoError(t, err)
	assert.Equal(t, y, y2)

	_, err = matrix.MatVec(m, []float64{1, 2})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestVecMat pushes a distribution through a stochastic kernel.
func TestVecMat(t *testing.T) {
	t.Parallel()
	p, err := matrix.NewDenseFromRows([][]float64{{0.9, 0.1}, {0.2, 0.8}})
	require.NoError(t, err)

	y, err := matrix.VecMat([]float64{0.5, 0.5}, p)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.55, 0.45}, y, 1e-15)

	y2, err := matrix.VecMat([]float64{0.5, 0.5}, hidden{p})
	require.NoError(t, err)
	assert.InDeltaSlice(t, y, y2, 1e-15)

	_, err = matrix.VecMat([]float64{1}, p)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestTranspose swaps rows and columns without mutating the input.
func TestTranspose(t *testing.T) {
	t.Parallel()
	m, err := matrix.NewDenseFromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	tr, err := matrix.Transpose(m)
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Data())

	tr2, err := matrix.Transpose(hidden{m})
	require.NoError(t, err)
	assert.Equal(t, tr.Data(), tr2.Data())

	_, err = matrix.Transpose(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMaxAbsDiff is the sup-norm used for convergence checks.
func TestMaxAbsDiff(t *testing.T) {
	t.Parallel()
	d, err := matrix.MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 1})
	require.NoError(t, err)
	assert.Equal(t, 2.0, d)

	d, err = matrix.MaxAbsDiff([]float64{}, []float64{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	_, err = matrix.MaxAbsDiff([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
