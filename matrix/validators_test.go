// Package matrix_test contains unit tests for the matrix validators.
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/bellman/matrix"
	"github.com/stretchr/testify/require"
)

// TestValidateRowStochastic covers nil, shape, sign, sum and NaN failures.
func TestValidateRowStochastic(t *testing.T) {
	t.Parallel()

	mk := func(rows [][]float64) matrix.Matrix {
		m, err := matrix.NewDenseFromRows(rows)
		require.NoError(t, err)
		return m
	}
	var nilDense *matrix.Dense

	tests := []struct {
		name    string
		m       matrix.Matrix
		wantErr error
	}{
		{"nil", nil, matrix.ErrNilMatrix},
		{"typed nil", nilDense, matrix.ErrNilMatrix},
		{"non-square", mk([][]float64{{0.5, 0.5}}), matrix.ErrDimensionMismatch},
		{"valid 2x2", mk([][]float64{{0.9, 0.1}, {0.1, 0.9}}), nil},
		{"identity", mk([][]float64{{1, 0}, {0, 1}}), nil},
		{"negative entry", mk([][]float64{{1.1, -0.1}, {0.5, 0.5}}), matrix.ErrNotStochastic},
		{"row sum below one", mk([][]float64{{0.5, 0.4}, {0.5, 0.5}}), matrix.ErrNotStochastic},
		{"NaN entry", mk([][]float64{{math.NaN(), 1}, {0.5, 0.5}}), matrix.ErrNaNInf},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateRowStochastic(tc.m, matrix.StochasticTol)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Truef(t, errors.Is(err, tc.wantErr),
					"expected errors.Is(%v, %v)", err, tc.wantErr)
			}
		})
	}
}

// TestValidateVecLen covers nil and mismatched vectors.
func TestValidateVecLen(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, matrix.ValidateVecLen(nil, 2), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
	require.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
}

// TestValidateFiniteVec rejects NaN and Inf entries.
func TestValidateFiniteVec(t *testing.T) {
	t.Parallel()

	require.NoError(t, matrix.ValidateFiniteVec([]float64{0, -1, 2}))
	require.ErrorIs(t, matrix.ValidateFiniteVec([]float64{0, math.Inf(-1)}), matrix.ErrNaNInf)
	require.ErrorIs(t, matrix.ValidateFiniteVec([]float64{math.NaN()}), matrix.ErrNaNInf)
}
