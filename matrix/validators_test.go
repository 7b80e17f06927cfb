// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the distance validators.
package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/tspforge/matrix"
	"github.com/stretchr/testify/require"
)

func mustDenseFrom(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// TestValidateDistance walks every rejection reason plus the accepted shapes.
func TestValidateDistance(t *testing.T) {
	t.Parallel()

	nonSquare, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	tests := []struct {
		name      string
		m         matrix.Matrix
		symmetric bool
		wantErr   error
		row, col  int
	}{
		{"nil", nil, false, matrix.ErrNilMatrix, -1, -1},
		{"non-square", nonSquare, false, matrix.ErrNonSquare, -1, -1},
		{"single node", mustDenseFrom(t, [][]float64{{0}}), false, matrix.ErrTooSmall, -1, -1},
		{"NaN", mustDenseFrom(t, [][]float64{{0, math.NaN()}, {1, 0}}), false, matrix.ErrNaNInf, 0, 1},
		{"Inf", mustDenseFrom(t, [][]float64{{0, 1}, {math.Inf(1), 0}}), false, matrix.ErrNaNInf, 1, 0},
		{"diagonal", mustDenseFrom(t, [][]float64{{0, 1}, {1, 2}}), false, matrix.ErrNonZeroDiagonal, 1, 1},
		{"negative", mustDenseFrom(t, [][]float64{{0, -1}, {1, 0}}), false, matrix.ErrNegativeWeight, 0, 1},
		{"asymmetric required", mustDenseFrom(t, [][]float64{{0, 1}, {2, 0}}), true, matrix.ErrAsymmetry, 0, 1},
		{"asymmetric allowed", mustDenseFrom(t, [][]float64{{0, 1}, {2, 0}}), false, nil, 0, 0},
		{"symmetric", mustDenseFrom(t, [][]float64{{0, 3, 4}, {3, 0, 5}, {4, 5, 0}}), true, nil, 0, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := matrix.ValidateDistance(tc.m, tc.symmetric)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)

			var ve *matrix.ValidationError
			require.True(t, errors.As(err, &ve))
			require.Equal(t, tc.row, ve.Row)
			require.Equal(t, tc.col, ve.Col)
			require.NotEmpty(t, ve.Reason)
		})
	}
}

// TestIsSymmetric checks tolerance handling and non-Dense storages.
func TestIsSymmetric(t *testing.T) {
	t.Parallel()

	sym := mustDenseFrom(t, [][]float64{{0, 2, 3}, {2, 0, 4}, {3, 4, 0}})
	require.True(t, matrix.IsSymmetric(sym, 0))

	near := mustDenseFrom(t, [][]float64{{0, 2}, {2 + 1e-12, 0}})
	require.True(t, matrix.IsSymmetric(near, 1e-9))
	require.False(t, matrix.IsSymmetric(near, 0))

	d32, err := matrix.Downcast(sym)
	require.NoError(t, err)
	require.True(t, matrix.IsSymmetric(d32, 0))

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	require.False(t, matrix.IsSymmetric(rect, 0))
	require.False(t, matrix.IsSymmetric(nil, 0))
}
