// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/matrix"
)

func TestMetricClosure(t *testing.T) {
	t.Parallel()

	inf := math.Inf(1)
	// A path graph 0-1-2-3 with one shortcut 0→3 that is longer than the path.
	in, err := matrix.NewDenseFrom([][]float64{
		{0, 1, inf, 10},
		{1, 0, 2, inf},
		{inf, 2, 0, 3},
		{10, inf, 3, 0},
	})
	require.NoError(t, err)

	out, err := matrix.MetricClosure(in)
	require.NoError(t, err)

	want := [][]float64{
		{0, 1, 3, 6},
		{1, 0, 2, 5},
		{3, 2, 0, 3},
		{6, 5, 3, 0},
	}
	for i := range want {
		for j := range want[i] {
			v, err := out.At(i, j)
			require.NoError(t, err)
			require.Equal(t, want[i][j], v, "(%d,%d)", i, j)
		}
	}

	// Input untouched.
	v, err := in.At(0, 2)
	require.NoError(t, err)
	require.True(t, math.IsInf(v, 1))

	ok, err := matrix.Reachable(out)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = matrix.Reachable(in)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMetricClosure_Errors(t *testing.T) {
	t.Parallel()

	neg, err := matrix.NewDenseFrom([][]float64{{0, -1}, {1, 0}})
	require.NoError(t, err)
	_, err = matrix.MetricClosure(neg)
	require.ErrorIs(t, err, matrix.ErrNegativeWeight)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = matrix.MetricClosure(rect)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

func TestFromPoints(t *testing.T) {
	t.Parallel()

	m, err := matrix.FromPoints([]matrix.Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 0, Y: 4}})
	require.NoError(t, err)
	v, err := m.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)
	require.NoError(t, matrix.ValidateDistance(m, true))

	_, err = matrix.FromPoints([]matrix.Point{{X: 1}})
	require.ErrorIs(t, err, matrix.ErrTooSmall)
	_, err = matrix.FromPoints([]matrix.Point{{X: 1}, {X: math.NaN()}})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}
