//go:build unix

package memopt_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/memopt"
	"github.com/katalvlaran/tspforge/tsp"
)

func TestMapped_Lookups(t *testing.T) {
	t.Parallel()

	for _, packed := range []bool{true, false} {
		m := instance(t, 25)
		if !packed {
			m = asymmetric(t, 25)
		}
		dir := t.TempDir()
		mp, err := memopt.NewMapped(m, packed, dir)
		require.NoError(t, err)
		require.Equal(t, packed, mp.Packed())
		require.Equal(t, dir, filepath.Dir(mp.Path()))
		requireSameLookups(t, m, mp)

		flat := make([]float64, 25*25)
		require.NoError(t, mp.FlattenInto(flat))
		require.InDelta(t, m.Raw()[27], flat[27], f32Tol)

		cl := mp.Clone()
		requireSameLookups(t, m, cl)
		require.ErrorIs(t, mp.Set(0, 1, 3), matrix.ErrReadOnly)
		_, err = mp.At(25, 0)
		require.ErrorIs(t, err, matrix.ErrOutOfRange)

		path := mp.Path()
		require.NoError(t, mp.Close())
		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))

		// The heap clone outlives the mapping.
		requireSameLookups(t, m, cl)
	}
}

func TestOptimize_MapsOverBudget(t *testing.T) {
	t.Parallel()

	m := instance(t, 60)
	dir := t.TempDir()
	o, _ := newOptimizer(t, memopt.Config{ThresholdBytes: 1, BudgetBytes: 1024, Dir: dir})

	res, err := o.Optimize(m)
	require.NoError(t, err)
	require.Equal(t, []memopt.Step{memopt.StepFloat32, memopt.StepTriangular, memopt.StepMmap}, res.Steps)
	require.Equal(t, int64(matrix.PackedLen(60))*4, res.Bytes)
	require.Zero(t, o.InUse(), "mapped storage is not charged to the heap budget")

	sol, err := tsp.Solve(res.Matrix, tsp.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, tsp.ValidateTour(sol.Tour, 60, 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, res.Close())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
