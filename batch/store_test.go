package batch_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/batch"
	"github.com/katalvlaran/tspforge/tsp"
)

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ck.db")
	s, err := batch.OpenStore(path)
	require.NoError(t, err)

	in := tsp.Result{
		Tour:         []int{0, 3, 1, 2, 0},
		Distance:     17.25,
		Strategy:     tsp.Beam,
		Iterations:   3,
		Improvements: 1,
		Fallbacks:    []string{"exact: tsp: instance exceeds solver ceiling"},
	}
	require.NoError(t, s.Save("r1", 7, in))
	require.NoError(t, s.Save("r2", 0, tsp.Result{Tour: []int{0, 0}}))

	out, ok, err := s.Load("r1", 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in, out)

	_, ok, err = s.Load("r1", 8)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = s.Load("nope", 0)
	require.NoError(t, err)
	require.False(t, ok)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Equal(t, []string{"r1", "r2"}, runs)

	require.NoError(t, s.Delete("r1"))
	require.NoError(t, s.Delete("r1"))
	runs, err = s.Runs()
	require.NoError(t, err)
	require.Equal(t, []string{"r2"}, runs)

	// Reopen: data survives Close.
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, _, err = s.Load("r2", 0)
	require.ErrorIs(t, err, batch.ErrStoreClosed)

	s, err = batch.OpenStore(path)
	require.NoError(t, err)
	defer s.Close()
	out, ok, err = s.Load("r2", 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int{0, 0}, out.Tour)
}
