package tsp_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/tsp"
)

// classic4 has the unique optimal cycle 0-1-3-2-0 of length 80.
var classic4 = [][]float64{
	{0, 10, 15, 20},
	{10, 0, 35, 25},
	{15, 35, 0, 30},
	{20, 25, 30, 0},
}

func TestSolveExact_Classic4(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDenseFrom(classic4)
	require.NoError(t, err)

	res, err := tsp.SolveExact(m, tsp.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 80.0, res.Distance)
	require.True(t, res.Optimal)
	require.Equal(t, tsp.Exact, res.Strategy)
	requireTour(t, m, res)
}

func TestSolveExact_TwoNodes(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDenseFrom([][]float64{{0, 3}, {4, 0}})
	require.NoError(t, err)
	res, err := tsp.SolveExact(m, tsp.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 0}, res.Tour)
	require.Equal(t, 7.0, res.Distance)
}

// TestSolveExact_MatchesBruteForce compares Held–Karp with full enumeration on
// symmetric and asymmetric instances.
func TestSolveExact_MatchesBruteForce(t *testing.T) {
	t.Parallel()

	for n := 3; n <= 9; n++ {
		for _, kind := range []string{"euclid", "asym"} {
			n, kind := n, kind
			t.Run(fmt.Sprintf("%s/n=%d", kind, n), func(t *testing.T) {
				t.Parallel()
				var m *matrix.Dense
				if kind == "euclid" {
					m = euclid(t, n, int64(100+n))
				} else {
					m = asym(t, n, int64(200+n))
				}
				res, err := tsp.SolveExact(m, tsp.DefaultOptions())
				require.NoError(t, err)
				requireTour(t, m, res)
				require.InDelta(t, bruteForce(t, m), res.Distance, epsTiny)
			})
		}
	}
}

// TestSolveExact_Circle20 covers the 20-node seeded Euclidean scenario.
// Brute force over 19! orders is out of reach, so the instance stands in with
// points in convex position, whose optimum is known to be the circle order.
// A uniformly random 20-node instance is then bracketed between the 1-tree
// lower bound and every heuristic.
func TestSolveExact_Circle20(t *testing.T) {
	if testing.Short() {
		t.Skip("20-node Held–Karp allocates ~90MB")
	}
	t.Parallel()

	m, perim := circle(t, 20, seedDet)
	res, err := tsp.SolveExact(m, tsp.DefaultOptions())
	require.NoError(t, err)
	requireTour(t, m, res)
	require.InDelta(t, perim, res.Distance, epsTiny)

	m = euclid(t, 20, seedDet)
	res, err = tsp.SolveExact(m, tsp.DefaultOptions())
	require.NoError(t, err)
	requireTour(t, m, res)
	require.True(t, res.Optimal)
	lb, err := tsp.LowerBound(m, tsp.DefaultBoundConfig())
	require.NoError(t, err)
	require.LessOrEqual(t, lb, res.Distance+epsTiny)
	for _, st := range []tsp.Strategy{tsp.Beam, tsp.Constructive, tsp.Nearest} {
		opts := tsp.DefaultOptions()
		opts.Strategy = st
		h, err := tsp.Solve(m, opts)
		require.NoError(t, err)
		require.LessOrEqual(t, res.Distance, h.Distance+epsTiny, "strategy %s", st)
	}
}

func TestSolveExact_NotWorseThanHeuristics(t *testing.T) {
	t.Parallel()

	m := euclid(t, 12, seedDet)
	exact, err := tsp.SolveExact(m, tsp.DefaultOptions())
	require.NoError(t, err)

	for _, st := range []tsp.Strategy{tsp.Beam, tsp.Constructive, tsp.Anneal, tsp.Nearest} {
		opts := tsp.DefaultOptions()
		opts.Strategy = st
		res, err := tsp.Solve(m, opts)
		require.NoError(t, err)
		require.Equal(t, st, res.Strategy)
		require.LessOrEqual(t, exact.Distance, res.Distance+epsTiny, "strategy %s", st)
	}
}

func TestSolveExact_Errors(t *testing.T) {
	t.Parallel()

	t.Run("size exceeded", func(t *testing.T) {
		opts := tsp.DefaultOptions()
		opts.ExactMaxSize = 8
		_, err := tsp.SolveExact(euclid(t, 9, 1), opts)
		require.ErrorIs(t, err, tsp.ErrSizeExceeded)
	})

	t.Run("infeasible", func(t *testing.T) {
		inf := math.Inf(1)
		// Node 3 only connects to node 0, so no Hamiltonian cycle exists.
		m, err := matrix.NewDenseFrom([][]float64{
			{0, 1, 1, 1},
			{1, 0, 1, inf},
			{1, 1, 0, inf},
			{1, inf, inf, 0},
		})
		require.NoError(t, err)
		_, err = tsp.SolveExact(m, tsp.DefaultOptions())
		require.ErrorIs(t, err, tsp.ErrInfeasible)
	})

	t.Run("deadline", func(t *testing.T) {
		_, err := tsp.SolveExact(euclid(t, 8, 1), expiredOpts(tsp.Exact))
		require.ErrorIs(t, err, tsp.ErrDeadline)
	})

	t.Run("negative", func(t *testing.T) {
		m, err := matrix.NewDenseFrom([][]float64{{0, -1}, {1, 0}})
		require.NoError(t, err)
		_, err = tsp.SolveExact(m, tsp.DefaultOptions())
		require.ErrorIs(t, err, tsp.ErrNegativeWeight)
	})
}

// TestSolveExact_CompactStorage checks that float32 storages do not change the optimum tour.
func TestSolveExact_CompactStorage(t *testing.T) {
	t.Parallel()

	m := euclid(t, 10, 11)
	want, err := tsp.SolveExact(m, tsp.DefaultOptions())
	require.NoError(t, err)

	tri, err := matrix.NewTriangular(m)
	require.NoError(t, err)
	got, err := tsp.SolveExact(tri, tsp.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, tsp.ValidateTour(got.Tour, 10, 0))
	require.InDelta(t, want.Distance, tourLen(t, m, got.Tour), 1e-2)
}
