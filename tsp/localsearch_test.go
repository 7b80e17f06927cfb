package tsp_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/tsp"
)

type passFunc func(m matrix.Matrix, tour []int, eps float64) (float64, bool, error)

// TestLocalSearch_AcceptedMovesDecrease applies moves until a local optimum and
// checks every accepted move against a from-scratch recomputation.
func TestLocalSearch_AcceptedMovesDecrease(t *testing.T) {
	t.Parallel()

	passes := map[string]passFunc{
		"2opt": tsp.ExportTwoOptPass,
		"3opt": tsp.ExportThreeOptPass,
		"lk":   tsp.ExportLKStep,
	}
	for name, pass := range passes {
		for _, kind := range []string{"euclid", "asym"} {
			name, pass, kind := name, pass, kind
			t.Run(fmt.Sprintf("%s/%s", name, kind), func(t *testing.T) {
				t.Parallel()
				const n = 14
				var m *matrix.Dense
				if kind == "euclid" {
					m = euclid(t, n, 21)
				} else {
					m = asym(t, n, 21)
				}
				tour := shuffledTour(n, 5)
				before := tourLen(t, m, tour)

				moves := 0
				for moves < 500 {
					delta, ok, err := pass(m, tour, 1e-10)
					require.NoError(t, err)
					if !ok {
						break
					}
					require.NoError(t, tsp.ValidateTour(tour, n, 0))
					after := tourLen(t, m, tour)
					require.Less(t, after, before, "move %d", moves)
					require.InDelta(t, before+delta, after, 1e-6)
					before = after
					moves++
				}
				require.Positive(t, moves)
			})
		}
	}
}

func TestTwoOpt_ReachesLocalOptimum(t *testing.T) {
	t.Parallel()

	m := euclid(t, 40, 8)
	start := shuffledTour(40, 1)
	tour, cost, moves, err := tsp.TwoOpt(m, start, tsp.DefaultOptions())
	require.NoError(t, err)
	require.Positive(t, moves)
	require.Less(t, cost, tourLen(t, m, start))
	require.NotEqual(t, start, tour, "input must not be modified in place")

	_, ok, err := tsp.ExportTwoOptPass(m, tour, 1e-10)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestThreeOpt_NotWorseThanTwoOpt(t *testing.T) {
	t.Parallel()

	m := euclid(t, 18, 4)
	start := shuffledTour(18, 2)
	two, c2, _, err := tsp.TwoOpt(m, start, tsp.DefaultOptions())
	require.NoError(t, err)

	_, c3, _, err := tsp.ThreeOpt(m, two, tsp.DefaultOptions())
	require.NoError(t, err)
	require.LessOrEqual(t, c3, c2+epsTiny)

	_, cp, _, err := tsp.Polish(m, start, tsp.DefaultOptions())
	require.NoError(t, err)
	require.Less(t, cp, tourLen(t, m, start))
}

func TestLocalSearch_RejectsInvalidTour(t *testing.T) {
	t.Parallel()

	m := euclid(t, 5, 1)
	_, _, _, err := tsp.TwoOpt(m, []int{0, 1, 1, 2, 3, 0}, tsp.DefaultOptions())
	require.ErrorIs(t, err, tsp.ErrInvalidTour)
	_, _, _, err = tsp.ThreeOpt(m, []int{0, 1, 2}, tsp.DefaultOptions())
	require.ErrorIs(t, err, tsp.ErrInvalidTour)
}
