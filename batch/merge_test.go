package batch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/batch"
	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/partition"
	"github.com/katalvlaran/tspforge/tsp"
)

// line returns n points on the x axis, one unit apart.
func line(t *testing.T, n int) *matrix.Dense {
	t.Helper()
	pts := make([]matrix.Point, n)
	for i := range pts {
		pts[i] = matrix.Point{X: float64(i)}
	}
	m, err := matrix.FromPoints(pts)
	require.NoError(t, err)

	return m
}

// twoParts splits the 6-node line into cores {0,1,2} and {3,4,5}, each
// borrowing the neighbour across the border.
func twoParts() []partition.Partition {
	return []partition.Partition{
		{Index: 0, Members: []int{0, 1, 2, 3}, Core: []int{0, 1, 2}},
		{Index: 1, Members: []int{2, 3, 4, 5}, Core: []int{3, 4, 5}},
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	m := line(t, 6)
	tests := []struct {
		name  string
		tours [][]int
		want  []int
		cost  float64
	}{
		{
			name:  "in order",
			tours: [][]int{{0, 1, 2, 3, 0}, {0, 1, 2, 3, 0}},
			want:  []int{0, 1, 2, 3, 4, 5, 0},
			cost:  10,
		},
		{
			// Part 1 visits 5,4,3; rotation starts it at 3, next to node 2.
			name:  "rotated entry",
			tours: [][]int{{0, 1, 2, 3, 0}, {0, 3, 2, 1, 0}},
			want:  []int{0, 1, 2, 3, 5, 4, 0},
			cost:  10,
		},
		{
			// Node 0 is not first in part 0's tour.
			name:  "starts at zero",
			tours: [][]int{{2, 1, 0, 3, 2}, {0, 1, 2, 3, 0}},
			want:  []int{0, 2, 1, 3, 4, 5, 0},
			cost:  12,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := []tsp.Result{{Tour: tc.tours[0]}, {Tour: tc.tours[1]}}
			tour, cost, err := batch.Merge(twoParts(), res, m)
			require.NoError(t, err)
			require.Equal(t, tc.want, tour)
			require.InDelta(t, tc.cost, cost, 1e-9)
			require.NoError(t, tsp.ValidateTour(tour, 6, 0))
		})
	}
}

func TestMerge_Errors(t *testing.T) {
	t.Parallel()

	m := line(t, 6)
	ok := []int{0, 1, 2, 3, 0}

	_, _, err := batch.Merge(twoParts(), []tsp.Result{{Tour: ok}}, m)
	require.ErrorIs(t, err, batch.ErrPartitionMerge)

	_, _, err = batch.Merge(nil, nil, m)
	require.ErrorIs(t, err, batch.ErrPartitionMerge)

	_, _, err = batch.Merge(twoParts(), []tsp.Result{{Tour: ok}, {}}, m)
	require.ErrorIs(t, err, batch.ErrPartitionMerge, "empty tour")

	_, _, err = batch.Merge(twoParts(), []tsp.Result{{Tour: ok}, {Tour: []int{0, 1, 1, 3, 0}}}, m)
	require.ErrorIs(t, err, batch.ErrPartitionMerge, "repeated local node")

	missing := twoParts()
	missing[1].Core = []int{3, 4}
	_, _, err = batch.Merge(missing, []tsp.Result{{Tour: ok}, {Tour: ok}}, m)
	require.ErrorIs(t, err, batch.ErrPartitionMerge, "node 5 owned by nobody")

	shared := twoParts()
	shared[1].Core = []int{2, 3, 4, 5}
	_, _, err = batch.Merge(shared, []tsp.Result{{Tour: ok}, {Tour: ok}}, m)
	require.ErrorIs(t, err, batch.ErrPartitionMerge, "node 2 in two cores")
}
