package partition

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/matrix"
)

func planar(t *testing.T, n int, seed int64) (*matrix.Dense, []matrix.Point) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pts := make([]matrix.Point, n)
	for i := range pts {
		pts[i] = matrix.Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}
	m, err := matrix.FromPoints(pts)
	require.NoError(t, err)

	return m, pts
}

// TestEmbed_RecoversPlanarDistances checks that landmark MDS reproduces
// Euclidean distances of planar inputs, including non-landmark nodes.
func TestEmbed_RecoversPlanarDistances(t *testing.T) {
	t.Parallel()

	m, pts := planar(t, 80, 3)
	coords, err := embed(newDists(m), 10)
	require.NoError(t, err)

	for i := 0; i < len(pts); i += 7 {
		for j := 0; j < len(pts); j += 5 {
			want, _ := m.At(i, j)
			got := math.Hypot(coords[2*i]-coords[2*j], coords[2*i+1]-coords[2*j+1])
			require.InDelta(t, want, got, 1e-6, "(%d,%d)", i, j)
		}
	}
}

func TestPickLandmarks(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDenseFrom([][]float64{
		{0, 1, 5, 2},
		{1, 0, 4, 3},
		{5, 4, 0, 6},
		{2, 3, 6, 0},
	})
	require.NoError(t, err)
	// From 0 the farthest is 2; then min-distances {1:1, 3:2} pick 3.
	require.Equal(t, []int{0, 2, 3}, pickLandmarks(newDists(m), 3))
	require.Len(t, pickLandmarks(newDists(m), 10), 4)
}

func TestKMeans_SeparatesBlobs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(9))
	vecs := make([]float64, 0, 2*60)
	for i := 0; i < 60; i++ {
		cx := 0.0
		if i%2 == 1 {
			cx = 1000
		}
		vecs = append(vecs, cx+rng.NormFloat64(), rng.NormFloat64())
	}

	assign := kmeans(vecs, 2, 2, 50, rand.New(rand.NewSource(1)))
	for i := 2; i < 60; i++ {
		require.Equal(t, assign[i%2], assign[i], "row %d", i)
	}
	require.NotEqual(t, assign[0], assign[1])
}

func TestSpectralEmbed_UnitRows(t *testing.T) {
	t.Parallel()

	m, _ := planar(t, 30, 5)
	emb, err := spectralEmbed(newDists(m), 3)
	require.NoError(t, err)
	require.Len(t, emb, 90)
	for i := 0; i < 30; i++ {
		var l float64
		for c := 0; c < 3; c++ {
			l += emb[i*3+c] * emb[i*3+c]
		}
		require.InDelta(t, 1.0, l, 1e-9)
	}
}

func TestChunk(t *testing.T) {
	t.Parallel()

	g := []int{1, 2, 3, 4, 5, 6, 7}
	require.Equal(t, [][]int{{1, 2, 3, 4}, {5, 6, 7}}, chunk(g, 5))
	require.Equal(t, [][]int{g}, chunk(g, 7))
}
