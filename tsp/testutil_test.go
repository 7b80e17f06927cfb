// Package tsp_test provides lightweight testing helpers shared across *_test.go
// files in this package: seeded instance generators, brute force, a fake clock
// and tour assertions.
package tsp_test

import (
	"math"
	"math/rand"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/tsp"
)

const (
	// epsTiny is the tolerance for cost equality between solvers.
	epsTiny = 1e-9

	// seedDet is a deterministic seed for RNG-based components.
	seedDet = int64(7)
)

// euclid builds a seeded random Euclidean instance in a 1000×1000 square.
func euclid(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	xs, ys := make([]float64, n), make([]float64, n)
	for i := range xs {
		xs[i], ys[i] = rng.Float64()*1000, rng.Float64()*1000
	}

	return fromPoints(t, xs, ys)
}

// circle places n points at seeded random angles on a circle of radius 100.
// Points in convex position make the angular order the unique optimal tour,
// so the returned perimeter is the exact optimum.
func circle(t testing.TB, n int, seed int64) (*matrix.Dense, float64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	xs, ys := make([]float64, n), make([]float64, n)
	for i, a := range angles {
		xs[i], ys[i] = 100*math.Cos(a), 100*math.Sin(a)
	}
	m := fromPoints(t, xs, ys)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return angles[order[a]] < angles[order[b]] })
	var perim float64
	for i := range order {
		v, err := m.At(order[i], order[(i+1)%n])
		require.NoError(t, err)
		perim += v
	}

	return m, perim
}

func fromPoints(t testing.TB, xs, ys []float64) *matrix.Dense {
	t.Helper()
	n := len(xs)
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			require.NoError(t, m.Set(i, j, math.Hypot(xs[i]-xs[j], ys[i]-ys[j])))
		}
	}

	return m
}

// asym builds a seeded asymmetric instance with weights in [1, 100).
func asym(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				require.NoError(t, m.Set(i, j, 1+rng.Float64()*99))
			}
		}
	}

	return m
}

// bruteForce enumerates every permutation of 1..n-1 after node 0.
func bruteForce(t testing.TB, m matrix.Matrix) float64 {
	t.Helper()
	n := m.Rows()
	perm := make([]int, n-1)
	for i := range perm {
		perm[i] = i + 1
	}
	best := math.Inf(1)
	var rec func(k int)
	rec = func(k int) {
		if k == len(perm) {
			tour := append(append([]int{0}, perm...), 0)
			c, err := tsp.TourCost(m, tour)
			require.NoError(t, err)
			best = math.Min(best, c)
			return
		}
		for i := k; i < len(perm); i++ {
			perm[k], perm[i] = perm[i], perm[k]
			rec(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	rec(0)

	return best
}

// requireTour asserts the closed-permutation invariant and the reported distance.
func requireTour(t testing.TB, m matrix.Matrix, res tsp.Result) {
	t.Helper()
	n := m.Rows()
	require.NoError(t, tsp.ValidateTour(res.Tour, n, 0), "tour %v", res.Tour)
	c, err := tsp.TourCost(m, res.Tour)
	require.NoError(t, err)
	require.InDelta(t, c, res.Distance, 1e-6)
}

// tourLen recomputes the length of a closed tour.
func tourLen(t testing.TB, m matrix.Matrix, tour []int) float64 {
	t.Helper()
	c, err := tsp.TourCost(m, tour)
	require.NoError(t, err)

	return c
}

// identityTour returns 0,1,…,n-1,0.
func identityTour(n int) []int {
	tour := make([]int, n+1)
	for i := 0; i < n; i++ {
		tour[i] = i
	}

	return tour
}

// shuffledTour returns a seeded random closed tour from node 0.
func shuffledTour(n int, seed int64) []int {
	tour := identityTour(n)
	rng := rand.New(rand.NewSource(seed))
	inner := tour[1:n]
	rng.Shuffle(len(inner), func(i, j int) { inner[i], inner[j] = inner[j], inner[i] })

	return tour
}

// fakeClock is a manually advanced tsp.Clock.
type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// expiredOpts returns options whose deadline has already passed.
func expiredOpts(strategy tsp.Strategy) tsp.Options {
	clk := newFakeClock()
	opts := tsp.DefaultOptions()
	opts.Strategy = strategy
	opts.Deadline = tsp.DeadlineAt(clk, clk.Now())

	return opts
}

// allStrategies are the solver entry points exercised by table tests.
var allStrategies = slices.Clone(tsp.Strategies)
