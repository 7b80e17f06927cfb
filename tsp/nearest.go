// Package tsp - nearest-neighbour construction.
//
// Two variants share one unvisited bitset layout:
//   - nearestNeighbor: pure greedy, deterministic (lowest index wins ties).
//     It cannot fail and terminates every fallback chain.
//   - randomizedNN: at each step rank the unvisited nodes by distance from the
//     current node, keep the closest max(1, ⌊α·remaining⌋) and pick uniformly.
//     α=0 degenerates to the pure greedy choice.
package tsp

import (
	"math"
	"math/rand"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/tspforge/matrix"
)

// NearestNeighbor returns the pure nearest-neighbour tour from node 0.
//
// Complexity: O(n²) time, O(n) space.
func NearestNeighbor(dist matrix.Matrix, opts Options) (Result, error) {
	w, err := prefetch(dist)
	if err != nil {
		return Result{}, err
	}
	clk := opts.clock()
	started := clk.Now()
	tour := nearestNeighbor(w)

	return Result{
		Tour:       tour,
		Distance:   round1e9(w.cost(tour)),
		Strategy:   Nearest,
		Iterations: w.n - 1,
		Elapsed:    clk.Now().Sub(started),
	}, nil
}

// newUnvisited returns a bitset with nodes 1..n-1 set.
func newUnvisited(n int) *bitset.BitSet {
	b := bitset.New(uint(n))
	for v := 1; v < n; v++ {
		b.Set(uint(v))
	}

	return b
}

// nearestFrom returns the unvisited node closest to cur (lowest index on ties),
// or -1 when the set is empty.
func nearestFrom(w *weights, cur int, unvisited *bitset.BitSet) int {
	var (
		best  = -1
		bestD = math.Inf(1)
		d     float64
	)
	for i, ok := unvisited.NextSet(0); ok; i, ok = unvisited.NextSet(i + 1) {
		d = w.at(cur, int(i))
		if best < 0 || d < bestD {
			best, bestD = int(i), d
		}
	}

	return best
}

// nearestNeighbor builds the greedy closed tour from node 0.
func nearestNeighbor(w *weights) []int {
	n := w.n
	unvisited := newUnvisited(n)
	tour := make([]int, 0, n+1)
	tour = append(tour, 0)

	cur := 0
	for unvisited.Any() {
		cur = nearestFrom(w, cur, unvisited)
		unvisited.Clear(uint(cur))
		tour = append(tour, cur)
	}

	return append(tour, 0)
}

// randomizedNN builds one closed tour with greediness alpha.
//
// Complexity: O(n² log n) time (one sort per step), O(n) space.
func randomizedNN(w *weights, alpha float64, rng *rand.Rand) []int {
	n := w.n
	unvisited := newUnvisited(n)
	tour := make([]int, 0, n+1)
	tour = append(tour, 0)

	var (
		cur   int
		k     int
		cands = make([]int, 0, n)
	)
	for unvisited.Any() {
		cands = cands[:0]
		for i, ok := unvisited.NextSet(0); ok; i, ok = unvisited.NextSet(i + 1) {
			cands = append(cands, int(i))
		}
		from := cur
		slices.SortStableFunc(cands, func(a, b int) int {
			da, db := w.at(from, a), w.at(from, b)
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			}

			return 0
		})

		k = int(float64(len(cands)) * alpha)
		if k < 1 {
			k = 1
		}
		cur = cands[rng.Intn(k)]
		unvisited.Clear(uint(cur))
		tour = append(tour, cur)
	}

	return append(tour, 0)
}
