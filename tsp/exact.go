package tsp

import (
	"math"

	"github.com/katalvlaran/tspforge/matrix"
)

// SolveExact solves the instance optimally with Held–Karp dynamic programming.
//
// State: dp[mask,last] is the cheapest path that starts at node 0, visits
// exactly the nodes in mask, and ends at last. Node 0 is implicit in every
// state, so masks range over nodes 1..n-1 only and the table holds
// 2^(n-1)·(n-1) entries. Masks are enumerated layer by layer in increasing
// popcount (Gosper's hack), which keeps every predecessor state filled before
// it is read and gives a deterministic order.
//
// A value of math.Inf(1) in dist means "no edge"; if no Hamiltonian cycle
// survives, ErrInfeasible is returned. Instances above opts.ExactMaxSize
// return ErrSizeExceeded. The deadline is checked between popcount layers;
// expiry returns ErrDeadline (an exact solver has no best-so-far tour).
//
// Time complexity:  O(n² · 2ⁿ)
// Memory complexity: O(n · 2ⁿ) (float64 cost + int8 parent per state)
func SolveExact(dist matrix.Matrix, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	w, err := prefetch(dist)
	if err != nil {
		return Result{}, err
	}
	clk := opts.clock()
	started := clk.Now()
	res, err := heldKarp(w, opts.ExactMaxSize, opts.deadline())
	if err != nil {
		return Result{}, err
	}
	res.Elapsed = clk.Now().Sub(started)

	return res, nil
}

// heldKarp is the DP core on prefetched weights.
func heldKarp(w *weights, ceiling int, dl Deadline) (Result, error) {
	n := w.n
	if n > ceiling {
		return Result{}, ErrSizeExceeded
	}
	inf := math.Inf(1)

	if n == 2 {
		c := w.at(0, 1) + w.at(1, 0)
		if math.IsInf(c, 1) {
			return Result{}, ErrInfeasible
		}

		return Result{Tour: []int{0, 1, 0}, Distance: round1e9(c), Strategy: Exact, Iterations: 1, Optimal: true}, nil
	}

	// Stage 1 - tables. Bit b of a mask stands for node b+1.
	m := n - 1
	full := 1<<m - 1
	dp := make([]float64, (full+1)*m)
	parent := make([]int8, (full+1)*m)
	for i := range dp {
		dp[i] = inf
	}

	var b int
	for b = 0; b < m; b++ {
		dp[(1<<b)*m+b] = w.at(0, b+1)
		parent[(1<<b)*m+b] = -1
	}

	// Stage 2 - popcount layers 2..m.
	var (
		k, mask, prevMask int
		last, prev, arg   int
		base              int
		best, cand, cPrev float64
	)
	layers := 1
	for k = 2; k <= m; k++ {
		if dl.Expired() {
			return Result{}, ErrDeadline
		}
		for mask = 1<<k - 1; mask <= full; mask = nextCombination(mask) {
			for last = 0; last < m; last++ {
				if mask&(1<<last) == 0 {
					continue
				}
				prevMask = mask ^ (1 << last)
				base = prevMask * m
				best, arg = inf, -1
				for prev = 0; prev < m; prev++ {
					if prevMask&(1<<prev) == 0 {
						continue
					}
					cPrev = dp[base+prev]
					if math.IsInf(cPrev, 1) {
						continue
					}
					cand = cPrev + w.at(prev+1, last+1)
					if cand < best {
						best, arg = cand, prev
					}
				}
				dp[mask*m+last] = best
				parent[mask*m+last] = int8(arg)
			}
		}
		layers++
	}

	// Stage 3 - close the cycle back to node 0.
	best, arg = inf, -1
	for last = 0; last < m; last++ {
		cand = dp[full*m+last] + w.at(last+1, 0)
		if cand < best {
			best, arg = cand, last
		}
	}
	if arg < 0 {
		return Result{}, ErrInfeasible
	}

	// Stage 4 - backtrack through parent pointers.
	tour := make([]int, n+1)
	mask, last = full, arg
	for pos := n - 1; pos >= 1; pos-- {
		tour[pos] = last + 1
		prev = int(parent[mask*m+last])
		mask ^= 1 << last
		last = prev
	}

	return Result{
		Tour:       tour,
		Distance:   round1e9(best),
		Strategy:   Exact,
		Iterations: layers,
		Optimal:    true,
	}, nil
}

// nextCombination returns the next integer with the same popcount (Gosper's hack).
func nextCombination(x int) int {
	c := x & -x
	r := x + c

	return (((r ^ x) >> 2) / c) | r
}
