// Package tsp - single-level Lin–Kernighan step.
//
// lkStep breaks tour edges in order of decreasing weight. For the current
// edge (a,b) it scans every non-adjacent edge (c,d) and computes the exact
// gain of the 2-exchange that replaces (a,b),(c,d) by (a,c),(b,d). The
// reconnection with the largest positive gain is applied immediately and
// the round ends; if the worst edge admits no gain, the next-worst is tried.
//
// One call is one round; the constructive solver runs a fixed number of them
// per candidate tour.
package tsp

import (
	"slices"
)

// lkScratch holds per-solve buffers reused across rounds.
type lkScratch struct {
	order []int
	o     orientation
}

// lkStep applies at most one improving exchange to t in place.
// It returns the (negative) delta and true, or 0 and false when no broken
// edge admits a gain above eps.
//
// Complexity: O(n log n) to rank edges plus O(n) per tried edge; O(n²) worst case.
func lkStep(w *weights, t []int, eps float64, sc *lkScratch) (float64, bool) {
	n := len(t) - 1
	if n < 4 {
		return 0, false
	}
	sc.o.reset(w, t)

	// Rank edge positions by weight, heaviest first (position breaks ties).
	if cap(sc.order) < n {
		sc.order = make([]int, n)
	}
	order := sc.order[:n]
	for p := range order {
		order[p] = p
	}
	slices.SortStableFunc(order, func(x, y int) int {
		wx, wy := w.at(t[x], t[x+1]), w.at(t[y], t[y+1])
		switch {
		case wx > wy:
			return -1
		case wx < wy:
			return 1
		}

		return 0
	})

	var (
		e, f, i, k int
		bestI      int
		bestK      int
		delta      float64
		bestDelta  float64
	)
	for _, e = range order {
		bestDelta, bestI, bestK = -eps, -1, -1
		for f = 0; f < n; f++ {
			i, k = e, f
			if i > k {
				i, k = k, i
			}
			if k-i < 2 || (i == 0 && k == n-1) {
				continue
			}
			delta = twoOptDelta(w, t, &sc.o, i, k)
			if delta < bestDelta {
				bestDelta, bestI, bestK = delta, i, k
			}
		}
		if bestI >= 0 {
			reverseArcInPlace(t, bestI+1, bestK)
			return bestDelta, true
		}
	}

	return 0, false
}
