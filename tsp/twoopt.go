// Package tsp - 2-opt local search.
//
// twoOptPass performs one first-improvement scan over all pairs of tour edges:
// for edges (a=T[i], b=T[i+1]) and (c=T[k], d=T[k+1]) with i < k it evaluates
// reversing T[i+1..k],
//
//	Δ = w(a,c) + w(b,d) − w(a,b) − w(c,d) + (rev(T[i+1..k]) − fwd(T[i+1..k]))
//
// and applies the first move with Δ < −eps, then returns. The bracketed term
// is zero for symmetric input and O(1) otherwise thanks to orientation prefix
// sums, so no tour length is ever recomputed from scratch.
//
// Policy: first improvement, not best improvement. The polish loop calls the
// pass repeatedly until it reports no improvement.
package tsp

import (
	"github.com/katalvlaran/tspforge/matrix"
)

// orientation caches directed prefix sums along a tour:
// fwd[p] = Σ_{q<p} w(T[q],T[q+1]) and bwd[p] = Σ_{q<p} w(T[q+1],T[q]).
type orientation struct {
	fwd, bwd []float64
}

// reset recomputes the prefix sums for t (len n+1). Symmetric weights skip it.
func (o *orientation) reset(w *weights, t []int) {
	if w.sym {
		return
	}
	if cap(o.fwd) < len(t) {
		o.fwd = make([]float64, len(t))
		o.bwd = make([]float64, len(t))
	}
	o.fwd, o.bwd = o.fwd[:len(t)], o.bwd[:len(t)]
	o.fwd[0], o.bwd[0] = 0, 0
	for q := 0; q+1 < len(t); q++ {
		o.fwd[q+1] = o.fwd[q] + w.at(t[q], t[q+1])
		o.bwd[q+1] = o.bwd[q] + w.at(t[q+1], t[q])
	}
}

// reversal returns the cost change of traversing T[p..q] backwards.
func (o *orientation) reversal(w *weights, p, q int) float64 {
	if w.sym || q <= p {
		return 0
	}

	return (o.bwd[q] - o.bwd[p]) - (o.fwd[q] - o.fwd[p])
}

// twoOptDelta is the exact cost change of reversing T[i+1..k].
func twoOptDelta(w *weights, t []int, o *orientation, i, k int) float64 {
	a, b, c, d := t[i], t[i+1], t[k], t[k+1]

	return w.at(a, c) + w.at(b, d) - w.at(a, b) - w.at(c, d) + o.reversal(w, i+1, k)
}

// twoOptPass applies the first improving 2-opt move on t in place.
// It returns the (negative) delta and true, or 0 and false at a local optimum.
//
// Complexity: O(n²) per scan, O(n) to apply.
func twoOptPass(w *weights, t []int, eps float64, o *orientation) (float64, bool) {
	n := len(t) - 1
	if n < 4 {
		return 0, false
	}
	o.reset(w, t)

	var (
		i, k  int
		delta float64
	)
	for i = 0; i < n-2; i++ {
		for k = i + 2; k < n; k++ {
			if i == 0 && k == n-1 {
				continue // edges are adjacent through the closing vertex
			}
			delta = twoOptDelta(w, t, o, i, k)
			if delta < -eps {
				reverseArcInPlace(t, i+1, k)
				return delta, true
			}
		}
	}

	return 0, false
}

// TwoOpt runs first-improvement 2-opt on a copy of initTour until no improving
// move remains or the deadline passes. It returns the improved tour, its
// stabilized cost and the number of accepted moves.
func TwoOpt(dist matrix.Matrix, initTour []int, opts Options) ([]int, float64, int, error) {
	w, err := prefetch(dist)
	if err != nil {
		return nil, 0, 0, err
	}
	if err = ValidateTour(initTour, w.n, 0); err != nil {
		return nil, 0, 0, err
	}
	cur := CopyTour(initTour)
	dl := opts.deadline()

	var (
		o        orientation
		accepted int
	)
	for !dl.Expired() {
		if _, ok := twoOptPass(w, cur, opts.Eps, &o); !ok {
			break
		}
		accepted++
	}

	return cur, round1e9(w.cost(cur)), accepted, nil
}
