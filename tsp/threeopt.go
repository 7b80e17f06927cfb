// Package tsp - 3-opt local search.
//
// threeOptPass enumerates three cut points 1 ≤ i < j < k ≤ n on a closed
// tour T (len n+1) with segments S1=T[i..j-1], S2=T[j..k-1] and a fixed tail
// S3=T[k..n-1]. It evaluates the 7 reconnections (X,Y) with
// X,Y ∈ {S1,rev(S1),S2,rev(S2)} other than the identity, and applies the first
// one that shortens the tour (Δ < −eps).
//
//	Δ = w(a,first(X)) + w(last(X),first(Y)) + w(last(Y),f) − [w(a,b) + w(c,d) + w(e,f)]
//	    + Σ reversal cost of reversed segments (asymmetric input only)
//
// where a=T[i−1], b=T[i], c=T[j−1], d=T[j], e=T[k−1], f=T[k].
//
// Complexity: O(n³) triples × 7 per scan, which is why callers gate 3-opt on
// the tour size (Options.ThreeOptMaxSize).
package tsp

// segKind enumerates segment variants for 3-opt reconnections.
type segKind uint8

const (
	segS1  segKind = iota // S1 = T[i..j-1] in forward order
	segS1R                // reversed S1
	segS2                 // S2 = T[j..k-1] in forward order
	segS2R                // reversed S2
)

// The 7 distinct reconnections (X,Y), identity (S1,S2) excluded.
var (
	tryX = [...]segKind{segS1R, segS1, segS2R, segS1R, segS2, segS2R, segS2}
	tryY = [...]segKind{segS2, segS2R, segS1R, segS2R, segS1R, segS1, segS1}
)

// segFirstLast maps a segment kind to its endpoints given
// b=T[i], c=T[j-1], d=T[j], e=T[k-1].
func segFirstLast(kind segKind, b, c, d, e int) (first, last int) {
	switch kind {
	case segS1:
		return b, c
	case segS1R:
		return c, b
	case segS2:
		return d, e
	default: // segS2R
		return e, d
	}
}

// threeOptPass applies the first improving 3-opt reconnection on t in place.
// scratch must have len(t) capacity; it is used to assemble the new order.
//
// Complexity: O(n³) per scan, O(n) to apply.
func threeOptPass(w *weights, t []int, eps float64, o *orientation, scratch []int) (float64, bool) {
	n := len(t) - 1
	if n < 5 {
		return 0, false
	}
	o.reset(w, t)

	var (
		i, j, k, m                   int
		a, b, c, d, e, f             int
		xFirst, xLast, yFirst, yLast int
		removed, delta               float64
		rev1, rev2                   float64
	)
	for i = 1; i <= n-2; i++ {
		for j = i + 1; j <= n-1; j++ {
			for k = j + 1; k <= n; k++ {
				a, b = t[i-1], t[i]
				c, d = t[j-1], t[j]
				e, f = t[k-1], t[k]
				removed = w.at(a, b) + w.at(c, d) + w.at(e, f)
				rev1 = o.reversal(w, i, j-1)
				rev2 = o.reversal(w, j, k-1)

				for m = 0; m < len(tryX); m++ {
					xFirst, xLast = segFirstLast(tryX[m], b, c, d, e)
					yFirst, yLast = segFirstLast(tryY[m], b, c, d, e)
					delta = w.at(a, xFirst) + w.at(xLast, yFirst) + w.at(yLast, f) - removed
					if tryX[m] == segS1R || tryY[m] == segS1R {
						delta += rev1
					}
					if tryX[m] == segS2R || tryY[m] == segS2R {
						delta += rev2
					}
					if delta < -eps {
						apply3Opt(t, scratch, i, j, k, tryX[m], tryY[m])
						return delta, true
					}
				}
			}
		}
	}

	return 0, false
}

// apply3Opt rewrites t as P + X + Y + S3 + closing vertex, using scratch.
// P=T[:i], S1=T[i:j], S2=T[j:k], S3=T[k:n].
func apply3Opt(t, scratch []int, i, j, k int, x, y segKind) {
	n := len(t) - 1
	out := scratch[:0]
	out = append(out, t[:i]...)
	out = emitSeg(out, t, i, j, k, x)
	out = emitSeg(out, t, i, j, k, y)
	out = append(out, t[k:n]...)
	out = append(out, t[0])
	copy(t, out)
}

// emitSeg appends the segment selected by kind.
func emitSeg(out, t []int, i, j, k int, kind segKind) []int {
	var lo, hi int
	switch kind {
	case segS1, segS1R:
		lo, hi = i, j
	default:
		lo, hi = j, k
	}
	if kind == segS1 || kind == segS2 {
		return append(out, t[lo:hi]...)
	}
	for p := hi - 1; p >= lo; p-- {
		out = append(out, t[p])
	}

	return out
}
