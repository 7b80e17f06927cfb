// Package tsp - admissible lower bounds.
//
// Symmetric input uses the Held–Karp 1-tree relaxation: for multipliers π the
// reduced costs are c'(u,v) = c(u,v) + π_u + π_v, a minimum 1-tree is an MST
// over V\{0} plus the two cheapest edges at node 0, and
//
//	L(π) = c'(T(π)) − 2·Σπ
//
// is a lower bound on every tour. π follows the subgradient deg_T(i) − 2 with
// the step α·(UB − L)/‖s‖² when an incumbent UB is known, else α/(1+k).
//
// Asymmetric input falls back to the out-degree bound Σ_u min_{v≠u} c(u,v).
//
// The bound feeds the gap diagnostic of solved instances; no solver depends on it.
package tsp

import (
	"math"

	"github.com/katalvlaran/tspforge/matrix"
)

// BoundConfig controls the subgradient loop.
type BoundConfig struct {
	// Iterations is the number of subgradient steps (≥ 1).
	Iterations int
	// Alpha in (0, 2) scales the step.
	Alpha float64
	// Incumbent is a known tour cost; ≤ 0 or +Inf disables the adaptive step.
	Incumbent float64
}

// DefaultBoundConfig returns 32 iterations at α = 0.9 without an incumbent.
func DefaultBoundConfig() BoundConfig {
	return BoundConfig{Iterations: 32, Alpha: 0.9, Incumbent: math.Inf(1)}
}

// LowerBound returns an admissible lower bound on the optimal tour length of dist.
// Disconnected input (no finite 1-tree) yields ErrInfeasible.
//
// Complexity: O(Iterations · n²) symmetric, O(n²) asymmetric.
func LowerBound(dist matrix.Matrix, cfg BoundConfig) (float64, error) {
	w, err := prefetch(dist)
	if err != nil {
		return 0, err
	}
	if w.n == 2 {
		return round1e9(w.at(0, 1) + w.at(1, 0)), nil
	}
	if !w.sym {
		return outDegreeBound(w)
	}
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	if cfg.Alpha <= 0 || cfg.Alpha >= 2 {
		cfg.Alpha = 0.9
	}

	return oneTreeBound(w, cfg)
}

// outDegreeBound sums the cheapest outgoing edge of every node.
func outDegreeBound(w *weights) (float64, error) {
	var total float64
	for u := 0; u < w.n; u++ {
		best := math.Inf(1)
		for v := 0; v < w.n; v++ {
			if v != u && w.at(u, v) < best {
				best = w.at(u, v)
			}
		}
		if math.IsInf(best, 1) {
			return 0, ErrInfeasible
		}
		total += best
	}

	return round1e9(total), nil
}

// oneTree is the reusable state of the 1-tree builder.
type oneTree struct {
	w      *weights
	pi     []float64
	deg    []int
	key    []float64
	parent []int
	done   []bool
}

// reduced returns c(u,v) + π_u + π_v.
func (o *oneTree) reduced(u, v int) float64 {
	return o.w.at(u, v) + o.pi[u] + o.pi[v]
}

// build constructs a minimum 1-tree rooted at node 0 on reduced costs, fills
// deg and returns its reduced cost. Prim breaks ties by lower index.
func (o *oneTree) build() (float64, error) {
	n := o.w.n
	inf := math.Inf(1)
	for v := 0; v < n; v++ {
		o.deg[v], o.key[v], o.parent[v], o.done[v] = 0, inf, -1, false
	}
	o.key[1] = 0

	var total float64
	for it := 0; it < n-1; it++ {
		best := -1
		for v := 1; v < n; v++ {
			if !o.done[v] && (best < 0 || o.key[v] < o.key[best]) {
				best = v
			}
		}
		if math.IsInf(o.key[best], 1) {
			return 0, ErrInfeasible
		}
		o.done[best] = true
		if p := o.parent[best]; p >= 0 {
			total += o.reduced(p, best)
			o.deg[p]++
			o.deg[best]++
		}
		for v := 1; v < n; v++ {
			if o.done[v] {
				continue
			}
			if c := o.reduced(best, v); c < o.key[v] {
				o.key[v], o.parent[v] = c, best
			}
		}
	}

	// Two cheapest edges at the root.
	a, b := -1, -1
	for v := 1; v < n; v++ {
		c := o.reduced(0, v)
		switch {
		case a < 0 || c < o.reduced(0, a):
			a, b = v, a
		case b < 0 || c < o.reduced(0, b):
			b = v
		}
	}
	ca, cb := o.reduced(0, a), o.reduced(0, b)
	if math.IsInf(ca, 1) || math.IsInf(cb, 1) {
		return 0, ErrInfeasible
	}
	o.deg[0] = 2
	o.deg[a]++
	o.deg[b]++

	return total + ca + cb, nil
}

func oneTreeBound(w *weights, cfg BoundConfig) (float64, error) {
	n := w.n
	o := &oneTree{
		w:      w,
		pi:     make([]float64, n),
		deg:    make([]int, n),
		key:    make([]float64, n),
		parent: make([]int, n),
		done:   make([]bool, n),
	}
	useUB := cfg.Incumbent > 0 && !math.IsInf(cfg.Incumbent, 1)

	var (
		best  = math.Inf(-1)
		bound float64
		sumPi float64
		norm2 float64
		step  float64
		s     int
	)
	for k := 0; k < cfg.Iterations; k++ {
		cost, err := o.build()
		if err != nil {
			return 0, err
		}
		sumPi, norm2 = 0, 0
		for i := 0; i < n; i++ {
			sumPi += o.pi[i]
			s = o.deg[i] - 2
			norm2 += float64(s * s)
		}
		bound = cost - 2*sumPi
		best = math.Max(best, bound)
		if norm2 == 0 {
			// The 1-tree is a tour.
			break
		}
		if useUB {
			step = cfg.Alpha * math.Max(cfg.Incumbent-bound, 0) / norm2
		} else {
			step = cfg.Alpha / float64(1+k)
		}
		if step == 0 {
			break
		}
		for i := 0; i < n; i++ {
			o.pi[i] += step * float64(o.deg[i]-2)
		}
	}

	return round1e9(best), nil
}
