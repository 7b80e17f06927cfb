// Package tsp - beam search with greedy lookahead.
//
// Each round expands every beam member over every unvisited node. A child
// (member → v) is scored by
//
//	w(cur,v) + Σ_{d<L} γ^d · w(step d) + γ^L · minEdge(remaining ∪ {0})
//
// where the lookahead walks greedily to the nearest unvisited node L times and
// minEdge lower-bounds what is left (including the return to node 0). When v
// is the last unvisited node the score is w(cur,v) + w(v,0). Children are
// ranked by score and truncated to the beam width. Children that visit the
// last node are closed immediately and compete for the incumbent tour.
//
// The leader (top child of the previous leader, starting from the root) is
// always retained, so a width-k construction follows the width-1 trajectory as
// one of its members and can never finish worse than it.
//
// Missing completion (iteration cap, deadline) falls back to nearest neighbour
// completion. The constructed tour is then polished (2-opt, plus 3-opt up to
// Options.ThreeOptMaxSize nodes). Polish can rank two tours differently than
// construction did, so for width > 1 the width-1 tour is polished as well and
// the shorter of the two is returned.
package tsp

import (
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/tspforge/matrix"
)

// SolveBeam runs beam search followed by local-search polish.
func SolveBeam(dist matrix.Matrix, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	w, err := prefetch(dist)
	if err != nil {
		return Result{}, err
	}
	clk := opts.clock()
	started := clk.Now()
	res := beamSolve(w, opts, opts.deadline())
	res.Elapsed = clk.Now().Sub(started)

	return res, nil
}

// BeamWidthFor returns the adaptive beam width for n nodes.
//
//	n ≤ 20: min(n, BeamMinWidth); n ≤ 50: min(n/3, BeamMaxWidth); else BeamMaxWidth.
//
// Options.BeamWidth > 0 overrides the rule.
func BeamWidthFor(n int, opts Options) int {
	var width int
	switch {
	case opts.BeamWidth > 0:
		width = opts.BeamWidth
	case n <= 20:
		width = min(n, opts.BeamMinWidth)
	case n <= 50:
		width = min(n/3, opts.BeamMaxWidth)
	default:
		width = opts.BeamMaxWidth
	}

	return max(width, 1)
}

// beamSolve is the solver core: construct, then polish.
func beamSolve(w *weights, opts Options, dl Deadline) Result {
	width := BeamWidthFor(w.n, opts)
	tour, rounds, completed := beamConstruct(w, width, opts, dl)
	moves := polish(w, tour, opts, dl)
	cost := w.cost(tour)

	diag := map[string]float64{"beam_width": float64(width)}
	if !completed {
		diag["nearest_fallback"] = 1
	}

	// Stage 2 - the width-1 trajectory, polished the same way.
	if width > 1 && !dl.Expired() {
		greedy, _, greedyDone := beamConstruct(w, 1, opts, dl)
		greedyMoves := polish(w, greedy, opts, dl)
		if gc := w.cost(greedy); gc < cost {
			tour, cost, moves = greedy, gc, greedyMoves
			diag["greedy_polished"] = 1
			if greedyDone {
				delete(diag, "nearest_fallback")
			} else {
				diag["nearest_fallback"] = 1
			}
		}
	}

	return Result{
		Tour:         tour,
		Distance:     round1e9(cost),
		Strategy:     Beam,
		Iterations:   rounds,
		Improvements: moves,
		Diagnostics:  diag,
	}
}

// beamMember is one partial tour retained in the beam.
type beamMember struct {
	path      []int
	cost      float64
	unvisited *bitset.BitSet
	leader    bool
}

// beamChild is an unmaterialized expansion of a member.
type beamChild struct {
	parent int
	node   int
	cost   float64
	score  float64
	leader bool
}

// beamScorer owns lookahead state reused across children.
type beamScorer struct {
	w        *weights
	depth    int
	discount float64
	tailDisc float64
	nbr      [][]int // nbr[x]: other nodes sorted by w(x,·)
	excl     []int
}

func newBeamScorer(w *weights, opts Options) *beamScorer {
	n := w.n
	nbr := make([][]int, n)
	for x := 0; x < n; x++ {
		row := make([]int, 0, n-1)
		for y := 0; y < n; y++ {
			if y != x {
				row = append(row, y)
			}
		}
		from := x
		slices.SortStableFunc(row, func(a, b int) int {
			da, db := w.at(from, a), w.at(from, b)
			switch {
			case da < db:
				return -1
			case da > db:
				return 1
			}

			return 0
		})
		nbr[x] = row
	}

	return &beamScorer{
		w:        w,
		depth:    opts.Lookahead,
		discount: opts.LookaheadDiscount,
		tailDisc: math.Pow(opts.LookaheadDiscount, float64(opts.Lookahead)),
		nbr:      nbr,
		excl:     make([]int, 0, opts.Lookahead+1),
	}
}

// excluded reports whether v was consumed by the current lookahead.
func (s *beamScorer) excluded(v int) bool {
	return slices.Contains(s.excl, v)
}

// free reports whether v is still open in the lookahead's view.
func (s *beamScorer) free(v int, unvisited *bitset.BitSet) bool {
	return unvisited.Test(uint(v)) && !s.excluded(v)
}

// score evaluates moving from cur to cand; left is the unvisited count before the move.
func (s *beamScorer) score(cur, cand int, unvisited *bitset.BitSet, left int) float64 {
	w := s.w
	sc := w.at(cur, cand)
	remaining := left - 1
	if remaining == 0 {
		return sc + w.at(cand, 0)
	}

	s.excl = append(s.excl[:0], cand)
	var (
		at    = cand
		disc  = 1.0
		steps = min(s.depth, remaining)
		next  int
		d     int
	)
	for d = 0; d < steps; d++ {
		next = -1
		for _, y := range s.nbr[at] {
			if s.free(y, unvisited) {
				next = y
				break
			}
		}
		sc += w.at(at, next) * disc
		disc *= s.discount
		s.excl = append(s.excl, next)
		at = next
	}
	if remaining > steps {
		sc += s.minEdge(unvisited) * s.tailDisc
	}

	return sc
}

// minEdge is the cheapest edge leaving any still-open node towards another
// open node or node 0. Sorted neighbour lists stop each scan at the first hit.
func (s *beamScorer) minEdge(unvisited *bitset.BitSet) float64 {
	best := math.Inf(1)
	var d float64
	for i, ok := unvisited.NextSet(0); ok; i, ok = unvisited.NextSet(i + 1) {
		x := int(i)
		if s.excluded(x) || s.w.at(x, s.nbr[x][0]) >= best {
			continue
		}
		for _, y := range s.nbr[x] {
			d = s.w.at(x, y)
			if d >= best {
				break
			}
			if y == 0 || s.free(y, unvisited) {
				best = d
				break
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}

	return best
}

// beamConstruct runs the beam and returns a closed tour, the number of rounds,
// and whether the beam itself completed a tour.
//
// Complexity: O(rounds · width · n · (L·n + n)) time; O(width · n) space per round.
func beamConstruct(w *weights, width int, opts Options, dl Deadline) ([]int, int, bool) {
	n := w.n
	sc := newBeamScorer(w, opts)

	beam := []beamMember{{path: []int{0}, unvisited: newUnvisited(n), leader: true}}
	var (
		best     []int
		bestCost = math.Inf(1)
		rounds   int
		children = make([]beamChild, 0, width*n)
	)
	for len(beam) > 0 && rounds < opts.BeamMaxIterations {
		if rounds > 0 && dl.Expired() {
			break
		}
		rounds++
		children = children[:0]

		for p := range beam {
			mb := &beam[p]
			cur := mb.path[len(mb.path)-1]
			left := n - len(mb.path)
			leaderAt, leaderScore := -1, math.Inf(1)
			for i, ok := mb.unvisited.NextSet(0); ok; i, ok = mb.unvisited.NextSet(i + 1) {
				v := int(i)
				cost := mb.cost + w.at(cur, v)
				if left == 1 {
					// Closing child: record the completed tour.
					if total := cost + w.at(v, 0); best == nil || total < bestCost {
						best = append(slices.Clone(mb.path), v, 0)
						bestCost = total
					}
					continue
				}
				score := sc.score(cur, v, mb.unvisited, left)
				children = append(children, beamChild{parent: p, node: v, cost: cost, score: score})
				if mb.leader && (leaderAt < 0 || score < leaderScore) {
					leaderAt, leaderScore = len(children)-1, score
				}
			}
			if leaderAt >= 0 {
				children[leaderAt].leader = true
			}
		}
		if len(children) == 0 {
			break
		}

		slices.SortStableFunc(children, func(a, b beamChild) int {
			switch {
			case a.score < b.score:
				return -1
			case a.score > b.score:
				return 1
			}

			return 0
		})
		keep := children[:min(width, len(children))]
		if !slices.ContainsFunc(keep, func(c beamChild) bool { return c.leader }) {
			if at := slices.IndexFunc(children, func(c beamChild) bool { return c.leader }); at >= 0 {
				keep[len(keep)-1] = children[at]
			}
		}

		next := make([]beamMember, len(keep))
		for k, c := range keep {
			parent := &beam[c.parent]
			u := parent.unvisited.Clone()
			u.Clear(uint(c.node))
			next[k] = beamMember{
				path:      append(slices.Clone(parent.path), c.node),
				cost:      c.cost,
				unvisited: u,
				leader:    c.leader,
			}
		}
		beam = next
	}

	if best != nil {
		return best, rounds, true
	}

	return completeGreedy(w, beam), rounds, false
}

// completeGreedy finishes the cheapest surviving member with nearest-neighbour
// steps, or builds a plain nearest-neighbour tour when the beam is empty.
func completeGreedy(w *weights, beam []beamMember) []int {
	if len(beam) == 0 {
		return nearestNeighbor(w)
	}
	top := 0
	for k := range beam {
		if beam[k].cost < beam[top].cost {
			top = k
		}
	}
	path := slices.Clone(beam[top].path)
	u := beam[top].unvisited.Clone()
	cur := path[len(path)-1]
	for u.Any() {
		cur = nearestFrom(w, cur, u)
		u.Clear(uint(cur))
		path = append(path, cur)
	}

	return append(path, 0)
}
