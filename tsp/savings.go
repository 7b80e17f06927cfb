// Package tsp - Clarke–Wright savings construction.
//
// Every non-depot node starts as its own route 0→v→0. Pairs are processed in
// descending order of s(i,j) = d(i,0) + d(0,j) − d(i,j); two routes are joined
// through (i,j) whenever both are free route ends (degree < 2), they belong to
// different routes and s > 0. Remaining fragments are stitched greedily from
// the depot, each time attaching the fragment whose nearer end is closest.
//
// Route membership is a union-find, so every merge is O(α(n)). routeEnd[v]
// maps a route end to the opposite end of the same route; stitching reads both
// ends of a route in O(1) and walks each route once, when it is attached.
//
// Savings assume d(i,j)==d(j,i); asymmetric input returns ErrAsymmetricInput.
package tsp

import (
	"math"
	"slices"
)

// saving is one candidate link (i,j) with its gain.
type saving struct {
	i, j int
	s    float64
}

// disjointSet is a union-find with path halving and union by size.
type disjointSet struct {
	parent []int
	size   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n), size: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}

	return d
}

func (d *disjointSet) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}

	return x
}

// union merges the sets of a and b; it reports false when they already coincide.
func (d *disjointSet) union(a, b int) bool {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return false
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]

	return true
}

// savingsTour builds a closed tour with depot 0.
//
// Complexity: O(n² log n) time (sorting n²/2 savings), O(n²) space.
func savingsTour(w *weights) ([]int, error) {
	if !w.sym {
		return nil, ErrAsymmetricInput
	}
	n := w.n
	if n <= 3 {
		return nearestNeighbor(w), nil
	}

	// Stage 1 - positive finite savings, descending (ties by (i,j) for determinism).
	list := make([]saving, 0, (n-1)*(n-2)/2)
	var (
		i, j int
		s    float64
	)
	for i = 1; i < n; i++ {
		for j = i + 1; j < n; j++ {
			s = w.at(i, 0) + w.at(0, j) - w.at(i, j)
			if s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s) {
				list = append(list, saving{i: i, j: j, s: s})
			}
		}
	}
	slices.SortFunc(list, func(a, b saving) int {
		switch {
		case a.s > b.s:
			return -1
		case a.s < b.s:
			return 1
		case a.i != b.i:
			return a.i - b.i
		}

		return a.j - b.j
	})

	// Stage 2 - merge routes through free ends.
	var (
		ds       = newDisjointSet(n)
		deg      = make([]int, n)
		adj      = make([][2]int, n)
		routeEnd = make([]int, n)
	)
	for v := 1; v < n; v++ {
		routeEnd[v] = v
		adj[v] = [2]int{-1, -1}
	}
	for _, sv := range list {
		i, j = sv.i, sv.j
		if deg[i] >= 2 || deg[j] >= 2 {
			continue
		}
		if !ds.union(i, j) {
			continue
		}
		adj[i][deg[i]] = j
		deg[i]++
		adj[j][deg[j]] = i
		deg[j]++

		ei, ej := routeEnd[i], routeEnd[j]
		routeEnd[ei] = ej
		routeEnd[ej] = ei
	}

	// Stage 3 - one end per route; routeEnd gives the opposite one.
	ends := make([]int, 0)
	for v := 1; v < n; v++ {
		if deg[v] < 2 && v <= routeEnd[v] {
			ends = append(ends, v)
		}
	}

	// Stage 4 - greedy stitching from the depot.
	tour := make([]int, 0, n+1)
	tour = append(tour, 0)
	seen := make([]bool, n)
	used := make([]bool, len(ends))
	cur := 0
	for range ends {
		bestF, bestD, rev := -1, math.Inf(1), false
		for f, head := range ends {
			if used[f] {
				continue
			}
			if d := w.at(cur, head); bestF < 0 || d < bestD {
				bestF, bestD, rev = f, d, false
			}
			if d := w.at(cur, routeEnd[head]); d < bestD {
				bestF, bestD, rev = f, d, true
			}
		}
		used[bestF] = true
		start := ends[bestF]
		if rev {
			start = routeEnd[start]
		}
		tour = append(tour, walkFragment(start, adj, seen)...)
		cur = tour[len(tour)-1]
	}

	return append(tour, 0), nil
}

// walkFragment follows adjacency links from the route end v.
func walkFragment(v int, adj [][2]int, seen []bool) []int {
	path := []int{v}
	seen[v] = true
	prev, cur := -1, v
	for {
		next := -1
		for _, u := range adj[cur] {
			if u >= 0 && u != prev && !seen[u] {
				next = u
				break
			}
		}
		if next < 0 {
			return path
		}
		seen[next] = true
		path = append(path, next)
		prev, cur = cur, next
	}
}
