package partition

import (
	"math"
	"math/rand"
	"slices"

	"github.com/katalvlaran/tspforge/matrix"
)

// PartCount returns the number of parts for n nodes: max(2, ⌈n/maxSize⌉), at most n.
func PartCount(n, maxSize int) int {
	k := (n + maxSize - 1) / maxSize

	return min(max(k, 2), n)
}

// Split partitions m and returns the parts in merge order together with the
// strategy actually used (Contiguous when Spectral or KMeans had to fall back).
//
// m must be a valid distance matrix (see matrix.ValidateDistance); the
// validation error is returned otherwise. m is only read.
//
// Complexity: O(n²) plus the strategy cost (KMeans O(iter·n·k), Spectral O(n³)).
func Split(m matrix.Matrix, opts Options) ([]Partition, Strategy, error) {
	if err := opts.Validate(); err != nil {
		return nil, "", err
	}
	if opts.Strategy == "" {
		opts.Strategy = KMeans
	}
	if err := matrix.ValidateDistance(m, false); err != nil {
		return nil, "", err
	}

	d := newDists(m)
	n := d.n
	k := PartCount(n, opts.MaxSize)
	rng := rand.New(rand.NewSource(opts.Seed))

	// Stage 1 - planar embedding for k-means and centroids.
	coords, embedErr := embed(d, opts.Landmarks)

	// Stage 2 - base assignment.
	used := opts.Strategy
	var labels []int
	switch opts.Strategy {
	case KMeans:
		if embedErr == nil {
			labels = kmeans(coords, 2, k, opts.KMeansIterations, rng)
		}
	case Spectral:
		if spec, err := spectralEmbed(d, k); err == nil {
			labels = kmeans(spec, k, k, opts.KMeansIterations, rng)
		}
	}
	if labels == nil {
		used = Contiguous
		labels = contiguousLabels(n, k)
	}

	// Stage 3 - groups, oversize split.
	groups := groupLabels(labels)
	if len(groups) < 2 {
		used = Contiguous
		groups = groupLabels(contiguousLabels(n, k))
	}
	var cores [][]int
	for _, g := range groups {
		cores = append(cores, chunk(g, opts.MaxSize)...)
	}

	// Stage 4 - overlap, sub-matrix, boundary, centroid.
	parts := make([]Partition, 0, len(cores))
	for _, core := range cores {
		members := withOverlap(d, core, int(float64(len(core))*opts.Overlap))
		sub, err := matrix.Induce(m, members)
		if err != nil {
			return nil, "", err
		}
		parts = append(parts, Partition{
			Members:  members,
			Core:     core,
			Sub:      sub,
			Boundary: boundary(d, members),
			Centroid: centroid(coords, core),
		})
	}

	// Stage 5 - merge order.
	parts = chainOrder(parts)
	for i := range parts {
		parts[i].Index = i
	}

	return parts, used, nil
}

// contiguousLabels assigns balanced blocks of ⌈n/k⌉ consecutive ids.
func contiguousLabels(n, k int) []int {
	size := (n + k - 1) / k
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i / size
	}

	return labels
}

// groupLabels turns labels into ascending member lists, ordered by their
// smallest member; empty labels disappear.
func groupLabels(labels []int) [][]int {
	byLabel := make(map[int]int)
	var groups [][]int
	for v, l := range labels {
		g, ok := byLabel[l]
		if !ok {
			g = len(groups)
			byLabel[l] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], v)
	}

	return groups
}

// chunk splits an ascending group into balanced contiguous pieces of at most maxSize.
func chunk(group []int, maxSize int) [][]int {
	if len(group) <= maxSize {
		return [][]int{group}
	}
	pieces := (len(group) + maxSize - 1) / maxSize
	size := (len(group) + pieces - 1) / pieces
	out := make([][]int, 0, pieces)
	for lo := 0; lo < len(group); lo += size {
		out = append(out, group[lo:min(lo+size, len(group))])
	}

	return out
}

// withOverlap returns core plus the extra external nodes closest to any core
// member (ties by lower id), ascending.
//
// Complexity: O(|core|·n + n log n).
func withOverlap(d *dists, core []int, extra int) []int {
	members := slices.Clone(core)
	if extra <= 0 {
		return members
	}
	inCore := make([]bool, d.n)
	for _, c := range core {
		inCore[c] = true
	}

	type cand struct {
		node int
		dist float64
	}
	cands := make([]cand, 0, d.n-len(core))
	for x := 0; x < d.n; x++ {
		if inCore[x] {
			continue
		}
		best := math.Inf(1)
		for _, c := range core {
			best = math.Min(best, d.at(c, x))
		}
		cands = append(cands, cand{node: x, dist: best})
	}
	slices.SortStableFunc(cands, func(a, b cand) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		}

		return 0
	})
	for _, c := range cands[:min(extra, len(cands))] {
		members = append(members, c.node)
	}
	slices.Sort(members)

	return members
}

// boundary lists members with a positive-weight edge to a non-member.
func boundary(d *dists, members []int) []int {
	in := make([]bool, d.n)
	for _, v := range members {
		in[v] = true
	}
	var out []int
	for _, u := range members {
		for j := 0; j < d.n; j++ {
			if !in[j] && d.at(u, j) > 0 {
				out = append(out, u)
				break
			}
		}
	}

	return out
}

// centroid averages the embedding coordinates of core; zero without coordinates.
func centroid(coords []float64, core []int) [2]float64 {
	var c [2]float64
	if coords == nil {
		return c
	}
	for _, v := range core {
		c[0] += coords[2*v]
		c[1] += coords[2*v+1]
	}
	c[0] /= float64(len(core))
	c[1] /= float64(len(core))

	return c
}

// chainOrder reorders parts by a nearest-neighbour walk over centroids,
// starting at parts[0] (which owns node 0). Ties keep the lower position.
func chainOrder(parts []Partition) []Partition {
	out := make([]Partition, 0, len(parts))
	used := make([]bool, len(parts))
	cur := 0
	for len(out) < len(parts) {
		used[cur] = true
		out = append(out, parts[cur])
		next, best := -1, math.Inf(1)
		for i := range parts {
			if used[i] {
				continue
			}
			dx := parts[i].Centroid[0] - parts[cur].Centroid[0]
			dy := parts[i].Centroid[1] - parts[cur].Centroid[1]
			if dd := dx*dx + dy*dy; dd < best {
				next, best = i, dd
			}
		}
		if next < 0 {
			break
		}
		cur = next
	}

	return out
}
