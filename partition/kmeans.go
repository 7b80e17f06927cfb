package partition

import (
	"math"
	"math/rand"
)

// sqDist is the squared Euclidean distance between two dim-length rows.
func sqDist(a, b []float64) float64 {
	var s, t float64
	for i := range a {
		t = a[i] - b[i]
		s += t * t
	}

	return s
}

// seedCentroids runs k-means++: the first centre is uniform, later ones are
// drawn with probability proportional to the squared distance to the nearest
// chosen centre.
func seedCentroids(vecs []float64, dim, k int, rng *rand.Rand) []float64 {
	n := len(vecs) / dim
	cents := make([]float64, 0, k*dim)
	first := rng.Intn(n)
	cents = append(cents, vecs[first*dim:(first+1)*dim]...)

	near := make([]float64, n)
	for i := range near {
		near[i] = sqDist(vecs[i*dim:(i+1)*dim], cents[:dim])
	}
	for c := 1; c < k; c++ {
		var total float64
		for _, v := range near {
			total += v
		}
		pick := rng.Intn(n)
		if total > 0 {
			r := rng.Float64() * total
			for i, v := range near {
				if r -= v; r <= 0 {
					pick = i
					break
				}
			}
		}
		row := vecs[pick*dim : (pick+1)*dim]
		cents = append(cents, row...)
		for i := range near {
			if s := sqDist(vecs[i*dim:(i+1)*dim], row); s < near[i] {
				near[i] = s
			}
		}
	}

	return cents
}

// kmeans clusters the row-major n×dim vectors into k groups with Lloyd
// iterations and returns the assignment of every row.
//
// Complexity: O(maxIter · n · k · dim).
func kmeans(vecs []float64, dim, k, maxIter int, rng *rand.Rand) []int {
	n := len(vecs) / dim
	cents := seedCentroids(vecs, dim, k, rng)
	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	counts := make([]int, k)
	sums := make([]float64, k*dim)

	for iter := 0; iter < maxIter; iter++ {
		changed := false

		// Assignment step.
		for i := 0; i < n; i++ {
			vec := vecs[i*dim : (i+1)*dim]
			best, bestD := 0, math.Inf(1)
			for c := 0; c < k; c++ {
				if s := sqDist(vec, cents[c*dim:(c+1)*dim]); s < bestD {
					best, bestD = c, s
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		// Update step.
		clear(sums)
		clear(counts)
		for i := 0; i < n; i++ {
			c := assign[i]
			for x := 0; x < dim; x++ {
				sums[c*dim+x] += vecs[i*dim+x]
			}
			counts[c]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster from a random row.
				idx := rng.Intn(n)
				copy(cents[c*dim:(c+1)*dim], vecs[idx*dim:(idx+1)*dim])
				continue
			}
			inv := 1 / float64(counts[c])
			for x := 0; x < dim; x++ {
				cents[c*dim+x] = sums[c*dim+x] * inv
			}
		}
	}

	return assign
}
