package partition

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// spectralEmbed returns the row-normalized top-k eigenvectors of the
// normalized affinity D^-½·A·D^-½, with A(i,j) = exp(-w²/2σ²) and σ the
// median off-diagonal distance. Row-major n×k.
//
// Degenerate affinities (σ = 0, isolated nodes) and factorization failure
// return ErrNoConvergence.
//
// Complexity: O(n³) for the eigendecomposition, O(n²) memory.
func spectralEmbed(d *dists, k int) ([]float64, error) {
	n := d.n
	off := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			off = append(off, d.sym(i, j))
		}
	}
	slices.Sort(off)
	sigma := off[len(off)/2]
	if sigma <= 0 || math.IsInf(sigma, 0) {
		return nil, ErrNoConvergence
	}
	scale := 1 / (2 * sigma * sigma)

	aff := make([]float64, n*n)
	deg := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := d.sym(i, j)
			a := math.Exp(-v * v * scale)
			aff[i*n+j], aff[j*n+i] = a, a
			deg[i] += a
			deg[j] += a
		}
	}
	for i, g := range deg {
		if g <= 0 {
			return nil, ErrNoConvergence
		}
		deg[i] = 1 / math.Sqrt(g)
	}

	norm := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			norm.SetSym(i, j, aff[i*n+j]*deg[i]*deg[j])
		}
	}

	var es mat.EigenSym
	if !es.Factorize(norm, true) {
		return nil, ErrNoConvergence
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// Largest eigenvalues are last.
	out := make([]float64, n*k)
	for i := 0; i < n; i++ {
		var length float64
		for c := 0; c < k; c++ {
			v := vecs.At(i, n-1-c)
			out[i*k+c] = v
			length += v * v
		}
		if length = math.Sqrt(length); length > 0 {
			for c := 0; c < k; c++ {
				out[i*k+c] /= length
			}
		}
	}

	return out, nil
}
