package partition

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tspforge/matrix"
)

// dists reads a validated square matrix, with a flat fast path for *matrix.Dense.
type dists struct {
	n    int
	flat []float64
	m    matrix.Matrix
}

func newDists(m matrix.Matrix) *dists {
	d := &dists{n: m.Rows(), m: m}
	if dense, ok := m.(*matrix.Dense); ok {
		d.flat = dense.Raw()
	}

	return d
}

// at returns w(i,j). Indices are in range by construction.
func (d *dists) at(i, j int) float64 {
	if d.flat != nil {
		return d.flat[i*d.n+j]
	}
	v, _ := d.m.At(i, j)

	return v
}

// sym returns the symmetrized distance (w(i,j)+w(j,i))/2.
func (d *dists) sym(i, j int) float64 {
	return (d.at(i, j) + d.at(j, i)) / 2
}

// pickLandmarks selects up to count nodes by farthest-point traversal from node 0.
// Ties go to the lower index.
func pickLandmarks(d *dists, count int) []int {
	count = min(count, d.n)
	marks := make([]int, 0, count)
	minD := make([]float64, d.n)
	for i := range minD {
		minD[i] = math.Inf(1)
	}

	cur := 0
	for len(marks) < count {
		marks = append(marks, cur)
		minD[cur] = -1
		next, far := -1, -1.0
		for i := 0; i < d.n; i++ {
			if minD[i] < 0 {
				continue
			}
			if v := d.sym(cur, i); v < minD[i] {
				minD[i] = v
			}
			if minD[i] > far {
				next, far = i, minD[i]
			}
		}
		if next < 0 {
			break
		}
		cur = next
	}

	return marks
}

// embed recovers planar coordinates from distances by landmark MDS: classical
// MDS on the landmark set, then distance-based triangulation of every node.
// The result is row-major n×2.
//
// Complexity: O(L³ + n·L) for L landmarks.
func embed(d *dists, landmarks int) ([]float64, error) {
	marks := pickLandmarks(d, landmarks)
	l := len(marks)

	// Stage 1 - squared landmark distances and their row means.
	sq := make([]float64, l*l)
	mean := make([]float64, l)
	var grand float64
	for a := 0; a < l; a++ {
		for b := 0; b < l; b++ {
			v := d.sym(marks[a], marks[b])
			sq[a*l+b] = v * v
			mean[a] += v * v
		}
		mean[a] /= float64(l)
		grand += mean[a]
	}
	grand /= float64(l)

	// Stage 2 - double centering B = -½·J·D²·J.
	b := mat.NewSymDense(l, nil)
	for i := 0; i < l; i++ {
		for j := i; j < l; j++ {
			b.SetSym(i, j, -0.5*(sq[i*l+j]-mean[i]-mean[j]+grand))
		}
	}

	var es mat.EigenSym
	if !es.Factorize(b, true) {
		return nil, ErrNoConvergence
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// Stage 3 - pseudo-inverse rows for the two largest eigenvalues (ascending order).
	var pinv [2][]float64
	for axis := 0; axis < 2; axis++ {
		pinv[axis] = make([]float64, l)
		col := l - 1 - axis
		if col < 0 || vals[col] <= 1e-12 {
			continue
		}
		s := math.Sqrt(vals[col])
		for j := 0; j < l; j++ {
			pinv[axis][j] = vecs.At(j, col) / s
		}
	}

	// Stage 4 - triangulate every node: x = -½·L#·(δ - μ).
	coords := make([]float64, d.n*2)
	var delta float64
	for v := 0; v < d.n; v++ {
		var x, y float64
		for j, mk := range marks {
			delta = d.sym(v, mk)
			delta = delta*delta - mean[j]
			x += pinv[0][j] * delta
			y += pinv[1][j] * delta
		}
		coords[2*v] = -0.5 * x
		coords[2*v+1] = -0.5 * y
	}

	return coords, nil
}
