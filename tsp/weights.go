// Package tsp - weight prefetch shared by every solver.
//
// Solvers never call matrix.Matrix.At inside hot loops. Each entry point
// flattens the input once into w[i*n+j] and then reads through at(u,v).
//
// Contracts:
//   - NaN or negative entries → ErrNegativeWeight (ill-posed input).
//   - +Inf entries are allowed and mean "no edge": moves relying on them are rejected,
//     and Held–Karp reports ErrInfeasible when every cycle uses one.
package tsp

import (
	"math"

	"github.com/katalvlaran/tspforge/matrix"
)

// symTolerance is the absolute tolerance of the symmetry probe.
const symTolerance = 1e-9

// weights is the flat, read-only view used by solvers.
type weights struct {
	n   int
	w   []float64
	sym bool
}

// prefetch flattens m into a private buffer and probes symmetry.
//
// Complexity: O(n²) time and space.
func prefetch(m matrix.Matrix) (*weights, error) {
	if m == nil {
		return nil, ErrDimensionMismatch
	}
	n := m.Rows()
	if n < 2 || n != m.Cols() {
		return nil, ErrDimensionMismatch
	}

	buf := make([]float64, n*n)
	if f, ok := m.(matrix.Flattener); ok {
		if err := f.FlattenInto(buf); err != nil {
			return nil, ErrDimensionMismatch
		}
	} else {
		var (
			i, j int
			x    float64
			err  error
		)
		for i = 0; i < n; i++ {
			for j = 0; j < n; j++ {
				if x, err = m.At(i, j); err != nil {
					return nil, ErrDimensionMismatch
				}
				buf[i*n+j] = x
			}
		}
	}

	var x float64
	for _, x = range buf {
		if math.IsNaN(x) || x < 0 {
			return nil, ErrNegativeWeight
		}
	}

	wt := &weights{n: n, w: buf, sym: true}
	var i, j int
	for i = 0; i < n && wt.sym; i++ {
		for j = i + 1; j < n; j++ {
			if math.Abs(buf[i*n+j]-buf[j*n+i]) > symTolerance {
				wt.sym = false
				break
			}
		}
	}

	return wt, nil
}

// at is the hot-path accessor.
func (w *weights) at(u, v int) float64 { return w.w[u*w.n+v] }

// cost sums the closed tour t (len n+1). +Inf propagates.
//
// Complexity: O(n).
func (w *weights) cost(t []int) float64 {
	var (
		s float64
		i int
	)
	for i = 0; i+1 < len(t); i++ {
		s += w.w[t[i]*w.n+t[i+1]]
	}

	return s
}
