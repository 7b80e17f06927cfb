// SPDX-License-Identifier: MIT

// Package matrix: metric closure of sparse distance inputs.
//
// Road-network style inputs leave pairs without a direct connection (+Inf).
// The closure replaces every entry with the shortest-path distance through
// intermediate nodes (Floyd–Warshall, fixed k → i → j order), which keeps the
// tour problem well posed and makes the result satisfy the triangle inequality.
package matrix

import (
	"fmt"
	"math"
)

// MetricClosure returns a new Dense holding all-pairs shortest-path distances of m.
// +Inf entries denote missing connections; the diagonal is forced to 0.
// Pairs that stay unreachable remain +Inf.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNegativeWeight (negative entries would
// make shortest paths undefined), ErrNaNInf for NaN.
//
// Complexity: O(n³) time, O(n²) space.
func MetricClosure(m Matrix) (*Dense, error) {
	if m == nil {
		return nil, invalid(ErrNilMatrix, "nil matrix", -1, -1)
	}
	if m.Rows() != m.Cols() {
		return nil, invalid(ErrNonSquare, fmt.Sprintf("shape %dx%d", m.Rows(), m.Cols()), -1, -1)
	}
	var d *Dense
	if src, ok := m.(*Dense); ok {
		d = src.Clone().(*Dense)
	} else {
		var err error
		if d, err = ToDense(m); err != nil {
			return nil, err
		}
	}

	n := d.r
	data := d.data
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := data[i*n+j]
			switch {
			case math.IsNaN(v):
				return nil, invalid(ErrNaNInf, "NaN entry", i, j)
			case v < 0:
				return nil, invalid(ErrNegativeWeight, "negative entry", i, j)
			}
		}
		data[i*n+i] = 0
	}
	floydWarshall(data, n)

	return d, nil
}

// floydWarshall relaxes the row-major n×n buffer in place.
func floydWarshall(data []float64, n int) {
	var (
		ik, kj, cand float64
		baseK, baseI int
	)
	for k := 0; k < n; k++ {
		baseK = k * n
		for i := 0; i < n; i++ {
			ik = data[i*n+k]
			if math.IsInf(ik, 1) {
				continue
			}
			baseI = i * n
			for j := 0; j < n; j++ {
				kj = data[baseK+j]
				if math.IsInf(kj, 1) {
					continue
				}
				if cand = ik + kj; cand < data[baseI+j] {
					data[baseI+j] = cand
				}
			}
		}
	}
}

// Reachable reports whether every off-diagonal entry of m is finite.
func Reachable(m Matrix) (bool, error) {
	n := m.Rows()
	for i := 0; i < n; i++ {
		for j := 0; j < m.Cols(); j++ {
			v, err := m.At(i, j)
			if err != nil {
				return false, err
			}
			if i != j && math.IsInf(v, 1) {
				return false, nil
			}
		}
	}

	return true, nil
}
