// Package tsp - cost utilities shared by the solvers and the merge step.
//
// Design:
//   - Dense fast path, generic matrix.Matrix path otherwise.
//   - Stable summation: rounded to 1e-9 to avoid cross-platform FP noise.
package tsp

import (
	"math"

	"github.com/katalvlaran/tspforge/matrix"
)

// roundScale controls final cost stabilization precision (1e-9).
const roundScale = 1e9

// round1e9 rounds x to 1e-9. Non-finite values pass through.
func round1e9(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}

	return math.Round(x*roundScale) / roundScale
}

// TourCost returns the length of a closed tour on dist.
//
// Contract:
//   - len(tour) ≥ 2 and every index within [0..n-1].
//   - Returns ErrDimensionMismatch on shape errors, ErrInfeasible when an
//     edge is +Inf, ErrNegativeWeight on NaN/negative edges.
//
// Complexity: O(len(tour)).
func TourCost(dist matrix.Matrix, tour []int) (float64, error) {
	if dist == nil || len(tour) < 2 {
		return 0, ErrDimensionMismatch
	}
	n := dist.Rows()
	if n != dist.Cols() {
		return 0, ErrDimensionMismatch
	}

	var (
		raw   []float64
		dense bool
	)
	if d, ok := dist.(*matrix.Dense); ok {
		raw, dense = d.Raw(), true
	}

	var (
		sum  float64
		x    float64
		u, v int
		err  error
	)
	for i := 0; i+1 < len(tour); i++ {
		u, v = tour[i], tour[i+1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return 0, ErrDimensionMismatch
		}
		if dense {
			x = raw[u*n+v]
		} else if x, err = dist.At(u, v); err != nil {
			return 0, ErrDimensionMismatch
		}
		switch {
		case math.IsNaN(x) || x < 0:
			return 0, ErrNegativeWeight
		case math.IsInf(x, 1):
			return 0, ErrInfeasible
		}
		sum += x
	}

	return round1e9(sum), nil
}
