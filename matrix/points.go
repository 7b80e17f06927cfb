// SPDX-License-Identifier: MIT

// Package matrix: Euclidean instances from planar coordinates.
package matrix

import (
	"math"
)

// Point is a location in the plane.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// FromPoints returns the symmetric Euclidean distance matrix of pts.
// Coordinates must be finite; fewer than two points yield ErrTooSmall.
//
// Complexity: O(n²).
func FromPoints(pts []Point) (*Dense, error) {
	n := len(pts)
	if n < 2 {
		return nil, invalid(ErrTooSmall, "fewer than 2 points", -1, -1)
	}
	for i, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, invalid(ErrNaNInf, "non-finite coordinate", i, -1)
		}
	}

	data := make([]float64, n*n)
	var d float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d = math.Hypot(pts[i].X-pts[j].X, pts[i].Y-pts[j].Y)
			data[i*n+j] = d
			data[j*n+i] = d
		}
	}

	return &Dense{r: n, c: n, data: data}, nil
}
