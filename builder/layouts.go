// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/tspforge/matrix"
)

// Layout names a generator for command-line and config use.
type Layout string

// Supported layouts.
const (
	LayoutUniform   Layout = "uniform"
	LayoutClustered Layout = "clustered"
	LayoutGrid      Layout = "grid"
	LayoutCircle    Layout = "circle"
)

// Generate dispatches to the generator named by layout. Grid uses the
// smallest near-square lattice holding at least n points and truncates it.
func Generate(layout Layout, n int, opts ...Option) ([]matrix.Point, error) {
	switch layout {
	case LayoutUniform:
		return Uniform(n, opts...)
	case LayoutClustered:
		return Clustered(n, opts...)
	case LayoutGrid:
		if n < 2 {
			return nil, fmt.Errorf("Grid: n=%d: %w", n, ErrTooFewPoints)
		}
		cols := int(math.Ceil(math.Sqrt(float64(n))))
		rows := (n + cols - 1) / cols
		pts, err := Grid(max(rows, 1), cols, opts...)
		if err != nil {
			return nil, err
		}

		return pts[:n], nil
	case LayoutCircle:
		return Circle(n, opts...)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
}

// Uniform draws n points uniformly from [0,Scale)².
//
// Complexity: O(n).
func Uniform(n int, opts ...Option) ([]matrix.Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("Uniform: n=%d: %w", n, ErrTooFewPoints)
	}
	cfg := newConfig(opts...)
	pts := make([]matrix.Point, n)
	for i := range pts {
		pts[i] = matrix.Point{X: cfg.rng.Float64() * cfg.scale, Y: cfg.rng.Float64() * cfg.scale}
	}

	return pts, nil
}

// Clustered places k uniform centres and draws points round-robin from
// Gaussian blobs of σ = Spread·Scale around them.
//
// Complexity: O(n).
func Clustered(n int, opts ...Option) ([]matrix.Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("Clustered: n=%d: %w", n, ErrTooFewPoints)
	}
	cfg := newConfig(opts...)
	k := cfg.clusters
	if k == 0 {
		k = int(math.Ceil(math.Sqrt(float64(n))))
	}
	k = min(k, n)

	centres := make([]matrix.Point, k)
	for c := range centres {
		centres[c] = matrix.Point{X: cfg.rng.Float64() * cfg.scale, Y: cfg.rng.Float64() * cfg.scale}
	}
	sigma := cfg.spread * cfg.scale
	pts := make([]matrix.Point, n)
	for i := range pts {
		c := centres[i%k]
		pts[i] = matrix.Point{X: c.X + cfg.rng.NormFloat64()*sigma, Y: c.Y + cfg.rng.NormFloat64()*sigma}
	}

	return pts, nil
}

// Grid returns a rows×cols lattice with cell size Scale/max(rows,cols),
// in row-major order, each point jittered by up to ±Jitter·cell.
//
// Complexity: O(rows·cols).
func Grid(rows, cols int, opts ...Option) ([]matrix.Point, error) {
	if rows < 1 || cols < 1 || rows*cols < 2 {
		return nil, fmt.Errorf("Grid: %dx%d: %w", rows, cols, ErrTooFewPoints)
	}
	cfg := newConfig(opts...)
	cell := cfg.scale / float64(max(rows, cols))
	pts := make([]matrix.Point, 0, rows*cols)
	var dx, dy float64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if cfg.jitter > 0 {
				dx = (2*cfg.rng.Float64() - 1) * cfg.jitter * cell
				dy = (2*cfg.rng.Float64() - 1) * cfg.jitter * cell
			}
			pts = append(pts, matrix.Point{X: float64(c)*cell + dx, Y: float64(r)*cell + dy})
		}
	}

	return pts, nil
}

// Circle places n points at random angles on a circle of radius Scale/2.
// The points are in convex position: visiting them by angle is an optimal tour.
//
// Complexity: O(n).
func Circle(n int, opts ...Option) ([]matrix.Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("Circle: n=%d: %w", n, ErrTooFewPoints)
	}
	cfg := newConfig(opts...)
	r := cfg.scale / 2
	pts := make([]matrix.Point, n)
	for i := range pts {
		a := cfg.rng.Float64() * 2 * math.Pi
		pts[i] = matrix.Point{X: r + r*math.Cos(a), Y: r + r*math.Sin(a)}
	}

	return pts, nil
}
