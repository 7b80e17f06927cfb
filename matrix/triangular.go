// SPDX-License-Identifier: MIT

package matrix

import "fmt"

// Triangular stores the upper triangle (diagonal included) of a symmetric
// n×n matrix in a packed float32 slice of length n(n+1)/2.
// Lookups below the diagonal are mirrored: At(i,j) == At(j,i).
//
// Triangular is read-only after construction; Set returns ErrReadOnly.
type Triangular struct {
	n    int
	data []float32
}

var (
	_ Matrix    = (*Triangular)(nil)
	_ Sizer     = (*Triangular)(nil)
	_ Flattener = (*Triangular)(nil)
)

// PackedLen is the number of packed entries for an n×n upper triangle.
func PackedLen(n int) int { return n * (n + 1) / 2 }

// PackedIndex maps (i,j) with i ≤ j to its offset in the packed triangle.
// Row i starts at i*n - i(i-1)/2.
func PackedIndex(n, i, j int) int {
	if i > j {
		i, j = j, i
	}

	return i*n - i*(i-1)/2 + (j - i)
}

// NewTriangular packs the upper triangle of a square matrix.
// The caller is responsible for m being symmetric (see IsSymmetric); the
// lower triangle is ignored.
//
// Complexity: O(n²) time, n(n+1)/2 float32 space.
func NewTriangular(m Matrix) (*Triangular, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	n := m.Rows()
	if n != m.Cols() {
		return nil, fmt.Errorf("NewTriangular: %dx%d: %w", n, m.Cols(), ErrNonSquare)
	}
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}

	t := &Triangular{n: n, data: make([]float32, PackedLen(n))}
	var (
		i, j, k int
		v       float64
		err     error
	)
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, fmt.Errorf("NewTriangular: %w", err)
			}
			t.data[k] = float32(v)
			k++
		}
	}

	return t, nil
}

// NewTriangularPacked wraps an existing packed buffer (no copy).
func NewTriangularPacked(n int, packed []float32) (*Triangular, error) {
	if n <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(packed) != PackedLen(n) {
		return nil, fmt.Errorf("NewTriangularPacked: len %d, want %d: %w", len(packed), PackedLen(n), ErrInvalidDimensions)
	}

	return &Triangular{n: n, data: packed}, nil
}

// Rows returns n.
func (t *Triangular) Rows() int { return t.n }

// Cols returns n.
func (t *Triangular) Cols() int { return t.n }

// Bytes reports the packed buffer size.
func (t *Triangular) Bytes() int64 { return int64(len(t.data)) * 4 }

// Packed exposes the packed buffer (read-only by contract).
func (t *Triangular) Packed() []float32 { return t.data }

// At returns the mirrored value at (i, j).
func (t *Triangular) At(i, j int) (float64, error) {
	if i < 0 || i >= t.n || j < 0 || j >= t.n {
		return 0, fmt.Errorf("Triangular.At(%d,%d): %w", i, j, ErrOutOfRange)
	}

	return float64(t.data[PackedIndex(t.n, i, j)]), nil
}

// Set always fails: packed storage is immutable.
func (t *Triangular) Set(i, j int, _ float64) error {
	return fmt.Errorf("Triangular.Set(%d,%d): %w", i, j, ErrReadOnly)
}

// Clone returns a deep copy.
func (t *Triangular) Clone() Matrix {
	cp := make([]float32, len(t.data))
	copy(cp, t.data)

	return &Triangular{n: t.n, data: cp}
}

// FlattenInto expands the triangle into a full row-major buffer.
func (t *Triangular) FlattenInto(dst []float64) error {
	if len(dst) != t.n*t.n {
		return fmt.Errorf("Triangular.FlattenInto: len %d, want %d: %w", len(dst), t.n*t.n, ErrOutOfRange)
	}

	var i, j, k int
	var v float64
	for i = 0; i < t.n; i++ {
		for j = i; j < t.n; j++ {
			v = float64(t.data[k])
			dst[i*t.n+j] = v
			dst[j*t.n+i] = v
			k++
		}
	}

	return nil
}
