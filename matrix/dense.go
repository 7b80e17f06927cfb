// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Support copy-based submatrix extraction (Induced) so partitions own their data.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Induced: O(r'*c').
package matrix

import (
	"fmt"
	"math"
	"strings"
)

const (
	ctxAt     = "At"      // method tag used in error wrappers
	ctxSet    = "Set"     // method tag used in error wrappers
	ctxInduce = "Induced" // ctor tag for Dense.Induced
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense struct {
	r, c int
	data []float64
}

var (
	_ Matrix       = (*Dense)(nil)
	_ Sizer        = (*Dense)(nil)
	_ Flattener    = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
//
// Errors: ErrInvalidDimensions when rows<=0 or cols<=0.
// Complexity: Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFrom copies a rectangular [][]float64 into a new Dense.
// Ragged input (rows of different length) is rejected with ErrNonSquare when
// the first row defines the width and a later row disagrees.
//
// Complexity: O(r*c).
func NewDenseFrom(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	m, err := NewDense(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}

	var i int
	for i = range rows {
		if len(rows[i]) != m.c {
			return nil, fmt.Errorf("NewDenseFrom: row %d has %d cols, want %d: %w", i, len(rows[i]), m.c, ErrNonSquare)
		}
		copy(m.data[i*m.c:(i+1)*m.c], rows[i])
	}

	return m, nil
}

// NewDenseFlat wraps an existing row-major buffer without copying.
// The caller transfers ownership of data.
func NewDenseFlat(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("NewDenseFlat: len %d, want %d: %w", len(data), rows*cols, ErrInvalidDimensions)
	}

	return &Dense{r: rows, c: cols, data: data}, nil
}

// Rows returns the row count.
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count.
func (m *Dense) Cols() int { return m.c }

// Bytes reports the element buffer size.
func (m *Dense) Bytes() int64 { return int64(len(m.data)) * 8 }

// indexOf computes the row-major offset or returns ErrOutOfRange.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err)
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns ErrOutOfRange.
// Dense accepts any float value; distance policy lives in ValidateDistance.
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err)
	}
	m.data[off] = v

	return nil
}

// Clone returns a deep copy (new buffer).
func (m *Dense) Clone() Matrix {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &Dense{r: m.r, c: m.c, data: cp}
}

// Raw exposes the row-major buffer. Callers must treat it as read-only
// unless they own the matrix.
func (m *Dense) Raw() []float64 { return m.data }

// FlattenInto copies the buffer into dst.
func (m *Dense) FlattenInto(dst []float64) error {
	if len(dst) != len(m.data) {
		return fmt.Errorf("Dense.FlattenInto: len %d, want %d: %w", len(dst), len(m.data), ErrOutOfRange)
	}
	copy(dst, m.data)

	return nil
}

// String renders rows as lines with comma-separated values (diagnostics only).
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString("[")
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(", ")
			}
		}
		b.WriteString("]\n")
	}

	return b.String()
}

// Induced materializes a copy submatrix using explicit index sets.
//
// Behavior highlights:
//   - The result never aliases the receiver; it is safe to hand to another goroutine.
//   - Duplicates in index sets are allowed (repeated rows/cols in the result).
//
// Errors: ErrInvalidDimensions for empty index sets, ErrOutOfRange for bad indices.
// Complexity: Time O(rp*cp), Space O(rp*cp).
func (m *Dense) Induced(rowsIdx, colsIdx []int) (*Dense, error) {
	res, err := NewDense(len(rowsIdx), len(colsIdx))
	if err != nil {
		return nil, fmt.Errorf("Dense.%s: %w", ctxInduce, err)
	}

	var i, j, ri, cj int
	for i = 0; i < res.r; i++ {
		ri = rowsIdx[i]
		if ri < 0 || ri >= m.r {
			return nil, fmt.Errorf("Dense.%s: row index %d: %w", ctxInduce, ri, ErrOutOfRange)
		}
		for j = 0; j < res.c; j++ {
			cj = colsIdx[j]
			if cj < 0 || cj >= m.c {
				return nil, fmt.Errorf("Dense.%s: col index %d: %w", ctxInduce, cj, ErrOutOfRange)
			}
			res.data[i*res.c+j] = m.data[ri*m.c+cj]
		}
	}

	return res, nil
}

// Induce extracts the principal submatrix on idx from any Matrix into a fresh
// *Dense. It uses the Dense fast path when available.
//
// Complexity: O(k²) At calls for k=len(idx).
func Induce(m Matrix, idx []int) (*Dense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if d, ok := m.(*Dense); ok {
		return d.Induced(idx, idx)
	}
	res, err := NewDense(len(idx), len(idx))
	if err != nil {
		return nil, fmt.Errorf("Induce: %w", err)
	}

	var (
		i, j int
		v    float64
	)
	for i = range idx {
		for j = range idx {
			if v, err = m.At(idx[i], idx[j]); err != nil {
				return nil, fmt.Errorf("Induce: %w", err)
			}
			res.data[i*res.c+j] = v
		}
	}

	return res, nil
}

// ToDense returns m as a *Dense, copying when m uses another storage.
// A *Dense input is returned as is (no copy).
func ToDense(m Matrix) (*Dense, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	if f, ok := m.(Flattener); ok {
		if err = f.FlattenInto(out.data); err != nil {
			return nil, err
		}

		return out, nil
	}

	var (
		i, j int
		v    float64
	)
	for i = 0; i < out.r; i++ {
		for j = 0; j < out.c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}

// almostZero reports |x| ≤ tol.
func almostZero(x, tol float64) bool { return math.Abs(x) <= tol }
