// SPDX-License-Identifier: MIT

package matrix

import "fmt"

// Dense32 is a row-major n×m matrix stored in float32.
// Values are widened to float64 on read and narrowed on write, so lookups
// carry float32 precision (~7 significant digits).
type Dense32 struct {
	r, c int
	data []float32
}

var (
	_ Matrix    = (*Dense32)(nil)
	_ Sizer     = (*Dense32)(nil)
	_ Flattener = (*Dense32)(nil)
)

// NewDense32 allocates a zero rows×cols float32 matrix.
func NewDense32(rows, cols int) (*Dense32, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense32{r: rows, c: cols, data: make([]float32, rows*cols)}, nil
}

// Downcast copies any Matrix into float32 storage.
// Complexity: O(r*c).
func Downcast(m Matrix) (*Dense32, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	out, err := NewDense32(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	if d, ok := m.(*Dense); ok {
		for k, v := range d.data {
			out.data[k] = float32(v)
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
				return nil, fmt.Errorf("Downcast: %w", err)
			}
			out.data[i*out.c+j] = float32(v)
		}
	}

	return out, nil
}

// Rows returns the row count.
func (m *Dense32) Rows() int { return m.r }

// Cols returns the column count.
func (m *Dense32) Cols() int { return m.c }

// Bytes reports the element buffer size.
func (m *Dense32) Bytes() int64 { return int64(len(m.data)) * 4 }

// At returns the widened value at (row, col).
func (m *Dense32) At(row, col int) (float64, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, fmt.Errorf("Dense32.At(%d,%d): %w", row, col, ErrOutOfRange)
	}

	return float64(m.data[row*m.c+col]), nil
}

// Set narrows v to float32 and stores it.
func (m *Dense32) Set(row, col int, v float64) error {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return fmt.Errorf("Dense32.Set(%d,%d): %w", row, col, ErrOutOfRange)
	}
	m.data[row*m.c+col] = float32(v)

	return nil
}

// Clone returns a deep copy.
func (m *Dense32) Clone() Matrix {
	cp := make([]float32, len(m.data))
	copy(cp, m.data)

	return &Dense32{r: m.r, c: m.c, data: cp}
}

// FlattenInto widens the whole buffer into dst.
func (m *Dense32) FlattenInto(dst []float64) error {
	if len(dst) != len(m.data) {
		return fmt.Errorf("Dense32.FlattenInto: len %d, want %d: %w", len(dst), len(m.data), ErrOutOfRange)
	}
	for k, v := range m.data {
		dst[k] = float64(v)
	}

	return nil
}
