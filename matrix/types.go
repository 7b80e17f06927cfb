// SPDX-License-Identifier: MIT

// Package matrix: the storage-agnostic Matrix interface.
package matrix

// Matrix represents a two-dimensional array of float64 values.
//
// Implementations in this package:
//   - *Dense      — row-major float64 (mutable).
//   - *Dense32    — row-major float32, half the footprint (mutable, lossy).
//   - *Triangular — packed upper triangle with mirrored lookups (read-only).
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange on invalid indices, ErrReadOnly on read-only storages.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}

// Sizer is implemented by storages that can report their payload size.
type Sizer interface {
	// Bytes returns the number of bytes held by the element buffer.
	Bytes() int64
}

// Flattener is implemented by storages able to copy themselves into a
// row-major float64 buffer faster than n² calls to At.
type Flattener interface {
	// FlattenInto writes the n×n row-major contents into dst (len(dst) == Rows()*Cols()).
	FlattenInto(dst []float64) error
}

// DenseBytes is the footprint of an n×n float64 matrix.
func DenseBytes(n int) int64 { return int64(n) * int64(n) * 8 }
