// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All validators and storages MUST return these sentinels (optionally wrapped
// with context via %w) and tests MUST check them via errors.Is.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNilMatrix indicates that a nil Matrix was passed.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrTooSmall signals a distance matrix with fewer than two nodes.
	ErrTooSmall = errors.New("matrix: distance matrix needs at least 2 nodes")

	// ErrNegativeWeight signals a negative off-diagonal distance.
	ErrNegativeWeight = errors.New("matrix: negative distance")

	// ErrNonZeroDiagonal signals a diagonal entry that is not ~0.
	ErrNonZeroDiagonal = errors.New("matrix: diagonal not zero")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrAsymmetry signals a matrix that was required to be symmetric but is not.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric")

	// ErrReadOnly is returned by Set on storages that do not support writes
	// after construction (packed or mapped representations).
	ErrReadOnly = errors.New("matrix: storage is read-only")
)

// ValidationError describes why a distance matrix was rejected.
// Row/Col locate the offending entry when the reason is entry-specific,
// and are -1 otherwise. Err is always one of the sentinels above.
type ValidationError struct {
	Reason string
	Row    int
	Col    int
	Err    error
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("invalid distance matrix: %s", e.Reason)
	}

	return fmt.Sprintf("invalid distance matrix: %s at (%d,%d)", e.Reason, e.Row, e.Col)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, reason string, row, col int) *ValidationError {
	return &ValidationError{Reason: reason, Row: row, Col: col, Err: err}
}
