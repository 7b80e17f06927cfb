// SPDX-License-Identifier: MIT

// Package matrix provides the distance-matrix storages and validators used by
// the tspforge solvers.
//
// What:
//
//   - Matrix: a storage-agnostic interface (Rows, Cols, At, Set, Clone) whose
//     accessors return ErrOutOfRange instead of panicking.
//   - Dense: row-major float64, the working representation of every solver.
//   - Dense32: row-major float32, half the memory at float32 precision.
//   - Triangular: packed upper triangle of a symmetric matrix (≈ quarter of Dense).
//   - ValidateDistance: the single gate for distance policy
//     (square, n ≥ 2, finite, zero diagonal, non-negative, optional symmetry).
//
// Why:
//
//   - Large instances are dominated by the n² matrix, so compact storages let the
//     memory optimizer trade precision and layout for footprint while callers keep
//     the same interface.
//   - Solvers flatten whichever storage they get into a private []float64 once
//     (Flattener fast path), then run on the flat buffer.
//
// Errors:
//
//	ValidateDistance reports *ValidationError{Reason, Row, Col, Err}; use
//	errors.Is(err, matrix.ErrNegativeWeight) etc. to branch on the cause.
//
// Complexity:
//
//	At/Set O(1) on every storage; conversions and validation O(n²).
package matrix
