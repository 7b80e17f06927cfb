// SPDX-License-Identifier: MIT
// Package matrix: distance-matrix validators.
//
// Purpose:
//   - Centralize the distance policy (square, finite, non-negative, zero diagonal)
//     so solvers can assume a well-formed input and never re-check it.
//   - Report the first offending entry with its coordinates.
//
// Determinism: entries are scanned in row-major order, so the reported entry
// is always the first violation in that order.

package matrix

import (
	"math"
)

// DefaultTolerance is the absolute tolerance used for the diagonal and symmetry checks.
const DefaultTolerance = 1e-9

// ValidateDistance checks that m is a usable distance matrix.
//
// Rules (checked in this order):
//  1. m != nil                  → else ErrNilMatrix
//  2. Rows()==Cols()            → else ErrNonSquare
//  3. n ≥ 2                     → else ErrTooSmall
//  4. every entry finite        → else ErrNaNInf
//  5. |m[i][i]| ≤ tol           → else ErrNonZeroDiagonal
//  6. m[i][j] ≥ 0 (i≠j)         → else ErrNegativeWeight
//  7. requireSymmetric ⇒ |m[i][j]-m[j][i]| ≤ tol → else ErrAsymmetry
//
// Every failure is returned as *ValidationError (errors.Is works on the sentinel).
//
// Complexity: O(n²) time, O(1) extra space.
func ValidateDistance(m Matrix, requireSymmetric bool) error {
	if m == nil {
		return invalid(ErrNilMatrix, "nil matrix", -1, -1)
	}
	n := m.Rows()
	if n != m.Cols() {
		return invalid(ErrNonSquare, "matrix is not square", -1, -1)
	}
	if n < 2 {
		return invalid(ErrTooSmall, "fewer than 2 nodes", -1, -1)
	}

	var (
		i, j  int
		v, vt float64
		err   error
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if v, err = m.At(i, j); err != nil {
				return invalid(ErrOutOfRange, "unreadable entry", i, j)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid(ErrNaNInf, "non-finite distance", i, j)
			}
			if i == j {
				if !almostZero(v, DefaultTolerance) {
					return invalid(ErrNonZeroDiagonal, "non-zero diagonal", i, j)
				}
				continue
			}
			if v < 0 {
				return invalid(ErrNegativeWeight, "negative distance", i, j)
			}
			if requireSymmetric && j > i {
				if vt, err = m.At(j, i); err != nil {
					return invalid(ErrOutOfRange, "unreadable entry", j, i)
				}
				if !almostZero(v-vt, DefaultTolerance) {
					return invalid(ErrAsymmetry, "asymmetric distance", i, j)
				}
			}
		}
	}

	return nil
}

// IsSymmetric reports whether m[i][j] and m[j][i] agree within tol for all i<j.
// Non-square or unreadable matrices are reported as not symmetric.
//
// Complexity: O(n²).
func IsSymmetric(m Matrix, tol float64) bool {
	if m == nil || m.Rows() != m.Cols() {
		return false
	}
	if d, ok := m.(*Dense); ok {
		return denseSymmetric(d, tol)
	}

	var (
		n      = m.Rows()
		i, j   int
		a, b   float64
		ea, eb error
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			a, ea = m.At(i, j)
			b, eb = m.At(j, i)
			if ea != nil || eb != nil || !almostZero(a-b, tol) {
				return false
			}
		}
	}

	return true
}

// denseSymmetric is the flat-buffer fast path for IsSymmetric.
func denseSymmetric(d *Dense, tol float64) bool {
	var i, j int
	for i = 0; i < d.r; i++ {
		for j = i + 1; j < d.c; j++ {
			if !almostZero(d.data[i*d.c+j]-d.data[j*d.c+i], tol) {
				return false
			}
		}
	}

	return true
}
