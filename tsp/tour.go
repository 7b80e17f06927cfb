// Package tsp - tour utilities shared by exact/heuristic solvers and merge.
//
// Provided helpers:
//   - ValidateTour: closed-permutation invariant.
//   - RotateTourToStart / CopyTour: fresh copies, never aliasing the input.
//   - reverseArcInPlace: the 2-opt primitive.
//   - closePath: turn an open Hamiltonian path from 0 into a closed tour.
package tsp

// ValidateTour enforces the Hamiltonian-cycle invariant:
//
//	len(tour) == n+1, tour[0]==tour[n]==start,
//	each vertex v∈[0..n-1] appears exactly once in positions [0..n-1].
//
// Complexity: O(n) time, O(n) space.
func ValidateTour(tour []int, n int, start int) error {
	if n <= 0 || len(tour) != n+1 {
		return ErrInvalidTour
	}
	if start < 0 || start >= n || tour[0] != start || tour[n] != start {
		return ErrInvalidTour
	}

	seen := make([]bool, n)
	var (
		i int
		v int
	)
	for i = 0; i < n; i++ {
		v = tour[i]
		if v < 0 || v >= n || seen[v] {
			return ErrInvalidTour
		}
		seen[v] = true
	}

	return nil
}

// RotateTourToStart returns a fresh closed copy of tour shifted so that
// out[0] == out[n] == start. The input may be closed (len n+1) or an open path (len n).
//
// Complexity: O(n) time, O(n) space.
func RotateTourToStart(tour []int, start int) ([]int, error) {
	if len(tour) == 0 {
		return nil, ErrInvalidTour
	}
	n := len(tour)
	if n > 1 && tour[0] == tour[n-1] {
		n--
	}

	pivot := -1
	for i := 0; i < n; i++ {
		if tour[i] == start {
			pivot = i
			break
		}
	}
	if pivot == -1 {
		return nil, ErrInvalidTour
	}

	out := make([]int, n+1)
	for i := 0; i < n; i++ {
		out[i] = tour[(pivot+i)%n]
	}
	out[n] = start

	return out, nil
}

// CopyTour returns an independent copy of the input tour slice.
func CopyTour(tour []int) []int {
	if tour == nil {
		return nil
	}
	out := make([]int, len(tour))
	copy(out, tour)

	return out
}

// reverseArcInPlace reverses the inclusive segment tour[i..k] in place,
// keeping the closing vertex intact. Callers guarantee 1 ≤ i < k ≤ n-1.
//
// Complexity: O(k-i) time, O(1) space.
func reverseArcInPlace(tour []int, i, k int) {
	for i < k {
		tour[i], tour[k] = tour[k], tour[i]
		i++
		k--
	}
}

// closePath appends the start vertex to an open path that begins with it.
func closePath(path []int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = path[0]

	return out
}
