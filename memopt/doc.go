// Package memopt shrinks the in-memory footprint of large distance matrices.
//
// Optimize applies, in order:
//   - float32 storage (matrix.Dense32), halving the footprint;
//   - packed upper-triangle storage (matrix.Triangular) when the matrix is
//     symmetric, halving it again;
//   - a memory-mapped temporary file (Mapped) when the packed size still
//     exceeds Config.BudgetBytes.
//
// Matrices whose float64 footprint n²·8 is below Config.ThresholdBytes are
// returned untouched. Every optimized matrix answers At within float32
// precision of the source, so solver output stays valid.
//
// The memory budget is advisory: heap-resident results reserve their size on
// a weighted semaphore, and a reservation that does not fit is logged, never
// refused.
package memopt
