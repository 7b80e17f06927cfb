// Package partition splits a large TSP instance into overlapping sub-instances.
//
// Base assignment (Strategy):
//   - Contiguous: balanced blocks of consecutive node ids. Always available.
//   - KMeans:     k-means++ and Lloyd over 2-D coordinates recovered from the
//     distance matrix by landmark multidimensional scaling.
//   - Spectral:   Gaussian affinity, normalized affinity eigenvectors (gonum
//     EigenSym), row normalization, then k-means in the spectral space.
//     Failure to factorize falls back to Contiguous.
//
// The number of parts is k = max(2, ⌈n / MaxSize⌉); a cluster larger than
// MaxSize is split into contiguous chunks. Every part then receives
// ⌊|core|·Overlap⌋ overlap nodes: the external nodes closest to any core
// member. Cores are disjoint and cover 0..n-1; overlap nodes give each local
// solve some visibility across its border.
//
// Parts are ordered by a nearest-neighbour chain over their centroids that
// starts at the part owning node 0, so consecutive parts are spatially close.
//
// The package is pure: no logging, no goroutines, deterministic for a seed.
package partition
