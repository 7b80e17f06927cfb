// SPDX-License-Identifier: MIT

// Package builder generates synthetic TSP instances as planar point sets.
//
// Layouts:
//   - Uniform:   points drawn uniformly from a Scale×Scale square.
//   - Clustered: Gaussian blobs around uniformly placed centres.
//   - Grid:      a rows×cols lattice with optional jitter.
//   - Circle:    points at random angles on a circle (convex position, so the
//     angular order is the optimal tour).
//
// Configuration follows the functional-options pattern: option constructors
// panic on meaningless inputs, generators return sentinel errors for invalid
// sizes. With the same seed every generator is deterministic.
//
// Points convert to a distance matrix with matrix.FromPoints.
package builder
