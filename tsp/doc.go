// Package tsp provides Travelling Salesman Problem solvers on a distance matrix
// (matrix.Matrix) and a dispatcher that chooses among them.
//
// Solvers:
//
//   - SolveExact — Held–Karp dynamic programming, optimal.
//     Complexity O(n²·2ⁿ), memory O(n·2ⁿ); ceiling Options.ExactMaxSize (default 20).
//
//   - SolveConstructive — randomized nearest neighbour and Clarke–Wright savings
//     candidates, each refined by single-level Lin–Kernighan steps. Never fails.
//
//   - SolveBeam — bounded-width search with greedy lookahead scoring, polished by
//     first-improvement 2-opt and (for n ≤ 30) 3-opt. Never fails.
//
//   - SolveAnneal — simulated annealing over random segment reversals. Never fails.
//
//   - NearestNeighbor — pure greedy construction; the terminal fallback.
//
// Solve routes through Chain(head): a failing member (ErrSizeExceeded,
// ErrInfeasible, ErrDeadline) hands over to the next, and the failure is
// recorded in Result.Fallbacks. With Strategy == Auto the head comes from the
// rule-based Selector.
//
// Tours are closed and start at node 0: len(Tour) == n+1, Tour[0] == Tour[n] == 0.
// Distances are rounded to 1e-9. A value of math.Inf(1) in the matrix means
// "no edge"; solvers never choose such an edge by improvement, and Held–Karp
// reports ErrInfeasible when no cycle avoids them.
//
// Deadlines are cooperative (see Deadline): solvers check them between
// rounds and return their best-so-far tour. All randomness derives from
// Options.Seed, so results are reproducible for a given seed.
package tsp
