// Package tspforge solves travelling salesman instances given as distance
// matrices, from a handful of cities up to tens of thousands.
//
// What is inside?
//
//	A layered engine that picks a solver for the instance and the time it has:
//		• Exact: Held–Karp dynamic programming for small n
//		• Beam: bounded-width search with lookahead, then 2-opt/3-opt polish
//		• Constructive: randomized nearest neighbour and savings, refined by LK steps
//		• Anneal: simulated annealing over segment reversals
//		• Nearest: the fallback that cannot fail
//
// Large instances are split into overlapping parts, solved concurrently,
// stitched back into one tour and polished across the seams. Big matrices
// are stored as float32, packed triangles or memory-mapped files.
//
// Layout:
//
//	matrix/    — dense, float32 and packed distance matrices, validation, metric closure
//	builder/   — random Euclidean instances (uniform, clustered, grid, circle)
//	tsp/       — solvers, selector, fallback chain, deadlines, lower bound
//	partition/ — contiguous, k-means and spectral splitting with overlap
//	batch/     — concurrent partition solves, bbolt checkpoints, merge
//	memopt/    — footprint reduction and the advisory memory budget
//	engine/    — the solving boundary: validate, optimize, solve or partition
//	config/    — viper-backed YAML/env configuration
//	internal/cli — cobra commands: solve, select, partition, validate, generate
//	cmd/tspsolve — the command-line front end
//
// Quick example:
//
//	e, _ := engine.New(engine.DefaultConfig())
//	defer e.Close()
//	res, err := e.Solve(ctx, m, engine.Request{TimeBudget: time.Second})
//
//	go install github.com/katalvlaran/tspforge/cmd/tspsolve@latest
package tspforge
