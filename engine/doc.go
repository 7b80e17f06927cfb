// Package engine is the boundary of the solver: it validates a distance
// matrix, shrinks its footprint when large (memopt), and either solves it
// directly through the strategy selector and fallback chain (tsp) or, above
// Config.DirectCeiling, partitions it (partition), solves the parts
// concurrently and merges them (batch).
//
// Loggers travel in the context (WithLogger / Logger). Every surfaced error
// is a *SolveError naming the attempted strategy and the instance size.
package engine
