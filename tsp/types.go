package tsp

import (
	"errors"
	"time"
)

// Strategy names a solving strategy.
type Strategy string

const (
	// Auto lets the AlgorithmSelector choose.
	Auto Strategy = ""
	// Exact is Held–Karp dynamic programming.
	Exact Strategy = "exact"
	// Beam is bounded-width search with lookahead, then local-search polish.
	Beam Strategy = "beam"
	// Constructive is randomized NN + savings construction refined by LK steps.
	Constructive Strategy = "constructive"
	// Anneal is simulated annealing over random segment reversals.
	Anneal Strategy = "anneal"
	// Nearest is pure nearest-neighbour; the terminal fallback that cannot fail.
	Nearest Strategy = "nearest"
)

// Strategies lists every selectable strategy in fallback priority order.
var Strategies = []Strategy{Exact, Beam, Constructive, Anneal, Nearest}

// ParseStrategy maps a user-facing name to a Strategy ("auto" and "" map to Auto).
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Auto, "auto":
		return Auto, nil
	case Exact, Beam, Constructive, Anneal, Nearest:
		return Strategy(s), nil
	}

	return Auto, ErrUnknownStrategy
}

// Sentinel errors. Solvers return these (optionally wrapped via %w) and
// callers branch with errors.Is.
var (
	// ErrDimensionMismatch reports a malformed tour or a non-square/unsized matrix.
	ErrDimensionMismatch = errors.New("tsp: dimension mismatch")

	// ErrNegativeWeight reports a negative or NaN distance seen during weight prefetch.
	ErrNegativeWeight = errors.New("tsp: negative or NaN distance")

	// ErrInvalidTour reports a tour that violates the closed-permutation invariant.
	ErrInvalidTour = errors.New("tsp: invalid tour")

	// ErrInfeasible reports that no full-visitation state is reachable
	// (e.g. +Inf entries cut every Hamiltonian cycle).
	ErrInfeasible = errors.New("tsp: no feasible tour")

	// ErrSizeExceeded reports an instance larger than a solver's ceiling.
	ErrSizeExceeded = errors.New("tsp: instance exceeds solver ceiling")

	// ErrDeadline reports that the time budget elapsed before a solver
	// produced any candidate. The dispatcher treats it as fallback, never surfaces it.
	ErrDeadline = errors.New("tsp: deadline exceeded")

	// ErrAsymmetricInput reports a solver step that requires symmetric distances.
	ErrAsymmetricInput = errors.New("tsp: symmetric distances required")

	// ErrUnknownStrategy reports an unrecognised strategy name.
	ErrUnknownStrategy = errors.New("tsp: unknown strategy")

	// ErrInvalidOptions reports option values outside their documented domain.
	ErrInvalidOptions = errors.New("tsp: invalid options")
)

// Result is the outcome of one solve. It is immutable after return.
type Result struct {
	// Tour has length n+1 with Tour[0]==Tour[n]==0; Tour[:n] is a permutation of 0..n-1.
	Tour []int

	// Distance is the closed tour length, rounded to 1e-9.
	Distance float64

	// Strategy is the strategy that produced Tour.
	Strategy Strategy

	// Iterations counts the solver's main-loop steps (layers, rounds, temperatures).
	Iterations int

	// Improvements counts accepted improving moves.
	Improvements int

	// Optimal is true only when Tour is provably optimal (Held–Karp).
	Optimal bool

	// Fallbacks records the strategies that failed before Strategy succeeded,
	// formatted as "strategy: reason".
	Fallbacks []string

	// Selection is the selector's decision; zero when the strategy was forced.
	Selection Selection

	// Diagnostics holds solver-specific scalars (e.g. "best_temperature", "beam_width").
	Diagnostics map[string]float64

	// Elapsed is the wall time measured with the solve's Clock.
	Elapsed time.Duration
}
