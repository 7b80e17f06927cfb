// Package tsp - strategy dispatcher.
//
// Solve resolves a strategy chain and tries its members in order; the first
// member that returns without error wins. Failures are recorded in
// Result.Fallbacks and never surfaced:
//
//	Exact        → Beam → Constructive → Nearest
//	Beam         → Constructive → Nearest
//	Constructive → Nearest
//	Anneal       → Beam → Constructive → Nearest
//	Nearest
//
// With Strategy == Auto the head is chosen by Options.Selector, then upgraded
// when Options.QualityTarget demands a better expected quality ratio.
//
// Only structural errors (invalid options, malformed matrix) are returned.
package tsp

import (
	"fmt"

	"github.com/katalvlaran/tspforge/matrix"
)

// Chain returns the ordered strategies tried when head is requested.
func Chain(head Strategy) []Strategy {
	switch head {
	case Exact:
		return []Strategy{Exact, Beam, Constructive, Nearest}
	case Beam:
		return []Strategy{Beam, Constructive, Nearest}
	case Constructive:
		return []Strategy{Constructive, Nearest}
	case Anneal:
		return []Strategy{Anneal, Beam, Constructive, Nearest}
	default:
		return []Strategy{Nearest}
	}
}

// Plan resolves the head strategy for an n-node instance. For Auto it runs the
// selector against the requested budget (Deadline.Budget, not the time left)
// and applies the quality upgrade; the returned Selection is zero when the
// strategy was forced.
func Plan(n int, opts Options) (Selection, Strategy) {
	if opts.Strategy != Auto {
		return Selection{}, opts.Strategy
	}
	sel := opts.Selector.Select(Constraint{
		ProblemSize:   n,
		AvailableTime: opts.deadline().Budget(),
		ResourceLoad:  opts.ResourceLoad,
	})
	head := opts.Selector.upgrade(sel.Strategy, n, opts.QualityTarget)
	if head != sel.Strategy {
		p := opts.Selector.Profile(head)
		sel.Rationale = fmt.Sprintf("%s; upgraded from %s for quality target %.2f", sel.Rationale, sel.Strategy, opts.QualityTarget)
		sel.Strategy = head
		sel.EstimatedTime = estimate(n, p)
		sel.ExpectedQuality = p.ExpectedQualityRatio
	}

	return sel, head
}

// Solve validates the inputs, plans the chain and runs it under one shared
// deadline.
//
// Errors: ErrInvalidOptions / ErrUnknownStrategy for bad options,
// ErrDimensionMismatch / ErrNegativeWeight for malformed matrices.
//
// Complexity: that of the winning strategy plus O(n²) prefetch.
func Solve(dist matrix.Matrix, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	w, err := prefetch(dist)
	if err != nil {
		return Result{}, err
	}

	// Stage 1 - one deadline for the whole chain.
	clk := opts.clock()
	started := clk.Now()
	dl := opts.deadline()
	opts.Deadline = dl

	// Stage 2 - plan.
	sel, head := Plan(w.n, opts)

	// Stage 3 - walk the chain.
	var fallbacks []string
	for _, st := range Chain(head) {
		res, runErr := run(st, w, opts, dl)
		if runErr != nil {
			fallbacks = append(fallbacks, fmt.Sprintf("%s: %v", st, runErr))
			continue
		}
		res.Fallbacks = fallbacks
		res.Selection = sel
		res.Elapsed = clk.Now().Sub(started)

		return res, nil
	}

	// Unreachable: Nearest terminates every chain and cannot fail.
	return Result{}, fmt.Errorf("%w: strategy chain exhausted: %v", ErrInfeasible, fallbacks)
}

// run executes one strategy on prefetched weights.
func run(st Strategy, w *weights, opts Options, dl Deadline) (Result, error) {
	switch st {
	case Exact:
		return heldKarp(w, opts.ExactMaxSize, dl)
	case Beam:
		return beamSolve(w, opts, dl), nil
	case Constructive:
		return constructive(w, opts, dl), nil
	case Anneal:
		return anneal(w, opts, dl), nil
	case Nearest:
		tour := nearestNeighbor(w)
		return Result{Tour: tour, Distance: round1e9(w.cost(tour)), Strategy: Nearest, Iterations: w.n - 1}, nil
	}

	return Result{}, ErrUnknownStrategy
}
