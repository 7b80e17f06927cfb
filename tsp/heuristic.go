// Package tsp - constructive heuristic solver.
//
// Candidates, built in sequence:
//   - n ≤ Options.SmallInstance: one randomized NN tour with α = 0.1.
//   - otherwise: one randomized NN tour per α in Options.Alphas, then the
//     Clarke–Wright savings tour (symmetric input only).
//
// Every candidate is refined by up to Options.LocalSearchRounds LK steps and the
// cheapest refined candidate wins. The deadline is consulted before each
// candidate and between LK rounds; if it expires before any candidate is
// complete, the pure nearest-neighbour tour is returned instead. The solver
// therefore never fails on a valid matrix.
package tsp

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/tspforge/matrix"
)

// smallInstanceAlpha is the greediness of the single candidate for small instances.
const smallInstanceAlpha = 0.1

// SolveConstructive runs the constructive heuristic on dist.
func SolveConstructive(dist matrix.Matrix, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	w, err := prefetch(dist)
	if err != nil {
		return Result{}, err
	}
	clk := opts.clock()
	started := clk.Now()
	res := constructive(w, opts, opts.deadline())
	res.Elapsed = clk.Now().Sub(started)

	return res, nil
}

// candidateBuilder produces one closed tour; ok=false means "not applicable".
type candidateBuilder func(rng *rand.Rand) (tour []int, ok bool)

// constructive is the solver core on prefetched weights.
func constructive(w *weights, opts Options, dl Deadline) Result {
	base := rngFromSeed(opts.Seed)

	builders := make([]candidateBuilder, 0, len(opts.Alphas)+1)
	if w.n <= opts.SmallInstance || len(opts.Alphas) == 0 {
		builders = append(builders, func(r *rand.Rand) ([]int, bool) {
			return randomizedNN(w, smallInstanceAlpha, r), true
		})
	} else {
		for _, a := range opts.Alphas {
			alpha := a
			builders = append(builders, func(r *rand.Rand) ([]int, bool) {
				return randomizedNN(w, alpha, r), true
			})
		}
		builders = append(builders, func(*rand.Rand) ([]int, bool) {
			t, err := savingsTour(w)
			return t, err == nil
		})
	}

	var (
		sc           lkScratch
		best         []int
		bestCost     = math.Inf(1)
		built        int
		improvements int
		round        int
		ok           bool
	)
	for idx, build := range builders {
		if dl.Expired() {
			break
		}
		tour, applicable := build(deriveRNG(base, uint64(idx)))
		if !applicable {
			continue
		}
		for round = 0; round < opts.LocalSearchRounds; round++ {
			if round > 0 && dl.Expired() {
				break
			}
			if _, ok = lkStep(w, tour, opts.Eps, &sc); !ok {
				break
			}
			improvements++
		}
		built++
		if c := w.cost(tour); best == nil || c < bestCost {
			best, bestCost = tour, c
		}
	}

	diag := map[string]float64{"candidates": float64(built)}
	if best == nil {
		best = nearestNeighbor(w)
		bestCost = w.cost(best)
		diag["nearest_fallback"] = 1
	}

	return Result{
		Tour:         best,
		Distance:     round1e9(bestCost),
		Strategy:     Constructive,
		Iterations:   built,
		Improvements: improvements,
		Diagnostics:  diag,
	}
}
