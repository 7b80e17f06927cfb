// Package tsp - simulated annealing over random segment reversals.
//
// Initial tour: node 0 followed by a seeded random permutation of 1..n-1.
// Neighbour: reverse T[i..j] for random 1 ≤ i < j ≤ n-1 (a random 2-opt move).
// Acceptance: Δ < 0 always; otherwise with probability exp(−Δ/T).
// Cooling: T ← T·cooling each iteration, until T ≤ Tmin, the iteration cap,
// or the deadline. The best tour seen is returned, with the temperature at
// which it was found reported as Diagnostics["best_temperature"].
//
// Δ is O(1) for symmetric input; asymmetric input also pays for the changed
// direction of the reversed segment, O(j−i).
package tsp

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/tspforge/matrix"
)

// annealCheckMask throttles deadline checks to every 256 iterations.
const annealCheckMask = 255

// SolveAnneal runs simulated annealing on dist.
func SolveAnneal(dist matrix.Matrix, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	w, err := prefetch(dist)
	if err != nil {
		return Result{}, err
	}
	clk := opts.clock()
	started := clk.Now()
	res := anneal(w, opts, opts.deadline())
	res.Elapsed = clk.Now().Sub(started)

	return res, nil
}

// randomTour returns 0, a random permutation of 1..n-1, 0.
func randomTour(n int, rng *rand.Rand) []int {
	t := make([]int, n+1)
	for i := 1; i < n; i++ {
		t[i] = i
	}
	shuffleIntsInPlace(t[1:n], rng)

	return t
}

// reversalDelta is the exact cost change of reversing t[i..j] (1 ≤ i < j ≤ n-1).
func reversalDelta(w *weights, t []int, i, j int) float64 {
	a, b, c, d := t[i-1], t[i], t[j], t[j+1]
	delta := w.at(a, c) + w.at(b, d) - w.at(a, b) - w.at(c, d)
	if w.sym {
		return delta
	}
	for p := i; p < j; p++ {
		delta += w.at(t[p+1], t[p]) - w.at(t[p], t[p+1])
	}

	return delta
}

// anneal is the solver core on prefetched weights.
func anneal(w *weights, opts Options, dl Deadline) Result {
	n := w.n
	rng := rngFromSeed(opts.Seed)
	cur := randomTour(n, rng)
	curCost := w.cost(cur)
	best := CopyTour(cur)
	bestCost := curCost

	var (
		temp     = opts.AnnealInitialTemp
		bestTemp = temp
		iter     int
		accepted int
		i, j     int
		delta    float64
		tick     = newTicker(dl, annealCheckMask)
	)
	for temp > opts.AnnealMinTemp && iter < opts.AnnealMaxIterations {
		if tick.expired() {
			break
		}
		if n >= 3 {
			i = 1 + rng.Intn(n-2)
			j = i + 1 + rng.Intn(n-1-i)
			delta = reversalDelta(w, cur, i, j)
			if delta < 0 || rng.Float64() < math.Exp(-delta/temp) {
				reverseArcInPlace(cur, i, j)
				curCost += delta
				accepted++
				if curCost < bestCost-opts.Eps {
					copy(best, cur)
					bestCost = curCost
					bestTemp = temp
				}
			}
		}
		temp *= opts.AnnealCooling
		iter++
	}

	return Result{
		Tour:         best,
		Distance:     round1e9(w.cost(best)),
		Strategy:     Anneal,
		Iterations:   iter,
		Improvements: accepted,
		Diagnostics: map[string]float64{
			"best_temperature":  bestTemp,
			"final_temperature": temp,
		},
	}
}
