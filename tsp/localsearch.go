package tsp

import (
	"github.com/katalvlaran/tspforge/matrix"
)

// polish improves t in place: first-improvement 2-opt passes, and 3-opt passes
// once 2-opt is exhausted when the tour has at most opts.ThreeOptMaxSize nodes.
// It stops at a joint local optimum or when dl expires, and returns the number
// of accepted moves.
//
// Complexity: O(moves · n²), or O(moves · n³) in the 3-opt range.
func polish(w *weights, t []int, opts Options, dl Deadline) int {
	var (
		o        orientation
		scratch  []int
		accepted int
		ok       bool
	)
	useThree := w.n <= opts.ThreeOptMaxSize
	if useThree {
		scratch = make([]int, 0, len(t))
	}

	for !dl.Expired() {
		if _, ok = twoOptPass(w, t, opts.Eps, &o); ok {
			accepted++
			continue
		}
		if useThree {
			if _, ok = threeOptPass(w, t, opts.Eps, &o, scratch); ok {
				accepted++
				continue
			}
		}

		break
	}

	return accepted
}

// Polish runs the beam solver's local search on a copy of initTour and returns
// the improved tour, its stabilized cost and the number of accepted moves.
func Polish(dist matrix.Matrix, initTour []int, opts Options) ([]int, float64, int, error) {
	w, err := prefetch(dist)
	if err != nil {
		return nil, 0, 0, err
	}
	if err = ValidateTour(initTour, w.n, 0); err != nil {
		return nil, 0, 0, err
	}
	cur := CopyTour(initTour)
	moves := polish(w, cur, opts, opts.deadline())

	return cur, round1e9(w.cost(cur)), moves, nil
}

// ThreeOpt runs first-improvement 3-opt alone on a copy of initTour until no
// improving reconnection remains or the deadline passes. No size gate applies.
func ThreeOpt(dist matrix.Matrix, initTour []int, opts Options) ([]int, float64, int, error) {
	w, err := prefetch(dist)
	if err != nil {
		return nil, 0, 0, err
	}
	if err = ValidateTour(initTour, w.n, 0); err != nil {
		return nil, 0, 0, err
	}
	cur := CopyTour(initTour)
	dl := opts.deadline()

	var (
		o        orientation
		scratch  = make([]int, 0, len(cur))
		accepted int
	)
	for !dl.Expired() {
		if _, ok := threeOptPass(w, cur, opts.Eps, &o, scratch); !ok {
			break
		}
		accepted++
	}

	return cur, round1e9(w.cost(cur)), accepted, nil
}
