package tsp

import (
	"github.com/katalvlaran/tspforge/matrix"
)

// Internal entry points exposed to the external test package.

// ExportBeamConstruct runs only the beam construction phase with a fixed width.
func ExportBeamConstruct(m matrix.Matrix, width int, opts Options) ([]int, error) {
	w, err := prefetch(m)
	if err != nil {
		return nil, err
	}
	tour, _, _ := beamConstruct(w, width, opts, Deadline{})

	return tour, nil
}

// ExportTwoOptPass applies one first-improvement 2-opt move to tour in place.
func ExportTwoOptPass(m matrix.Matrix, tour []int, eps float64) (float64, bool, error) {
	w, err := prefetch(m)
	if err != nil {
		return 0, false, err
	}
	var o orientation
	d, ok := twoOptPass(w, tour, eps, &o)

	return d, ok, nil
}

// ExportThreeOptPass applies one first-improvement 3-opt move to tour in place.
func ExportThreeOptPass(m matrix.Matrix, tour []int, eps float64) (float64, bool, error) {
	w, err := prefetch(m)
	if err != nil {
		return 0, false, err
	}
	var o orientation
	d, ok := threeOptPass(w, tour, eps, &o, make([]int, 0, len(tour)))

	return d, ok, nil
}

// ExportLKStep applies one LK round to tour in place.
func ExportLKStep(m matrix.Matrix, tour []int, eps float64) (float64, bool, error) {
	w, err := prefetch(m)
	if err != nil {
		return 0, false, err
	}
	var sc lkScratch
	d, ok := lkStep(w, tour, eps, &sc)

	return d, ok, nil
}

// ExportSavingsTour builds the Clarke–Wright tour.
func ExportSavingsTour(m matrix.Matrix) ([]int, error) {
	w, err := prefetch(m)
	if err != nil {
		return nil, err
	}

	return savingsTour(w)
}

// ExportRandomizedNN builds one randomized nearest-neighbour tour.
func ExportRandomizedNN(m matrix.Matrix, alpha float64, seed int64) ([]int, error) {
	w, err := prefetch(m)
	if err != nil {
		return nil, err
	}

	return randomizedNN(w, alpha, rngFromSeed(seed)), nil
}
