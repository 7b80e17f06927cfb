package engine

import (
	"time"

	"github.com/katalvlaran/tspforge/batch"
	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/partition"
	"github.com/katalvlaran/tspforge/tsp"
)

// Validate checks that m is a usable distance matrix: square, at least two
// nodes, finite, non-negative, zero diagonal. Failures are
// *matrix.ValidationError. Symmetry is not required.
func Validate(m matrix.Matrix) error {
	return matrix.ValidateDistance(m, false)
}

// SelectStrategy runs the default selector. availableTime ≤ 0 means unlimited.
func SelectStrategy(size int, availableTime time.Duration, load float64) tsp.Selection {
	if availableTime <= 0 {
		availableTime = tsp.Unlimited
	}

	return tsp.DefaultSelector().Select(tsp.Constraint{
		ProblemSize:   size,
		AvailableTime: availableTime,
		ResourceLoad:  load,
	})
}

// Partition splits m into parts of at most maxSize core nodes with the
// default overlap. An empty strategy means partition.KMeans.
func Partition(m matrix.Matrix, maxSize int, strategy partition.Strategy) ([]partition.Partition, error) {
	opts := partition.DefaultOptions()
	opts.MaxSize = maxSize
	opts.Strategy = strategy
	parts, _, err := partition.Split(m, opts)

	return parts, err
}

// Merge stitches per-part tours (local ids) into one tour over original.
// See batch.Merge.
func Merge(parts []partition.Partition, results []tsp.Result, original matrix.Matrix) ([]int, float64, error) {
	return batch.Merge(parts, results, original)
}
