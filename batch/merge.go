package batch

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/partition"
	"github.com/katalvlaran/tspforge/tsp"
)

// Merge combines per-part tours (local ids, as returned by Run) into one
// closed tour over original, starting at node 0, and returns it with its
// length recomputed on original.
//
// Each part contributes its core nodes only, in the order its tour visits
// them; overlap nodes are emitted by the part that owns them. The sequence of
// part i is rotated to start at its core node nearest to the last node of
// part i-1. The first part starts at node 0 when it owns it.
//
// Any empty or malformed part tour, or a merged tour that misses or repeats a
// node, yields ErrPartitionMerge.
//
// Complexity: O(Σ|Members| + Σ|Core|) plus one O(n) cost pass.
func Merge(parts []partition.Partition, results []tsp.Result, original matrix.Matrix) ([]int, float64, error) {
	if len(parts) == 0 || len(parts) != len(results) {
		return nil, 0, fmt.Errorf("%w: %d parts, %d results", ErrPartitionMerge, len(parts), len(results))
	}
	n := original.Rows()
	seen := bitset.New(uint(n))
	merged := make([]int, 0, n+1)
	prev := -1

	for i, p := range parts {
		seq, err := coreSequence(p, results[i].Tour)
		if err != nil {
			return nil, 0, fmt.Errorf("partition %d: %w", i, err)
		}

		start := 0
		if prev < 0 {
			for j, v := range seq {
				if v == 0 {
					start = j
					break
				}
			}
		} else {
			best := math.Inf(1)
			for j, v := range seq {
				w, err := original.At(prev, v)
				if err != nil {
					return nil, 0, fmt.Errorf("%w: %w", ErrPartitionMerge, err)
				}
				if w < best {
					start, best = j, w
				}
			}
		}

		for j := range seq {
			v := seq[(start+j)%len(seq)]
			if v < 0 || v >= n || seen.Test(uint(v)) {
				return nil, 0, fmt.Errorf("%w: node %d repeated or out of range", ErrPartitionMerge, v)
			}
			seen.Set(uint(v))
			merged = append(merged, v)
		}
		prev = merged[len(merged)-1]
	}
	if len(merged) != n {
		return nil, 0, fmt.Errorf("%w: merged %d of %d nodes", ErrPartitionMerge, len(merged), n)
	}

	tour, err := tsp.RotateTourToStart(merged, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrPartitionMerge, err)
	}
	cost, err := tsp.TourCost(original, tour)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrPartitionMerge, err)
	}

	return tour, cost, nil
}

// coreSequence maps a closed local tour of p to the global core nodes in
// visiting order.
func coreSequence(p partition.Partition, tour []int) ([]int, error) {
	m := len(p.Members)
	if m == 0 || len(p.Core) == 0 {
		return nil, fmt.Errorf("%w: empty partition", ErrPartitionMerge)
	}
	if err := tsp.ValidateTour(tour, m, tour0(tour)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPartitionMerge, err)
	}

	core := bitset.New(uint(m))
	for _, v := range p.Core {
		l := p.Local(v)
		if l < 0 {
			return nil, fmt.Errorf("%w: core node %d not a member", ErrPartitionMerge, v)
		}
		core.Set(uint(l))
	}
	seq := make([]int, 0, len(p.Core))
	for _, l := range tour[:m] {
		if core.Test(uint(l)) {
			seq = append(seq, p.Members[l])
		}
	}

	return seq, nil
}

// tour0 is the start node of a possibly empty tour.
func tour0(tour []int) int {
	if len(tour) == 0 {
		return 0
	}

	return tour[0]
}
