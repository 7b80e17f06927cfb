package partition

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/tspforge/matrix"
)

// Strategy names a base-assignment method.
type Strategy string

const (
	// Contiguous assigns balanced blocks of consecutive node ids.
	Contiguous Strategy = "contiguous"
	// KMeans clusters landmark-MDS coordinates.
	KMeans Strategy = "kmeans"
	// Spectral clusters the normalized affinity spectrum.
	Spectral Strategy = "spectral"
)

// ParseStrategy maps a name to a Strategy; "" maps to KMeans.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return KMeans, nil
	case Contiguous, KMeans, Spectral:
		return Strategy(s), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

var (
	// ErrUnknownStrategy reports an unrecognised strategy name.
	ErrUnknownStrategy = errors.New("partition: unknown strategy")

	// ErrInvalidOptions reports option values outside their domain.
	ErrInvalidOptions = errors.New("partition: invalid options")

	// ErrTooSmall reports an instance with fewer than two nodes.
	ErrTooSmall = errors.New("partition: instance needs at least 2 nodes")

	// ErrNoConvergence reports a failed eigendecomposition. Split recovers
	// from it by falling back to Contiguous.
	ErrNoConvergence = errors.New("partition: eigendecomposition did not converge")
)

// Partition is one sub-instance.
type Partition struct {
	// Index is the position in the merge order.
	Index int
	// Members are the global node ids of the sub-instance (core ∪ overlap), ascending.
	// Local node i of Sub is Members[i].
	Members []int
	// Core is the base assignment, ascending. Cores of all parts are disjoint
	// and cover every node.
	Core []int
	// Sub is a freshly allocated copy of the distance matrix induced by Members.
	Sub *matrix.Dense
	// Boundary lists members with a positive-weight edge to a non-member.
	Boundary []int
	// Centroid is the mean embedding coordinate of the core.
	Centroid [2]float64
}

// Local returns the index of global node v in Members, or -1.
func (p *Partition) Local(v int) int {
	lo, hi := 0, len(p.Members)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if p.Members[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(p.Members) && p.Members[lo] == v {
		return lo
	}

	return -1
}

// Options configures Split.
type Options struct {
	// Strategy selects the base assignment.
	Strategy Strategy
	// MaxSize caps the core size of every part (≥ 2).
	MaxSize int
	// Overlap in [0,1) is the fraction of core size added as overlap nodes.
	Overlap float64
	// Seed drives k-means seeding.
	Seed int64
	// KMeansIterations caps Lloyd iterations.
	KMeansIterations int
	// Landmarks caps the number of landmark nodes used by MDS.
	Landmarks int
}

// DefaultOptions returns KMeans with parts of at most 1000 nodes and 10% overlap.
func DefaultOptions() Options {
	return Options{
		Strategy:         KMeans,
		MaxSize:          1000,
		Overlap:          0.1,
		Seed:             42,
		KMeansIterations: 100,
		Landmarks:        64,
	}
}

// Validate checks every field against its domain.
func (o Options) Validate() error {
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return err
	}
	if o.MaxSize < 2 {
		return fmt.Errorf("%w: MaxSize=%d", ErrInvalidOptions, o.MaxSize)
	}
	if o.Overlap < 0 || o.Overlap >= 1 || math.IsNaN(o.Overlap) {
		return fmt.Errorf("%w: Overlap=%v", ErrInvalidOptions, o.Overlap)
	}
	if o.KMeansIterations < 1 {
		return fmt.Errorf("%w: KMeansIterations=%d", ErrInvalidOptions, o.KMeansIterations)
	}
	if o.Landmarks < 3 {
		return fmt.Errorf("%w: Landmarks=%d", ErrInvalidOptions, o.Landmarks)
	}

	return nil
}
