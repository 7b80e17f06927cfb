package tsp

import (
	"fmt"
	"math"
	"time"
)

// Options configures every solver in the package. Start from DefaultOptions
// and override individual fields; the zero value is not a usable configuration.
type Options struct {
	// Strategy forces a strategy; Auto (default) asks the selector.
	Strategy Strategy

	// TimeBudget is the soft wall-clock budget; 0 means unlimited.
	// Ignored when Deadline is set.
	TimeBudget time.Duration

	// Deadline, when set, overrides TimeBudget (shared deadlines across partitions).
	Deadline Deadline

	// Clock is the time source for TimeBudget; nil means SystemClock.
	Clock Clock

	// QualityTarget (>0) is the worst acceptable expected quality ratio
	// (1.0 = optimal). 0 disables the upgrade rule.
	QualityTarget float64

	// ResourceLoad in [0,1] is forwarded to the selector.
	ResourceLoad float64

	// Seed drives every randomized step; 0 maps to a fixed default stream.
	Seed int64

	// Eps is the strict-improvement threshold for local search (Δ < -Eps).
	Eps float64

	// ExactMaxSize is the Held–Karp ceiling.
	ExactMaxSize int

	// BeamWidth > 0 overrides the adaptive width.
	BeamWidth int
	// BeamMinWidth / BeamMaxWidth bound the adaptive width.
	BeamMinWidth int
	BeamMaxWidth int
	// BeamMaxIterations caps expansion rounds.
	BeamMaxIterations int
	// Lookahead is the greedy lookahead depth L.
	Lookahead int
	// LookaheadDiscount is the per-depth discount factor.
	LookaheadDiscount float64

	// ThreeOptMaxSize is the largest tour (n) for which 3-opt polish runs.
	ThreeOptMaxSize int

	// LocalSearchRounds is the number of LK-step rounds per constructive candidate.
	LocalSearchRounds int
	// SmallInstance is the size up to which a single randomized NN candidate is built.
	SmallInstance int
	// Alphas are the greediness levels of the randomized NN candidates for larger instances.
	Alphas []float64

	// Simulated annealing schedule.
	AnnealInitialTemp   float64
	AnnealCooling       float64
	AnnealMinTemp       float64
	AnnealMaxIterations int

	// Selector holds the strategy profiles and thresholds used by Auto.
	Selector Selector
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Strategy:            Auto,
		Eps:                 1e-10,
		ExactMaxSize:        20,
		BeamMinWidth:        3,
		BeamMaxWidth:        10,
		BeamMaxIterations:   1000,
		Lookahead:           2,
		LookaheadDiscount:   0.7,
		ThreeOptMaxSize:     30,
		LocalSearchRounds:   3,
		SmallInstance:       30,
		Alphas:              []float64{0.1, 0.2, 0.3},
		AnnealInitialTemp:   1000,
		AnnealCooling:       0.995,
		AnnealMinTemp:       1e-8,
		AnnealMaxIterations: 10000,
		Selector:            DefaultSelector(),
	}
}

// maxExactCeiling bounds the DP table: 2^(n-1)·(n-1) float64 entries.
const maxExactCeiling = 25

// Validate checks every field against its domain.
// Errors wrap ErrInvalidOptions with the offending field name.
func (o Options) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%w: %s=%v", ErrInvalidOptions, field, v)
	}
	if _, err := ParseStrategy(string(o.Strategy)); err != nil {
		return fmt.Errorf("%w: %q", err, o.Strategy)
	}
	if o.TimeBudget < 0 {
		return bad("TimeBudget", o.TimeBudget)
	}
	if o.QualityTarget < 0 || math.IsNaN(o.QualityTarget) {
		return bad("QualityTarget", o.QualityTarget)
	}
	if o.ResourceLoad < 0 || o.ResourceLoad > 1 || math.IsNaN(o.ResourceLoad) {
		return bad("ResourceLoad", o.ResourceLoad)
	}
	if o.Eps < 0 || math.IsNaN(o.Eps) {
		return bad("Eps", o.Eps)
	}
	if o.ExactMaxSize < 2 || o.ExactMaxSize > maxExactCeiling {
		return bad("ExactMaxSize", o.ExactMaxSize)
	}
	if o.BeamWidth < 0 {
		return bad("BeamWidth", o.BeamWidth)
	}
	if o.BeamMinWidth < 1 || o.BeamMaxWidth < o.BeamMinWidth {
		return bad("BeamMinWidth/BeamMaxWidth", fmt.Sprintf("%d/%d", o.BeamMinWidth, o.BeamMaxWidth))
	}
	if o.BeamMaxIterations < 1 {
		return bad("BeamMaxIterations", o.BeamMaxIterations)
	}
	if o.Lookahead < 0 {
		return bad("Lookahead", o.Lookahead)
	}
	if o.LookaheadDiscount < 0 || o.LookaheadDiscount > 1 {
		return bad("LookaheadDiscount", o.LookaheadDiscount)
	}
	if o.ThreeOptMaxSize < 0 {
		return bad("ThreeOptMaxSize", o.ThreeOptMaxSize)
	}
	if o.LocalSearchRounds < 0 {
		return bad("LocalSearchRounds", o.LocalSearchRounds)
	}
	for _, a := range o.Alphas {
		if a < 0 || a > 1 || math.IsNaN(a) {
			return bad("Alphas", o.Alphas)
		}
	}
	if o.AnnealInitialTemp <= 0 || o.AnnealMinTemp <= 0 || o.AnnealMinTemp >= o.AnnealInitialTemp {
		return bad("AnnealInitialTemp/AnnealMinTemp", fmt.Sprintf("%g/%g", o.AnnealInitialTemp, o.AnnealMinTemp))
	}
	if o.AnnealCooling <= 0 || o.AnnealCooling >= 1 {
		return bad("AnnealCooling", o.AnnealCooling)
	}
	if o.AnnealMaxIterations < 1 {
		return bad("AnnealMaxIterations", o.AnnealMaxIterations)
	}

	return o.Selector.Validate()
}

// deadline resolves the effective deadline for one solve call.
func (o Options) deadline() Deadline {
	if o.Deadline.IsSet() {
		return o.Deadline
	}

	return NewDeadline(o.Clock, o.TimeBudget)
}

// clock resolves the effective clock.
func (o Options) clock() Clock {
	if o.Deadline.IsSet() {
		return o.Deadline.Clock()
	}
	if o.Clock == nil {
		return SystemClock{}
	}

	return o.Clock
}
