// Package tsp - rule-based strategy selection.
//
// Select is a pure function of (problem size, available time, resource load).
// Rules, first match wins:
//
//  1. size ≤ ExactThreshold and time ≥ ExactMinTime                → Exact
//  2. size ≤ MediumThreshold and time ≥ BeamMinTime
//     and size·beam.TimeFactorPerNode ≤ BeamTimeShare·time          → Beam
//  3. otherwise                                                      → Constructive
//
// Under high load (load ≥ HighLoadThreshold) the time seen by rules 2 and 3
// is scaled by (1 − load). Profiles only feed the estimates; they never gate
// correctness.
package tsp

import (
	"fmt"
	"math"
	"time"
)

// Profile holds the static characteristics of one strategy.
type Profile struct {
	// MaxReliableSize is the largest instance the strategy handles well.
	MaxReliableSize int
	// TimeFactorPerNode is the estimated seconds per node.
	TimeFactorPerNode float64
	// ExpectedQualityRatio is the expected length relative to optimal (1.0 = optimal).
	ExpectedQualityRatio float64
}

// Constraint is the selector input.
type Constraint struct {
	ProblemSize   int
	AvailableTime time.Duration
	ResourceLoad  float64
}

// Selection is the selector output.
type Selection struct {
	Strategy        Strategy
	EstimatedTime   time.Duration
	ExpectedQuality float64
	Rationale       string
}

// Selector carries the profiles and thresholds of the decision rules.
type Selector struct {
	Profiles          map[Strategy]Profile
	ExactThreshold    int
	MediumThreshold   int
	ExactMinTime      time.Duration
	BeamMinTime       time.Duration
	BeamTimeShare     float64
	HighLoadThreshold float64
}

// DefaultSelector returns the documented thresholds and profiles.
func DefaultSelector() Selector {
	return Selector{
		Profiles: map[Strategy]Profile{
			Exact:        {MaxReliableSize: 20, TimeFactorPerNode: 0.1, ExpectedQualityRatio: 1.0},
			Beam:         {MaxReliableSize: 100, TimeFactorPerNode: 0.05, ExpectedQualityRatio: 1.1},
			Constructive: {MaxReliableSize: math.MaxInt, TimeFactorPerNode: 0.001, ExpectedQualityRatio: 1.3},
			Anneal:       {MaxReliableSize: math.MaxInt, TimeFactorPerNode: 0.002, ExpectedQualityRatio: 1.2},
		},
		ExactThreshold:    15,
		MediumThreshold:   50,
		ExactMinTime:      time.Second,
		BeamMinTime:       500 * time.Millisecond,
		BeamTimeShare:     0.8,
		HighLoadThreshold: 0.9,
	}
}

// Validate checks thresholds and that every rule target has a profile.
func (s Selector) Validate() error {
	for _, st := range []Strategy{Exact, Beam, Constructive} {
		if _, ok := s.Profiles[st]; !ok {
			return fmt.Errorf("%w: missing %s profile", ErrInvalidOptions, st)
		}
	}
	if s.ExactThreshold < 0 || s.MediumThreshold < 0 {
		return fmt.Errorf("%w: negative selector threshold", ErrInvalidOptions)
	}
	if s.BeamTimeShare <= 0 || s.BeamTimeShare > 1 {
		return fmt.Errorf("%w: BeamTimeShare=%v", ErrInvalidOptions, s.BeamTimeShare)
	}
	if s.HighLoadThreshold <= 0 || s.HighLoadThreshold > 1 {
		return fmt.Errorf("%w: HighLoadThreshold=%v", ErrInvalidOptions, s.HighLoadThreshold)
	}

	return nil
}

// Profile returns the profile of st (zero Profile when unknown).
func (s Selector) Profile(st Strategy) Profile { return s.Profiles[st] }

// estimate returns size·factor seconds as a Duration, saturating at Unlimited.
func estimate(size int, p Profile) time.Duration {
	sec := float64(size) * p.TimeFactorPerNode
	if sec*float64(time.Second) >= float64(Unlimited) {
		return Unlimited
	}

	return time.Duration(sec * float64(time.Second))
}

// Select applies the decision rules.
func (s Selector) Select(c Constraint) Selection {
	size, avail := c.ProblemSize, c.AvailableTime

	// Rule 1 sees the raw budget.
	if size <= s.ExactThreshold && avail >= s.ExactMinTime {
		p := s.Profile(Exact)
		return Selection{
			Strategy:        Exact,
			EstimatedTime:   estimate(size, p),
			ExpectedQuality: p.ExpectedQualityRatio,
			Rationale:       "Small problem size allows for optimal solution",
		}
	}

	loadNote := ""
	if c.ResourceLoad >= s.HighLoadThreshold && avail != Unlimited {
		avail = time.Duration(float64(avail) * (1 - c.ResourceLoad))
		loadNote = fmt.Sprintf(" (time scaled by high load %.2f)", c.ResourceLoad)
	}

	beam := s.Profile(Beam)
	beamEst := estimate(size, beam)
	if size <= s.MediumThreshold && avail >= s.BeamMinTime &&
		beamEst.Seconds() <= s.BeamTimeShare*avail.Seconds() {
		return Selection{
			Strategy:        Beam,
			EstimatedTime:   beamEst,
			ExpectedQuality: beam.ExpectedQualityRatio,
			Rationale:       "Good balance of quality and speed for medium size" + loadNote,
		}
	}

	p := s.Profile(Constructive)

	return Selection{
		Strategy:        Constructive,
		EstimatedTime:   estimate(size, p),
		ExpectedQuality: p.ExpectedQualityRatio,
		Rationale:       "Fast solution required for large problem or time constraint" + loadNote,
	}
}

// upgrade returns the first of Exact → Beam → Constructive whose expected
// quality meets target and whose reliable size covers n. When the current
// choice already meets the target, or nothing qualifies, it is kept.
func (s Selector) upgrade(cur Strategy, n int, target float64) Strategy {
	if target <= 0 || s.Profile(cur).ExpectedQualityRatio <= target {
		return cur
	}
	for _, st := range []Strategy{Exact, Beam, Constructive} {
		p := s.Profile(st)
		if p.ExpectedQualityRatio <= target && p.MaxReliableSize >= n {
			return st
		}
	}

	return cur
}
