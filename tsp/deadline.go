// Package tsp - cooperative deadlines.
//
// Solvers never read the wall clock directly. A Deadline couples a Clock with
// an absolute instant and is consulted between rounds/iterations; an expired
// deadline makes a solver return its best-so-far result (or ErrDeadline when
// nothing is available yet).
//
// Tests substitute a fake Clock so that expiry is deterministic.
package tsp

import (
	"math"
	"time"
)

// Clock is the time source used by deadlines.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current wall time.
func (SystemClock) Now() time.Time { return time.Now() }

// Unlimited is the Remaining value of a deadline without a budget.
const Unlimited = time.Duration(math.MaxInt64)

// Deadline is an optional absolute instant measured on a Clock.
// The zero value never expires and reads the system clock.
type Deadline struct {
	clock  Clock
	at     time.Time
	budget time.Duration
	set    bool
}

// NewDeadline returns a deadline budget after clock.Now().
// A non-positive budget yields a deadline that never expires.
// A nil clock means SystemClock.
func NewDeadline(clock Clock, budget time.Duration) Deadline {
	if clock == nil {
		clock = SystemClock{}
	}
	if budget <= 0 {
		return Deadline{clock: clock}
	}

	now := clock.Now()

	return Deadline{clock: clock, at: now.Add(budget), budget: budget, set: true}
}

// DeadlineAt returns a deadline expiring at the absolute instant at.
func DeadlineAt(clock Clock, at time.Time) Deadline {
	if clock == nil {
		clock = SystemClock{}
	}

	return Deadline{clock: clock, at: at, budget: at.Sub(clock.Now()), set: true}
}

// IsSet reports whether the deadline carries a budget.
func (d Deadline) IsSet() bool { return d.set }

// At returns the absolute expiry instant (zero when unset).
func (d Deadline) At() time.Time { return d.at }

// Budget is the duration the deadline was created with, Unlimited when
// unset. Unlike Remaining it does not shrink as time passes.
func (d Deadline) Budget() time.Duration {
	if !d.set {
		return Unlimited
	}

	return d.budget
}

// Clock returns the deadline's time source (SystemClock for the zero value).
func (d Deadline) Clock() Clock {
	if d.clock == nil {
		return SystemClock{}
	}

	return d.clock
}

// Expired reports whether the budget is exhausted.
func (d Deadline) Expired() bool {
	if !d.set {
		return false
	}

	return !d.Clock().Now().Before(d.at)
}

// Remaining returns the time left, Unlimited when unset, and never a negative value.
func (d Deadline) Remaining() time.Duration {
	if !d.set {
		return Unlimited
	}
	left := d.at.Sub(d.Clock().Now())
	if left < 0 {
		return 0
	}

	return left
}

// ticker throttles Expired checks inside hot loops to one clock read every mask+1 calls.
type ticker struct {
	dl   Deadline
	step int
	mask int
}

func newTicker(dl Deadline, mask int) *ticker { return &ticker{dl: dl, mask: mask} }

// expired advances the counter and reads the clock only on throttle boundaries.
func (t *ticker) expired() bool {
	t.step++
	if !t.dl.set || (t.step&t.mask) != 0 {
		return false
	}

	return t.dl.Expired()
}
