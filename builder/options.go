// SPDX-License-Identifier: MIT

package builder

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrTooFewPoints indicates a requested size below the generator minimum.
	ErrTooFewPoints = errors.New("builder: too few points")

	// ErrUnknownLayout indicates an unrecognised layout name.
	ErrUnknownLayout = errors.New("builder: unknown layout")
)

// Option customizes a generator by mutating its config before generation.
type Option func(*config)

type config struct {
	rng      *rand.Rand
	scale    float64
	clusters int
	spread   float64
	jitter   float64
}

const (
	defaultSeed   = int64(1)
	defaultScale  = 1000.0
	defaultSpread = 0.05
)

func newConfig(opts ...Option) config {
	cfg := config{
		rng:    rand.New(rand.NewSource(defaultSeed)),
		scale:  defaultScale,
		spread: defaultSpread,
	}
	for _, o := range opts {
		o(&cfg)
	}

	return cfg
}

// WithSeed makes the generator draw from a fresh source seeded with seed.
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand attaches an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("builder: WithRand(nil)")
	}

	return func(c *config) { c.rng = r }
}

// WithScale sets the side of the bounding square (or the circle radius). Panics if s <= 0.
func WithScale(s float64) Option {
	if s <= 0 {
		panic(fmt.Sprintf("builder: WithScale(%v)", s))
	}

	return func(c *config) { c.scale = s }
}

// WithClusters sets the number of Clustered centres; 0 derives ⌈√n⌉. Panics if k < 0.
func WithClusters(k int) Option {
	if k < 0 {
		panic(fmt.Sprintf("builder: WithClusters(%d)", k))
	}

	return func(c *config) { c.clusters = k }
}

// WithSpread sets the Clustered standard deviation as a fraction of Scale. Panics if f <= 0.
func WithSpread(f float64) Option {
	if f <= 0 {
		panic(fmt.Sprintf("builder: WithSpread(%v)", f))
	}

	return func(c *config) { c.spread = f }
}

// WithJitter perturbs Grid points uniformly by ±j·cell. Panics if j < 0 or j >= 0.5.
func WithJitter(j float64) Option {
	if j < 0 || j >= 0.5 {
		panic(fmt.Sprintf("builder: WithJitter(%v)", j))
	}

	return func(c *config) { c.jitter = j }
}
