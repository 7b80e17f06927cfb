// SPDX-License-Identifier: MIT

package builder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/builder"
	"github.com/katalvlaran/tspforge/matrix"
)

func TestGenerate_Layouts(t *testing.T) {
	t.Parallel()

	for _, layout := range []builder.Layout{builder.LayoutUniform, builder.LayoutClustered, builder.LayoutGrid, builder.LayoutCircle} {
		layout := layout
		t.Run(string(layout), func(t *testing.T) {
			t.Parallel()
			a, err := builder.Generate(layout, 37, builder.WithSeed(5))
			require.NoError(t, err)
			require.Len(t, a, 37)
			b, err := builder.Generate(layout, 37, builder.WithSeed(5))
			require.NoError(t, err)
			require.Equal(t, a, b, "same seed, same points")

			m, err := matrix.FromPoints(a)
			require.NoError(t, err)
			require.NoError(t, matrix.ValidateDistance(m, true))
		})
	}

	_, err := builder.Generate("spiral", 10)
	require.ErrorIs(t, err, builder.ErrUnknownLayout)
	_, err = builder.Generate(builder.LayoutGrid, 1)
	require.ErrorIs(t, err, builder.ErrTooFewPoints)
}

func TestUniform_Bounds(t *testing.T) {
	t.Parallel()

	pts, err := builder.Uniform(200, builder.WithSeed(3), builder.WithScale(10))
	require.NoError(t, err)
	for _, p := range pts {
		require.GreaterOrEqual(t, p.X, 0.0)
		require.Less(t, p.X, 10.0)
		require.GreaterOrEqual(t, p.Y, 0.0)
		require.Less(t, p.Y, 10.0)
	}
}

func TestGrid(t *testing.T) {
	t.Parallel()

	pts, err := builder.Grid(2, 3, builder.WithScale(3))
	require.NoError(t, err)
	require.Equal(t, []matrix.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
		{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1},
	}, pts)

	_, err = builder.Grid(1, 1)
	require.ErrorIs(t, err, builder.ErrTooFewPoints)
}

func TestCircle_OnCircle(t *testing.T) {
	t.Parallel()

	pts, err := builder.Circle(50, builder.WithScale(200))
	require.NoError(t, err)
	for _, p := range pts {
		require.InDelta(t, 100.0, math.Hypot(p.X-100, p.Y-100), 1e-9)
	}
}

func TestOptions_Panic(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { builder.WithScale(0) })
	require.Panics(t, func() { builder.WithRand(nil) })
	require.Panics(t, func() { builder.WithJitter(0.5) })
	require.Panics(t, func() { builder.WithClusters(-1) })
	require.Panics(t, func() { builder.WithSpread(0) })
}
