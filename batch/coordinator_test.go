package batch_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspforge/batch"
	"github.com/katalvlaran/tspforge/builder"
	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/partition"
	"github.com/katalvlaran/tspforge/tsp"
)

func split(t *testing.T, n, maxSize int) (*matrix.Dense, []partition.Partition) {
	t.Helper()
	pts, err := builder.Clustered(n, builder.WithSeed(5), builder.WithClusters(4))
	require.NoError(t, err)
	m, err := matrix.FromPoints(pts)
	require.NoError(t, err)
	opts := partition.DefaultOptions()
	opts.MaxSize = maxSize
	parts, _, err := partition.Split(m, opts)
	require.NoError(t, err)

	return m, parts
}

func newCoordinator(t *testing.T, cfg batch.Config) (*batch.Coordinator, *logtest.Hook) {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	cfg.Logger = log
	if cfg.Options.ExactMaxSize == 0 {
		cfg.Options = tsp.DefaultOptions()
	}
	c, err := batch.New(cfg)
	require.NoError(t, err)

	return c, hook
}

func TestCoordinator_RunAndMerge(t *testing.T) {
	t.Parallel()

	m, parts := split(t, 120, 40)
	c, hook := newCoordinator(t, batch.Config{Workers: 2})

	rep, err := c.Run(context.Background(), parts)
	require.NoError(t, err)
	require.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Results, len(parts))
	require.Zero(t, rep.Resumed)
	for i, res := range rep.Results {
		require.NoError(t, tsp.ValidateTour(res.Tour, len(parts[i].Members), 0), "part %d", i)
	}

	tour, cost, err := batch.Merge(parts, rep.Results, m)
	require.NoError(t, err)
	require.NoError(t, tsp.ValidateTour(tour, 120, 0))
	want, err := tsp.TourCost(m, tour)
	require.NoError(t, err)
	require.InDelta(t, want, cost, 1e-9)

	var solved int
	for _, e := range hook.AllEntries() {
		if e.Message == "partition solved" {
			solved++
			require.Equal(t, rep.RunID, e.Data["run_id"])
		}
	}
	require.Equal(t, len(parts), solved)
	require.Equal(t, "batch finished", hook.LastEntry().Message)
}

func TestCoordinator_Deterministic(t *testing.T) {
	t.Parallel()

	m, parts := split(t, 90, 30)
	var tours [][]int
	for _, workers := range []int{1, 4} {
		c, _ := newCoordinator(t, batch.Config{Workers: workers})
		rep, err := c.Run(context.Background(), parts)
		require.NoError(t, err)
		tour, _, err := batch.Merge(parts, rep.Results, m)
		require.NoError(t, err)
		tours = append(tours, tour)
	}
	require.Equal(t, tours[0], tours[1], "worker count must not change the result")
}

func TestCoordinator_SingleNodePart(t *testing.T) {
	t.Parallel()

	m := line(t, 4)
	sub0, err := matrix.Induce(m, []int{0, 1, 2})
	require.NoError(t, err)
	sub1, err := matrix.Induce(m, []int{3})
	require.NoError(t, err)
	parts := []partition.Partition{
		{Index: 0, Members: []int{0, 1, 2}, Core: []int{0, 1, 2}, Sub: sub0},
		{Index: 1, Members: []int{3}, Core: []int{3}, Sub: sub1},
	}

	c, _ := newCoordinator(t, batch.Config{})
	rep, err := c.Run(context.Background(), parts)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0}, rep.Results[1].Tour)

	tour, cost, err := batch.Merge(parts, rep.Results, m)
	require.NoError(t, err)
	require.NoError(t, tsp.ValidateTour(tour, 4, 0))
	require.Equal(t, 3, tour[3], "the single node follows its predecessor part")
	require.GreaterOrEqual(t, cost, 6.0)
}

func TestCoordinator_Cancelled(t *testing.T) {
	t.Parallel()

	_, parts := split(t, 60, 20)
	c, _ := newCoordinator(t, batch.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx, parts)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCoordinator_Resume(t *testing.T) {
	t.Parallel()

	store, err := batch.OpenStore(filepath.Join(t.TempDir(), "checkpoint.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	_, parts := split(t, 80, 30)
	first, _ := newCoordinator(t, batch.Config{Store: store, RunID: "run-a"})
	rep1, err := first.Run(context.Background(), parts)
	require.NoError(t, err)
	require.Equal(t, "run-a", rep1.RunID)

	second, hook := newCoordinator(t, batch.Config{Store: store, RunID: "run-a"})
	rep2, err := second.Run(context.Background(), parts)
	require.NoError(t, err)
	require.Equal(t, len(parts), rep2.Resumed)
	for i := range parts {
		require.Equal(t, rep1.Results[i].Tour, rep2.Results[i].Tour)
		require.Equal(t, rep1.Results[i].Distance, rep2.Results[i].Distance)
	}
	for _, e := range hook.AllEntries() {
		require.NotEqual(t, "partition solved", e.Message)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := batch.New(batch.Config{Workers: -1, Options: tsp.DefaultOptions()})
	require.ErrorIs(t, err, batch.ErrInvalidConfig)

	opts := tsp.DefaultOptions()
	opts.AnnealCooling = 2
	_, err = batch.New(batch.Config{Options: opts})
	require.ErrorIs(t, err, tsp.ErrInvalidOptions)
}
