package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/katalvlaran/tspforge/partition"
	"github.com/katalvlaran/tspforge/tsp"
)

// DefaultWorkers is the pool size used when Config.Workers is zero.
const DefaultWorkers = 4

// Config configures a Coordinator.
type Config struct {
	// Workers bounds the number of concurrent partition solves; 0 means DefaultWorkers.
	Workers int

	// Options are the solver options for every part. Seed is the parent seed;
	// each part runs with tsp.DeriveSeed(Seed, index). TimeBudget (or Deadline)
	// is shared by the whole run, not granted per part.
	Options tsp.Options

	// Store persists finished parts; nil disables checkpointing.
	Store *Store

	// RunID names the run in Store. Empty generates a fresh id; reusing the id
	// of an interrupted run skips the parts already stored.
	RunID string

	// ProgressEvery throttles progress logging; 0 means one second.
	ProgressEvery time.Duration

	// Logger receives run and per-part events; nil means logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// Coordinator runs partition solves on a bounded worker pool.
type Coordinator struct {
	cfg Config
	log logrus.FieldLogger
}

// New returns a Coordinator for cfg.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: Workers=%d", ErrInvalidConfig, cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = time.Second
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Coordinator{cfg: cfg, log: log}, nil
}

// Report is the outcome of Run.
type Report struct {
	// RunID identifies the run in the checkpoint store.
	RunID string
	// Results holds one result per part, in part order. Tours use local ids.
	Results []tsp.Result
	// Resumed counts the parts loaded from the store instead of solved.
	Resumed int
}

// Run solves every part and returns once all of them are done (barrier).
//
// ctx is checked before each part starts; a cancelled context stops new
// solves and Run returns ctx.Err(). A solver failure on any part cancels the
// remaining ones and is returned wrapped in ErrPartitionMerge.
func (c *Coordinator) Run(ctx context.Context, parts []partition.Partition) (Report, error) {
	rep := Report{RunID: c.cfg.RunID, Results: make([]tsp.Result, len(parts))}
	if rep.RunID == "" {
		rep.RunID = uuid.NewString()
	}
	if len(parts) == 0 {
		return rep, fmt.Errorf("%w: no partitions", ErrPartitionMerge)
	}
	log := c.log.WithField("run_id", rep.RunID)

	opts := c.cfg.Options
	if !opts.Deadline.IsSet() {
		opts.Deadline = tsp.NewDeadline(opts.Clock, opts.TimeBudget)
	}

	todo := make([]int, 0, len(parts))
	for i := range parts {
		if c.cfg.Store != nil {
			res, ok, err := c.cfg.Store.Load(rep.RunID, i)
			if err != nil {
				return rep, err
			}
			if ok && len(res.Tour) == len(parts[i].Members)+1 {
				rep.Results[i] = res
				rep.Resumed++
				continue
			}
		}
		todo = append(todo, i)
	}
	log.WithFields(logrus.Fields{
		"parts":   len(parts),
		"resumed": rep.Resumed,
		"workers": c.cfg.Workers,
	}).Info("batch started")

	progress := rate.Sometimes{First: 1, Interval: c.cfg.ProgressEvery}
	var solved atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for _, i := range todo {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := solvePart(parts[i], opts, i)
			if err != nil {
				return fmt.Errorf("partition %d: %w: %w", i, ErrPartitionMerge, err)
			}
			if c.cfg.Store != nil {
				if err = c.cfg.Store.Save(rep.RunID, i, res); err != nil {
					return err
				}
			}
			rep.Results[i] = res
			n := int(solved.Add(1)) + rep.Resumed

			log.WithFields(logrus.Fields{
				"partition": i,
				"size":      len(parts[i].Members),
				"strategy":  res.Strategy,
				"distance":  res.Distance,
			}).Debug("partition solved")
			progress.Do(func() {
				log.Infof("batch progress %d/%d", n, len(parts))
			})

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return rep, ctxErr
		}

		return rep, err
	}
	log.Info("batch finished")

	return rep, nil
}

// solvePart runs the dispatcher on one part with its derived seed.
// Single-node parts get the trivial tour.
func solvePart(p partition.Partition, opts tsp.Options, index int) (tsp.Result, error) {
	if len(p.Members) == 1 {
		return tsp.Result{Tour: []int{0, 0}, Strategy: tsp.Nearest, Optimal: true}, nil
	}
	opts.Seed = tsp.DeriveSeed(opts.Seed, uint64(index))

	return tsp.Solve(p.Sub, opts)
}
