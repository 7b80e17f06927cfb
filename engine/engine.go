package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/tspforge/batch"
	"github.com/katalvlaran/tspforge/matrix"
	"github.com/katalvlaran/tspforge/memopt"
	"github.com/katalvlaran/tspforge/partition"
	"github.com/katalvlaran/tspforge/tsp"
)

// Partitioned is the Result.Strategy of a solve that went through the
// partition path; the per-part strategies are in Result.Diagnostics.
const Partitioned tsp.Strategy = "partitioned"

// DefaultDirectCeiling is the largest instance solved without partitioning.
const DefaultDirectCeiling = 1000

// Config holds everything an Engine needs. Start from DefaultConfig.
type Config struct {
	// Solver are the base solver options; Request fields override the
	// per-call ones (budget, quality target, load, strategy, seed).
	Solver tsp.Options
	// Partition configures the partition path.
	Partition partition.Options
	// Memory configures the footprint reductions.
	Memory memopt.Config
	// Workers bounds concurrent partition solves; 0 means batch.DefaultWorkers.
	Workers int
	// DirectCeiling: instances with n above it are partitioned.
	DirectCeiling int
	// ComputeBound fills Result.LowerBound and Result.Gap on the direct path.
	ComputeBound bool
	// Bound tunes the lower-bound computation.
	Bound tsp.BoundConfig
	// PolishMerged spends the remaining time budget on 2-opt over the merged
	// tour. Skipped when the request has no budget.
	PolishMerged bool
	// CheckpointPath, when set, persists partition results to a bbolt file.
	CheckpointPath string
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Solver:        tsp.DefaultOptions(),
		Partition:     partition.DefaultOptions(),
		Workers:       batch.DefaultWorkers,
		DirectCeiling: DefaultDirectCeiling,
		Bound:         tsp.DefaultBoundConfig(),
		PolishMerged:  true,
	}
}

// Validate checks the engine-level fields and the nested option sets.
func (c Config) Validate() error {
	if c.DirectCeiling < 2 {
		return fmt.Errorf("%w: DirectCeiling=%d", ErrInvalidConfig, c.DirectCeiling)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: Workers=%d", ErrInvalidConfig, c.Workers)
	}
	if c.Bound.Iterations < 0 || c.Bound.Alpha <= 0 {
		return fmt.Errorf("%w: Bound=%+v", ErrInvalidConfig, c.Bound)
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}

	return c.Partition.Validate()
}

// Request carries the per-call inputs of Solve.
type Request struct {
	// TimeBudget is the soft budget for the whole request; 0 means unlimited.
	TimeBudget time.Duration
	// QualityTarget (>0) is the worst acceptable expected quality ratio.
	QualityTarget float64
	// ResourceLoad in [0,1] is forwarded to the selector.
	ResourceLoad float64
	// Strategy forces a direct-path strategy; Auto lets the selector choose.
	Strategy tsp.Strategy
	// Seed overrides Config.Solver.Seed when non-zero.
	Seed int64
	// RunID resumes a checkpointed partition run; empty starts a new one.
	RunID string
}

// Result is a solved request.
type Result struct {
	tsp.Result

	// Size is n.
	Size int
	// Partitions is the number of parts; 0 on the direct path.
	Partitions int
	// RequestID identifies the request in logs.
	RequestID string
	// RunID names the checkpoint run on the partition path.
	RunID string
	// LowerBound and Gap = (Distance-LowerBound)/LowerBound are set when
	// Config.ComputeBound is on and the direct path ran.
	LowerBound float64
	Gap        float64
	// MemorySteps lists the footprint reductions applied to the input.
	MemorySteps []memopt.Step
}

// Engine is the solving boundary: validation, footprint reduction, direct
// or partitioned solve. It is safe for concurrent use.
type Engine struct {
	cfg   Config
	mem   *memopt.Optimizer
	store *batch.Store
}

// New validates cfg and opens the checkpoint store when configured.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mem, err := memopt.New(cfg.Memory)
	if err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, mem: mem}
	if cfg.CheckpointPath != "" {
		if e.store, err = batch.OpenStore(cfg.CheckpointPath); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Close releases the checkpoint store.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}

	return e.store.Close()
}

// Solve validates m and returns a closed tour starting at node 0.
//
// Instances up to Config.DirectCeiling go through the selector and the
// fallback chain; larger ones are partitioned, solved concurrently and
// merged. m is never modified, and Result.Distance is always measured on m.
//
// Only structural input errors, invalid requests, merge failures and
// cancellation surface, each as *SolveError.
func (e *Engine) Solve(ctx context.Context, m matrix.Matrix, req Request) (Result, error) {
	res := Result{RequestID: uuid.NewString()}
	if m != nil {
		res.Size = m.Rows()
	}
	fail := func(err error) (Result, error) {
		return res, &SolveError{Strategy: req.Strategy, Size: res.Size, Err: err}
	}
	log := Logger(ctx).WithFields(logrus.Fields{"request_id": res.RequestID, "size": res.Size})

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if err := Validate(m); err != nil {
		return fail(err)
	}

	// Stage 1 - options; one deadline for the whole request.
	opts := e.cfg.Solver
	opts.Strategy = req.Strategy
	opts.TimeBudget = req.TimeBudget
	opts.QualityTarget = req.QualityTarget
	opts.ResourceLoad = req.ResourceLoad
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}
	if err := opts.Validate(); err != nil {
		return fail(err)
	}
	opts.Deadline = tsp.NewDeadline(opts.Clock, opts.TimeBudget)

	// Stage 2 - footprint.
	opt, err := e.mem.Optimize(m)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if cerr := opt.Close(); cerr != nil {
			log.WithError(cerr).Warn("release optimized matrix")
		}
	}()
	res.MemorySteps = opt.Steps

	// Stage 3 - solve.
	if res.Size <= e.cfg.DirectCeiling {
		err = e.solveDirect(log, m, opt.Matrix, opts, &res)
	} else {
		err = e.solvePartitioned(ctx, log, m, opt.Matrix, opts, req.RunID, &res)
	}
	if err != nil {
		return fail(err)
	}
	log.WithFields(logrus.Fields{
		"strategy": res.Strategy,
		"distance": res.Distance,
		"elapsed":  res.Elapsed,
	}).Info("solved")

	return res, nil
}

// solveDirect runs the fallback chain on work and re-measures on orig.
func (e *Engine) solveDirect(log logrus.FieldLogger, orig, work matrix.Matrix, opts tsp.Options, res *Result) error {
	sol, err := tsp.Solve(work, opts)
	if err != nil {
		return err
	}
	for _, f := range sol.Fallbacks {
		log.WithField("strategy", sol.Strategy).Debugf("fallback: %s", f)
	}
	if sol.Distance, err = tsp.TourCost(orig, sol.Tour); err != nil {
		return err
	}
	res.Result = sol

	if e.cfg.ComputeBound {
		bc := e.cfg.Bound
		bc.Incumbent = sol.Distance
		lb, err := tsp.LowerBound(orig, bc)
		if err != nil {
			log.WithError(err).Warn("lower bound unavailable")
			return nil
		}
		res.LowerBound = lb
		if lb > 0 {
			res.Gap = (sol.Distance - lb) / lb
		}
	}

	return nil
}

// solvePartitioned splits work, solves the parts concurrently, merges them on
// orig and optionally polishes the merged tour.
func (e *Engine) solvePartitioned(
	ctx context.Context,
	log logrus.FieldLogger,
	orig, work matrix.Matrix,
	opts tsp.Options,
	runID string,
	res *Result,
) error {
	clk := opts.Deadline.Clock()
	started := clk.Now()

	popts := e.cfg.Partition
	popts.Seed = opts.Seed
	parts, used, err := partition.Split(work, popts)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"parts": len(parts), "partition_strategy": used}).Info("instance partitioned")

	if runID == "" {
		runID = res.RequestID
	}
	coord, err := batch.New(batch.Config{
		Workers: e.cfg.Workers,
		Options: opts,
		Store:   e.store,
		RunID:   runID,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	rep, err := coord.Run(ctx, parts)
	if err != nil {
		return err
	}
	tour, dist, err := batch.Merge(parts, rep.Results, orig)
	if err != nil {
		return err
	}

	sol := tsp.Result{
		Tour:     tour,
		Distance: dist,
		Strategy: Partitioned,
		Diagnostics: map[string]float64{
			"parts":   float64(len(parts)),
			"resumed": float64(rep.Resumed),
			"merged":  dist,
		},
	}
	for i, r := range rep.Results {
		sol.Iterations += r.Iterations
		sol.Improvements += r.Improvements
		sol.Diagnostics["parts_"+string(r.Strategy)]++
		for _, f := range r.Fallbacks {
			sol.Fallbacks = append(sol.Fallbacks, fmt.Sprintf("partition %d: %s", i, f))
		}
	}

	// Stage 4 - polish the seams with what is left of the budget.
	if e.cfg.PolishMerged && opts.TimeBudget > 0 && !opts.Deadline.Expired() {
		polished, cost, moves, err := tsp.TwoOpt(work, tour, opts)
		if err == nil && moves > 0 {
			if cost, err = tsp.TourCost(orig, polished); err == nil && cost < sol.Distance {
				sol.Tour, sol.Distance = polished, cost
				sol.Improvements += moves
			}
		}
		log.WithFields(logrus.Fields{"moves": moves, "distance": sol.Distance}).Debug("merged tour polished")
	}
	sol.Elapsed = clk.Now().Sub(started)

	res.Result = sol
	res.Partitions = len(parts)
	res.RunID = rep.RunID

	return nil
}
