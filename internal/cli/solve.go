package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tspforge/engine"
	"github.com/katalvlaran/tspforge/tsp"
)

type solveOutput struct {
	Size        int                `json:"size" yaml:"size"`
	Strategy    string             `json:"strategy" yaml:"strategy"`
	Distance    float64            `json:"distance" yaml:"distance"`
	Optimal     bool               `json:"optimal" yaml:"optimal"`
	Tour        []int              `json:"tour" yaml:"tour,flow"`
	Elapsed     string             `json:"elapsed" yaml:"elapsed"`
	Iterations  int                `json:"iterations" yaml:"iterations"`
	Partitions  int                `json:"partitions,omitempty" yaml:"partitions,omitempty"`
	LowerBound  float64            `json:"lower_bound,omitempty" yaml:"lower_bound,omitempty"`
	Gap         float64            `json:"gap,omitempty" yaml:"gap,omitempty"`
	Fallbacks   []string           `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
	MemorySteps []string           `json:"memory_steps,omitempty" yaml:"memory_steps,omitempty,flow"`
	Diagnostics map[string]float64 `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	RequestID   string             `json:"request_id" yaml:"request_id"`
	RunID       string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

func newSolveOutput(res engine.Result) solveOutput {
	out := solveOutput{
		Size:        res.Size,
		Strategy:    string(res.Strategy),
		Distance:    res.Distance,
		Optimal:     res.Optimal,
		Tour:        res.Tour,
		Elapsed:     res.Elapsed.String(),
		Iterations:  res.Iterations,
		Partitions:  res.Partitions,
		LowerBound:  res.LowerBound,
		Gap:         res.Gap,
		Fallbacks:   res.Fallbacks,
		Diagnostics: res.Diagnostics,
		RequestID:   res.RequestID,
		RunID:       res.RunID,
	}
	for _, s := range res.MemorySteps {
		out.MemorySteps = append(out.MemorySteps, string(s))
	}

	return out
}

func (a *app) newSolveCommand() *cobra.Command {
	var (
		in         inputFlags
		budget     time.Duration
		quality    float64
		load       float64
		strategy   string
		seed       int64
		runID      string
		bound      bool
		checkpoint string
	)
	cmd := &cobra.Command{
		Use:   "solve [file]",
		Short: "Solve an instance read from file or stdin",
		Long: "Solve an instance read from file or stdin.\n\n" +
			"Without --time the budget comes from the time_limits section for the instance size; " +
			"--time 0 removes the limit.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := tsp.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			m, err := in.read(firstArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("time") {
				budget = a.cfg.TimeLimits.For(m.Rows())
			}

			cfg, err := a.cfg.EngineConfig()
			if err != nil {
				return err
			}
			cfg.Memory.Logger = a.log
			if bound {
				cfg.ComputeBound = true
			}
			if checkpoint != "" {
				cfg.CheckpointPath = checkpoint
			}
			e, err := engine.New(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := e.Close(); cerr != nil {
					a.log.WithError(cerr).Warn("close checkpoint store")
				}
			}()

			res, err := e.Solve(cmd.Context(), m, engine.Request{
				TimeBudget:    budget,
				QualityTarget: quality,
				ResourceLoad:  load,
				Strategy:      st,
				Seed:          seed,
				RunID:         runID,
			})
			if err != nil {
				return err
			}

			return a.emit(newSolveOutput(res))
		},
	}
	fs := cmd.Flags()
	in.register(fs)
	fs.DurationVarP(&budget, "time", "t", 0, "time budget for the whole solve (0 = unlimited)")
	fs.Float64Var(&quality, "quality", 0, "worst acceptable expected quality ratio (0 = any)")
	fs.Float64Var(&load, "load", 0, "current resource load in [0,1]")
	fs.StringVarP(&strategy, "strategy", "s", "auto", "auto, exact, beam, constructive, anneal or nearest")
	fs.Int64Var(&seed, "seed", 0, "random seed (0 = config solver.seed)")
	fs.StringVar(&runID, "run-id", "", "resume a checkpointed partition run")
	fs.BoolVar(&bound, "bound", false, "compute a Held-Karp lower bound and the gap")
	fs.StringVar(&checkpoint, "checkpoint", "", "bbolt file for partition results")

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}
