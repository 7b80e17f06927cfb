package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tspforge/tsp"
)

type selectOutput struct {
	Strategy        string  `json:"strategy" yaml:"strategy"`
	EstimatedTime   string  `json:"estimated_time" yaml:"estimated_time"`
	ExpectedQuality float64 `json:"expected_quality" yaml:"expected_quality"`
	Rationale       string  `json:"rationale" yaml:"rationale"`
}

func (a *app) newSelectCommand() *cobra.Command {
	var (
		size   int
		budget time.Duration
		load   float64
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Show which strategy the selector picks for a size and budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < 1 {
				return errors.New("--size must be positive")
			}
			if load < 0 || load > 1 {
				return errors.New("--load must be in [0,1]")
			}
			avail := budget
			if avail <= 0 {
				avail = tsp.Unlimited
			}
			sel := a.cfg.SolverOptions().Selector.Select(tsp.Constraint{
				ProblemSize:   size,
				AvailableTime: avail,
				ResourceLoad:  load,
			})
			a.log.WithField("strategy", sel.Strategy).Debug(sel.Rationale)

			return a.emit(selectOutput{
				Strategy:        string(sel.Strategy),
				EstimatedTime:   sel.EstimatedTime.String(),
				ExpectedQuality: sel.ExpectedQuality,
				Rationale:       sel.Rationale,
			})
		},
	}
	fs := cmd.Flags()
	fs.IntVarP(&size, "size", "n", 0, "number of nodes")
	fs.DurationVarP(&budget, "time", "t", 0, "available time (0 = unlimited)")
	fs.Float64Var(&load, "load", 0, "current resource load in [0,1]")
	_ = cmd.MarkFlagRequired("size")

	return cmd
}
