package cli

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/tspforge/partition"
)

type partOutput struct {
	Index    int        `json:"index" yaml:"index"`
	Size     int        `json:"size" yaml:"size"`
	Core     int        `json:"core" yaml:"core"`
	Boundary int        `json:"boundary" yaml:"boundary"`
	Centroid [2]float64 `json:"centroid" yaml:"centroid,flow"`
	Members  []int      `json:"members,omitempty" yaml:"members,omitempty,flow"`
}

type partitionOutput struct {
	Size     int          `json:"size" yaml:"size"`
	Strategy string       `json:"strategy" yaml:"strategy"`
	Parts    []partOutput `json:"parts" yaml:"parts"`
}

func (a *app) newPartitionCommand() *cobra.Command {
	var (
		in       inputFlags
		maxSize  int
		strategy string
		members  bool
	)
	cmd := &cobra.Command{
		Use:   "partition [file]",
		Short: "Split an instance into overlapping sub-instances",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.PartitionOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-size") {
				opts.MaxSize = maxSize
			}
			if cmd.Flags().Changed("strategy") {
				if opts.Strategy, err = partition.ParseStrategy(strategy); err != nil {
					return err
				}
			}
			m, err := in.read(firstArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			parts, used, err := partition.Split(m, opts)
			if err != nil {
				return err
			}

			out := partitionOutput{Size: m.Rows(), Strategy: string(used), Parts: make([]partOutput, len(parts))}
			for i, p := range parts {
				out.Parts[i] = partOutput{
					Index:    p.Index,
					Size:     len(p.Members),
					Core:     len(p.Core),
					Boundary: len(p.Boundary),
					Centroid: p.Centroid,
				}
				if members {
					out.Parts[i].Members = p.Members
				}
			}

			return a.emit(out)
		},
	}
	fs := cmd.Flags()
	in.register(fs)
	fs.IntVar(&maxSize, "max-size", 0, "largest part size (default from config)")
	fs.StringVar(&strategy, "strategy", "", "contiguous, kmeans or spectral (default from config)")
	fs.BoolVar(&members, "members", false, "list the member node ids of each part")

	return cmd
}
