package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tspforge/builder"
	"github.com/katalvlaran/tspforge/matrix"
)

type generateOutput struct {
	Points []matrix.Point `json:"points,omitempty" yaml:"points,omitempty"`
	Matrix [][]float64    `json:"matrix,omitempty" yaml:"matrix,omitempty"`
}

func (a *app) newGenerateCommand() *cobra.Command {
	var (
		layout   string
		n        int
		seed     int64
		scale    float64
		clusters int
		spread   float64
		jitter   float64
		asMatrix bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random Euclidean instance",
		Long: "Generate a random Euclidean instance.\n\n" +
			"The output is a valid input for the other commands.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The builder options panic on out-of-range values.
			opts := []builder.Option{builder.WithSeed(seed)}
			flags := cmd.Flags()
			if flags.Changed("scale") {
				if scale <= 0 {
					return fmt.Errorf("--scale must be positive, got %v", scale)
				}
				opts = append(opts, builder.WithScale(scale))
			}
			if flags.Changed("clusters") {
				if clusters < 0 {
					return fmt.Errorf("--clusters must not be negative, got %d", clusters)
				}
				opts = append(opts, builder.WithClusters(clusters))
			}
			if flags.Changed("spread") {
				if spread <= 0 {
					return fmt.Errorf("--spread must be positive, got %v", spread)
				}
				opts = append(opts, builder.WithSpread(spread))
			}
			if flags.Changed("jitter") {
				if jitter < 0 || jitter >= 0.5 {
					return fmt.Errorf("--jitter must be in [0,0.5), got %v", jitter)
				}
				opts = append(opts, builder.WithJitter(jitter))
			}
			pts, err := builder.Generate(builder.Layout(layout), n, opts...)
			if err != nil {
				return err
			}
			a.log.WithField("layout", layout).Debugf("generated %d points", len(pts))
			if !asMatrix {
				return a.emit(generateOutput{Points: pts})
			}

			m, err := matrix.FromPoints(pts)
			if err != nil {
				return err
			}
			rows := make([][]float64, n)
			for i := range rows {
				rows[i] = m.Raw()[i*n : (i+1)*n]
			}

			return a.emit(generateOutput{Matrix: rows})
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&layout, "layout", "l", string(builder.LayoutUniform), "uniform, clustered, grid or circle")
	fs.IntVarP(&n, "size", "n", 20, "number of points")
	fs.Int64Var(&seed, "seed", 1, "random seed")
	fs.Float64Var(&scale, "scale", 0, "coordinate range")
	fs.IntVar(&clusters, "clusters", 0, "cluster count for the clustered layout")
	fs.Float64Var(&spread, "spread", 0, "cluster spread as a fraction of the scale")
	fs.Float64Var(&jitter, "jitter", 0, "grid point perturbation as a fraction of the cell")
	fs.BoolVar(&asMatrix, "matrix", false, "emit the distance matrix instead of the points")

	return cmd
}
