// Package cli implements the tspsolve command tree.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/tspforge/config"
	"github.com/katalvlaran/tspforge/engine"
)

// app carries the global flags and the state PersistentPreRunE derives from
// them. Every command closes over the same app.
type app struct {
	configPath string
	verbose    bool
	logFormat  string
	output     string

	cfg *config.Config
	log *logrus.Logger
	out io.Writer
}

// Execute builds the command tree and runs it with the process arguments.
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

// NewRootCommand returns the tspsolve root command.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "tspsolve",
		Short:             "Solve travelling salesman instances given as distance matrices or points.",
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json (overrides the config)")
	pf.StringVarP(&a.output, "output", "o", "yaml", "result format: yaml or json")

	root.AddCommand(
		a.newSolveCommand(),
		a.newSelectCommand(),
		a.newPartitionCommand(),
		a.newValidateCommand(),
		a.newGenerateCommand(),
	)

	return root
}

// setup loads the configuration and wires the logger into the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.output != "yaml" && a.output != "json" {
		return fmt.Errorf("unknown output format %q", a.output)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	switch a.logFormat {
	case "":
	case "text", "json":
		cfg.Log.Format = a.logFormat
	default:
		return fmt.Errorf("unknown log format %q", a.logFormat)
	}
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if err = cfg.ApplyLogging(logger); err != nil {
		return err
	}
	if a.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	a.cfg, a.log, a.out = cfg, logger, cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(engine.WithLogger(ctx, logger))

	return nil
}
