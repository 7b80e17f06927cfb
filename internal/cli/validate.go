package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tspforge/engine"
	"github.com/katalvlaran/tspforge/matrix"
)

var errInvalidInstance = errors.New("instance is invalid")

type validateOutput struct {
	Valid     bool   `json:"valid" yaml:"valid"`
	Size      int    `json:"size" yaml:"size"`
	Symmetric bool   `json:"symmetric" yaml:"symmetric"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Row       *int   `json:"row,omitempty" yaml:"row,omitempty"`
	Col       *int   `json:"col,omitempty" yaml:"col,omitempty"`
}

func (a *app) newValidateCommand() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that an instance is a usable distance matrix",
		Long: "Check that an instance is a usable distance matrix.\n\n" +
			"Exits non-zero and reports the first offending entry when it is not.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := in.parse(firstArg(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			if in.closure {
				if m, err = in.complete(m); err != nil {
					return err
				}
			}

			out := validateOutput{Size: m.Rows()}
			err = engine.Validate(m)
			var ve *matrix.ValidationError
			switch {
			case err == nil:
				out.Valid = true
				out.Symmetric = matrix.IsSymmetric(m, 0)
			case errors.As(err, &ve):
				out.Reason = ve.Reason
				if ve.Row >= 0 {
					out.Row, out.Col = &ve.Row, &ve.Col
				}
			default:
				return err
			}
			if err = a.emit(out); err != nil {
				return err
			}
			if !out.Valid {
				return errInvalidInstance
			}

			return nil
		},
	}
	in.register(cmd.Flags())

	return cmd
}
