package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opal-lang/fncompile/core/compiler"
	"github.com/opal-lang/fncompile/internal/ctxlog"
	"github.com/opal-lang/fncompile/runtime/lint"
)

func newCheckCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Compile a source and report markers before unknown names",
		Long: `Check compiles the source and fails on compile errors. It then reports
every unescaped marker followed by a word that is not a registered name;
the compiler copies those through as plain text, which is usually a typo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.FromContext(cmd.Context())

			reg, err := root.loadRegistry()
			if err != nil {
				return err
			}
			source, name, err := readSource(cmd, sourcePath(args))
			if err != nil {
				return err
			}

			out, err := compiler.Compile(source, reg, compiler.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			diags := lint.Check(source, reg)
			w := cmd.OutOrStdout()
			for _, d := range diags {
				_, _ = fmt.Fprintf(w, "%s:%s\n", name, d)
			}
			if len(diags) > 0 {
				return &CLIError{
					Message: fmt.Sprintf("%s: %d marker(s) before unknown names", name, len(diags)),
					Hint:    `escape literal markers with a backslash, e.g. \$`,
				}
			}

			_, _ = fmt.Fprintf(w, "%s: ok (%d invocations)\n", name, out.Count())
			return nil
		},
	}
}
