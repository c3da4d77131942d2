package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opal-lang/fncompile/core/compiler"
	"github.com/opal-lang/fncompile/runtime/encode"
)

func newMatchesCommand(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "matches [file]",
		Short: "List every textual occurrence of a registered name",
		Long: `Matches prints the occurrences found before compiling: every place a
registered name appears in the source, whether or not a marker precedes it.
Positions are byte offsets of the first character of the name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := root.loadRegistry()
			if err != nil {
				return err
			}
			source, _, err := readSource(cmd, sourcePath(args))
			if err != nil {
				return err
			}
			c, err := compiler.New(source, reg)
			if err != nil {
				return err
			}

			occurrences := encode.FromOccurrences(c.Occurrences())
			var text strings.Builder
			for _, o := range occurrences {
				fmt.Fprintf(&text, "%d\t%d\t%s\n", o.Position, o.Size, o.Name)
			}
			return writeResult(cmd.OutOrStdout(), occurrences, text.String(), format, false)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatText, "Output format: text, json, yaml or cbor")
	return cmd
}
