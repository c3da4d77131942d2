package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opal-lang/fncompile/core/registry"
	"github.com/opal-lang/fncompile/internal/ctxlog"
	"github.com/opal-lang/fncompile/runtime/registryfile"
)

func newSortCommand(root *rootOptions) *cobra.Command {
	var (
		format string
		write  bool
	)

	cmd := &cobra.Command{
		Use:   "sort [registry-file]",
		Short: "Print a registry ordered longest name first",
		Long: `Sort reads a registry file (the argument, or --registry) and prints it with
its entries ordered longest name first. Entries of equal length keep their
relative order. With --write the file is rewritten in place.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.FromContext(cmd.Context())

			path := root.registryPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return &CLIError{Message: "no registry given", Hint: "pass a registry file as an argument or with --registry"}
			}

			inFormat, err := registryfile.FormatFromPath(path)
			if err != nil {
				return err
			}
			outFormat := inFormat
			if format != "" {
				if outFormat, err = registryfile.FormatFromPath("." + format); err != nil {
					return err
				}
			}
			if write && outFormat != inFormat {
				return &CLIError{Message: "--write cannot change the registry format", Hint: "drop --format, or print to stdout instead"}
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading registry file: %w", err)
			}
			descriptors, err := registryfile.Descriptors(data, inFormat, path)
			if err != nil {
				return err
			}
			sorted := registry.SortByLength(descriptors)
			if _, err := registry.New(sorted...); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			logger.Debug("sorted registry", "file", path, "functions", len(sorted))

			var buf bytes.Buffer
			if err := registryfile.Write(&buf, sorted, outFormat); err != nil {
				return err
			}
			if write {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				return os.WriteFile(path, buf.Bytes(), info.Mode().Perm())
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "", "Output format: json, yaml or hcl (default: same as input)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the registry file in place")
	return cmd
}
