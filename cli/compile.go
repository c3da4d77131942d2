package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/opal-lang/fncompile/core/compiler"
	"github.com/opal-lang/fncompile/internal/ctxlog"
	"github.com/opal-lang/fncompile/runtime/encode"
)

// formatText prints plain text instead of an encoded document.
const formatText = "text"

type compileOptions struct {
	format   string
	compress bool
	watch    bool
	idStem   string
}

func newCompileCommand(root *rootOptions) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a source and print the rewritten text and invocations",
		Long: `Compile reads a source (a file, or stdin when no file or "-" is given),
replaces every registered $name[field;field] invocation with an identifier
and prints the result.

With --format text only the rewritten text is printed. The json, yaml and
cbor formats print {code, functions} where each function lists its fields
and the nested invocations found in each field.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sourcePath(args)
			if opts.watch {
				if path == "" {
					return &CLIError{Message: "--watch needs a source file", Hint: "pass the file to compile instead of reading stdin"}
				}
				return watchCompile(cmd, root, opts, path)
			}
			return runCompile(cmd, root, opts, path)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "o", "json", "Output format: text, json, yaml or cbor")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "Wrap encoded output in a zstd frame")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Recompile whenever the source or registry file changes")
	cmd.Flags().StringVar(&opts.idStem, "id-stem", "", "Identifier stem (default SYSTEM_FUNCTION)")
	return cmd
}

func runCompile(cmd *cobra.Command, root *rootOptions, opts *compileOptions, path string) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)

	reg, err := root.loadRegistry()
	if err != nil {
		return err
	}
	source, name, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	out, err := compiler.Compile(source, reg, compilerOptions(ctx, opts)...)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Info("compiled", "source", name, "invocations", out.Count())

	return writeResult(cmd.OutOrStdout(), encode.FromOutput(out), out.Text, opts.format, opts.compress)
}

func compilerOptions(ctx context.Context, opts *compileOptions) []compiler.Option {
	copts := []compiler.Option{compiler.WithLogger(ctxlog.FromContext(ctx))}
	if opts.idStem != "" {
		copts = append(copts, compiler.WithIDStem(opts.idStem))
	}
	return copts
}

// writeResult prints text for the text format and encodes doc otherwise.
func writeResult(w io.Writer, doc any, text, format string, compress bool) error {
	if format == formatText {
		if compress {
			return &CLIError{Message: "--compress needs an encoded format", Hint: "use --format json, yaml or cbor"}
		}
		_, err := io.WriteString(w, text)
		return err
	}

	f, err := encode.ParseFormat(format)
	if err != nil {
		return err
	}
	if (f.Binary() || compress) && isTerminal(w) {
		return &CLIError{
			Message: "refusing to write binary output to a terminal",
			Hint:    "redirect stdout to a file or pipe, or use --format json",
		}
	}
	var encOpts []encode.Option
	if compress {
		encOpts = append(encOpts, encode.WithCompression())
	}
	return encode.Write(w, doc, f, encOpts...)
}
