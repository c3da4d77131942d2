// Package cli implements the fncompile command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/opal-lang/fncompile/core/registry"
	"github.com/opal-lang/fncompile/internal/ctxlog"
	"github.com/opal-lang/fncompile/runtime/registryfile"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	registryPath string
	sort         bool
	debug        bool
	logLevel     string
	logFormat    string
	noColor      bool
}

// NewRootCommand builds the fncompile command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "fncompile",
		Short:         "Rewrite $name[field;field] invocations into identifiers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.registryPath, "registry", "r", "", "Registry file (.json, .yaml, .yml or .hcl)")
	flags.BoolVar(&opts.sort, "sort", false, "Sort the registry longest name first before use")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newCompileCommand(opts),
		newMatchesCommand(opts),
		newCheckCommand(opts),
		newSortCommand(opts),
	)
	return rootCmd
}

// Execute runs cmd and prints any failure to its error stream, honoring
// --no-color. It returns the process exit code.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	noColor, _ := cmd.PersistentFlags().GetBool("no-color")
	stderr := cmd.ErrOrStderr()
	FormatError(stderr, err, ShouldUseColor(noColor, stderr))
	return 1
}

// newLogger creates the command logger. It does not set the global logger.
func newLogger(opts *rootOptions, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch opts.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", opts.logLevel)
	}
	if opts.debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch opts.logFormat {
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", opts.logFormat)
	}
}

// loadRegistry reads the registry named by --registry.
func (o *rootOptions) loadRegistry() (*registry.Registry, error) {
	if o.registryPath == "" {
		return nil, &CLIError{
			Message: "no registry given",
			Hint:    "pass a registry file with --registry",
		}
	}
	var loadOpts []registryfile.Option
	if o.sort {
		loadOpts = append(loadOpts, registryfile.WithSort())
	}
	return registryfile.Load(o.registryPath, loadOpts...)
}
