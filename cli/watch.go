package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/opal-lang/fncompile/internal/ctxlog"
)

// watchCompile compiles once, then again whenever the source or registry
// file changes, until the command context is cancelled. Compile errors are
// reported and do not stop the watch.
func watchCompile(cmd *cobra.Command, root *rootOptions, opts *compileOptions, path string) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	files := []string{path}
	if root.registryPath != "" {
		files = append(files, root.registryPath)
	}

	// Directories are watched; events are filtered by target name.
	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool, len(files))
	for _, f := range files {
		targets[filepath.Clean(f)] = true
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	stderr := cmd.ErrOrStderr()
	rebuild := func() error {
		err := runCompile(cmd, root, opts, path)
		if err != nil {
			FormatError(stderr, err, ShouldUseColor(root.noColor, stderr))
		}
		return err
	}

	_ = rebuild()
	logger.Info("watching for changes", "files", files)
	return watchLoop(ctx, watcher.Events, watcher.Errors, targets, rebuild)
}

// watchLoop calls rebuild for every write or create event on a target file.
// It returns when ctx is done or either channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, targets map[string]bool, rebuild func() error) error {
	logger := ctxlog.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			if err := rebuild(); err != nil {
				logger.Warn("rebuild failed", "file", event.Name, "error", err)
			}

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
