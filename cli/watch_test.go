package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchLoopRebuildsOnTargetChanges(t *testing.T) {
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	targets := map[string]bool{filepath.Clean("dir/src.txt"): true}

	rebuilds := 0
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(context.Background(), events, errs, targets, func() error {
			rebuilds++
			if rebuilds == 1 {
				return errors.New("compile failed")
			}
			return nil
		})
	}()

	events <- fsnotify.Event{Name: "dir/src.txt", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "dir/other.txt", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "dir/src.txt", Op: fsnotify.Chmod}
	errs <- errors.New("watcher hiccup")
	events <- fsnotify.Event{Name: "dir/./src.txt", Op: fsnotify.Create}
	close(events)

	require.NoError(t, <-done)
	assert.Equal(t, 2, rebuilds)
}

func TestWatchLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := watchLoop(ctx, make(chan fsnotify.Event), make(chan error), nil, func() error {
		t.Fatal("rebuild must not run")
		return nil
	})
	assert.NoError(t, err)
}
