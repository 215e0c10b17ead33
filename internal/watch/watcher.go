// Package watch re-runs validation whenever a log file changes on disk.
// It validates whole snapshots; there is no incremental or streaming
// mode, so a burst of writes is debounced into one revalidation.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phuslu/log"
)

// debounceDefault is used when the caller passes a non-positive debounce.
const debounceDefault = 200 * time.Millisecond

// Watcher observes one log file and invokes a handler after each settled
// burst of writes.
type Watcher struct {
	path     string
	handler  func(path string)
	debounce time.Duration
	logger   log.Logger
}

// New creates a watcher for path. handler runs on the watcher goroutine;
// it must not block indefinitely.
func New(path string, debounce time.Duration, handler func(path string)) *Watcher {
	if debounce <= 0 {
		debounce = debounceDefault
	}
	return &Watcher{
		path:     path,
		handler:  handler,
		debounce: debounce,
		logger:   log.Logger{Context: log.NewContext(nil).Str("component", "watch").Value()},
	}
}

// Run watches the file's directory (editors replace files rather than
// write in place, so watching the file itself misses renames) and calls
// the handler once per settled change. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(w.path)

	// Single debounce timer, reset on each event. Initialized stopped;
	// the first event starts it.
	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()

	pending := false
	w.logger.Info().Str("path", w.path).Dur("debounce", w.debounce).Msg("watching")

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-debounceTimer.C:
			if pending {
				pending = false
				w.handler(w.path)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			debounceTimer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}
