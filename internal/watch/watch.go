// Package watch reruns the load cycle whenever the source file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"listingdeck/pkg/metadata"
)

// ErrNotFile is returned when the watched path is a directory.
var ErrNotFile = errors.New("watch target is not a file")

// Logger is the logging surface the watcher needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// CycleFunc runs one load cycle. Its error is logged and never stops the
// watcher.
type CycleFunc func(ctx context.Context) error

// Watcher reruns a cycle when the content of a file changes.
type Watcher struct {
	path    string
	limiter *rate.Limiter
	log     Logger
	cycle   CycleFunc

	ran  bool
	last string
}

// New creates a watcher for path. Cycles start at most once per minInterval;
// zero disables throttling.
func New(path string, minInterval time.Duration, log Logger, cycle CycleFunc) *Watcher {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &Watcher{
		path:    filepath.Clean(path),
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
		cycle:   cycle,
	}
}

// Run performs an initial cycle and then one per content change until ctx is
// done. It returns ctx.Err() on cancellation.
func (w *Watcher) Run(ctx context.Context) (err error) {
	if info, statErr := os.Stat(w.path); statErr == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotFile, w.path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Editors often replace the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch source directory: %w", err)
	}

	if _, err := w.Check(ctx); err != nil {
		return err
	}

	w.log.Info("Watching source for changes", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}

			if _, err := w.Check(ctx); err != nil {
				return err
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			w.log.Warn("File watcher error", "error", werr)
		}
	}
}

// Check runs a cycle unless the file content is the same as at the previous
// cycle. A failed cycle is not retried until the content changes. The only
// error returned is ctx.Err() while throttled.
func (w *Watcher) Check(ctx context.Context) (bool, error) {
	sum := w.checksum()
	if w.ran && sum == w.last {
		return false, nil
	}

	if err := w.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		return false, fmt.Errorf("rate limiter error: %w", err)
	}

	// the file may have changed again while throttled
	sum = w.checksum()

	w.ran = true
	w.last = sum

	if err := w.cycle(ctx); err != nil {
		w.log.Warn("Load cycle failed, waiting for the source to change", "error", err)
	}

	return true, nil
}

// checksum fingerprints the file, returning "" when it cannot be read.
func (w *Watcher) checksum() string {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return ""
	}

	return metadata.Checksum(data)
}
