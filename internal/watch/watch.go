// Package watch re-runs a build whenever a source tree changes.
//
// Events are debounced, and the build runs on the watching goroutine, so
// builds never overlap and changes made during a build trigger one more.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the quiet period after the last event before a rebuild.
const DefaultDelay = 300 * time.Millisecond

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger for change and error reports.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithExclude ignores events under dir, typically an output directory
// nested in the watched tree.
func WithExclude(dir string) Option {
	return func(w *Watcher) {
		if abs, err := filepath.Abs(dir); err == nil {
			w.excludes = append(w.excludes, abs)
		}
	}
}

// WithIgnore drops events for paths where ignore returns true. It is
// called with absolute paths.
func WithIgnore(ignore func(path string) bool) Option {
	return func(w *Watcher) {
		if ignore != nil {
			w.ignores = append(w.ignores, ignore)
		}
	}
}

// Watcher watches every directory under a root.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	delay    time.Duration
	logger   *slog.Logger
	excludes []string
	ignores  []func(string) bool
}

// New starts watching root and all its subdirectories.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	w := &Watcher{
		root:   abs,
		delay:  DefaultDelay,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w.fs = fsw

	if err := w.addDirsRecursive(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run calls build after each debounced burst of changes until ctx is done.
// A build error is logged and does not stop watching.
func (w *Watcher) Run(ctx context.Context, build func(context.Context) error) error {
	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(ev) {
				continue
			}
			timer.Reset(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)

		case <-timer.C:
			w.logger.Info("change detected, rebuilding", "dir", w.root)
			if err := build(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Error("rebuild failed", "err", err)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// handleEvent reports whether ev should trigger a rebuild and starts
// watching directories created under the root.
func (w *Watcher) handleEvent(ev fsnotify.Event) bool {
	if w.ignored(ev.Name) {
		return false
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	w.logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
	return true
}

func (w *Watcher) addDirsRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, "err", err)
		}
		return nil
	})
}

// ignored is true for hidden entries, editor swap files and excluded trees.
func (w *Watcher) ignored(path string) bool {
	for _, ex := range w.excludes {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}

	for _, ignore := range w.ignores {
		if ignore(path) {
			return true
		}
	}

	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}
