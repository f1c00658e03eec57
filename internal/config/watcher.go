package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the reloaded configuration, or the error that
// prevented loading it.
type ReloadFunc func(cfg *Config, err error)

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher reloads a configuration file when it changes.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	running  atomic.Bool
}

// NewWatcher creates a watcher for the file at path.
func NewWatcher(path string, opts ...WatchOption) *Watcher {
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the file until ctx is done. The directory is watched rather
// than the file so that editors replacing the file are noticed.
func (w *Watcher) Run(ctx context.Context, fn ReloadFunc) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWatcherRunning
	}
	defer w.running.Store(false)

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Debug("watching config", "path", abs)

	var timer *time.Timer
	var reload <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			reload = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-reload:
			reload = nil
			cfg, err := Load(abs)
			if err != nil {
				w.logger.Warn("config reload failed", "path", abs, "error", err)
			} else {
				w.logger.Info("config reloaded", "path", abs)
			}
			fn(cfg, err)
		}
	}
}
