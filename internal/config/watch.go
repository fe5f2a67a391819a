package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DebounceDelay is how long a file must stay quiet before a change fires.
// Editors often write a file in several steps.
const DebounceDelay = 50 * time.Millisecond

// Watch reloads the settings file at path each time it changes and passes
// the result to fn. A failed reload is passed along with its error and the
// previous settings stay in effect for the caller to keep. Watch blocks until
// ctx is done.
func Watch(ctx context.Context, path string, fn func(Settings, error), opts ...Option) error {
	o := newLoadOptions(opts)
	return WatchFile(ctx, path, o.logger, func() {
		s, err := Load(path, opts...)
		if err != nil {
			o.logger.Warn("settings reload failed", zap.String("path", path), zap.Error(err))
		} else {
			o.logger.Info("settings reloaded", zap.String("path", path))
		}
		fn(s, err)
	})
}

// WatchFile calls fn after path is written or created. The parent
// directory is watched so that rename-over saves are seen. WatchFile blocks
// until ctx is done.
func WatchFile(ctx context.Context, path string, logger *zap.Logger, fn func()) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", abs, err)
	}
	logger.Debug("watching file", zap.String("path", abs))

	timer := time.NewTimer(DebounceDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(DebounceDelay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.String("path", abs), zap.Error(err))

		case <-timer.C:
			fn()
		}
	}
}
