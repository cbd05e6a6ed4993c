package ingest

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/traveler-intake/constants"
)

// Extensions that can change the outcome of a pass (documents and drawings).
var defaultExts = func() map[string]struct{} {
	m := map[string]struct{}{}
	for _, e := range constants.DrawingExtensions {
		m[constants.NormalizeExt(e)] = struct{}{}
	}
	m[constants.NormalizeExt(constants.DocumentExt)] = struct{}{}
	return m
}()

type WatchConfig struct {
	Dir         string
	AllowedExts map[string]struct{} // lowercase, without '.'
	InitialScan bool                // emit once at start so existing files get a pass
	Debounce    time.Duration       // coalesce rapid create/write/rename bursts
	Logger      *slog.Logger
}

// StartWatcher watches one directory (not recursively) and emits the
// directory path whenever a relevant file settles. Emissions are debounced.
func StartWatcher(ctx context.Context, cfg WatchConfig) (<-chan string, <-chan error, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dir == "" {
		logger.Error("watcher start failed: no directory provided")
		return nil, nil, errors.New("no directory provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = defaultExts
	}
	evCh := make(chan string, 1)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}
	if err := w.Add(cfg.Dir); err != nil {
		logger.Error("failed to watch directory", "dir", cfg.Dir, "error", err)
		_ = w.Close()
		return nil, nil, err
	}

	emit := func() {
		select {
		case evCh <- cfg.Dir:
		default: // a signal is already waiting
		}
	}
	if cfg.InitialScan {
		emit()
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("failed to close watcher", "error", err)
			}
		}()

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if !allowed(e.Name, cfg.AllowedExts) || e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("watcher event", "path", e.Name, "op", e.Op.String())
				if cfg.Debounce <= 0 {
					emit()
					continue
				}
				if timer == nil {
					timer = time.NewTimer(cfg.Debounce)
				} else {
					if !timer.Stop() {
						select {
						case <-timer.C:
						default:
						}
					}
					timer.Reset(cfg.Debounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				emit()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

func allowed(path string, exts map[string]struct{}) bool {
	_, ok := exts[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}
