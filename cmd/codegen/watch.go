package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sanity-io/codegen/internal/config"
	"github.com/sanity-io/codegen/internal/logging"
	"github.com/sanity-io/codegen/internal/observability"
)

const debounceInterval = 250 * time.Millisecond

// watchLoop regenerates whenever the schema manifest or a file under the
// extraction root changes. Events are debounced so editor save bursts
// trigger one run.
func watchLoop(ctx context.Context, cfg *config.Config, logger *logging.Logger, metrics *observability.Metrics) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watchRecursive(watcher, cfg.Extract.Root); err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(cfg.Schema.Path)); err != nil {
		logger.Warn("cannot watch schema manifest", slog.String("error", err.Error()))
	}

	if err := generateOnce(ctx, cfg, metrics); err != nil {
		logger.Error("generation failed", slog.String("error", err.Error()))
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = watchRecursive(watcher, event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceInterval)
				timerC = timer.C
			} else {
				timer.Reset(debounceInterval)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", slog.String("error", err.Error()))
		case <-timerC:
			timer = nil
			timerC = nil
			logger.Info("change detected, regenerating")
			if err := generateOnce(ctx, cfg, metrics); err != nil {
				logger.Error("generation failed", slog.String("error", err.Error()))
			}
		}
	}
}

func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == "node_modules" || d.Name() == ".git" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
