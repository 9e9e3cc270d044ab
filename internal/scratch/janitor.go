package scratch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ekaraca/voicebrief/internal/logger"
)

// Janitor removes scratch files that outlived their request, which only
// happens when a pipeline crashed before its cleanup ran.
type Janitor interface {
	Start(ctx context.Context) error
	Stop() error
}

type implJanitor struct {
	dir     string
	maxAge  time.Duration
	sweep   time.Duration
	watcher *fsnotify.Watcher
	logger  logger.Logger
}

// NewJanitor watches dir and deletes service-owned files older than maxAge,
// checking on every filesystem event and at least every sweep interval.
func NewJanitor(dir string, maxAge, sweep time.Duration, log logger.Logger) (Janitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create janitor watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implJanitor{
		dir:     dir,
		maxAge:  maxAge,
		sweep:   sweep,
		watcher: watcher,
		logger:  log,
	}, nil
}

func (j *implJanitor) Start(ctx context.Context) error {
	j.logger.Info(ctx, "Scratch janitor started. Monitoring: %s (max age: %s)", j.dir, j.maxAge)

	ticker := time.NewTicker(j.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info(ctx, "Scratch janitor stopped")
			return ctx.Err()

		case <-ticker.C:
			j.sweepOnce(ctx)

		case event, ok := <-j.watcher.Events:
			if !ok {
				return fmt.Errorf("janitor events channel closed")
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				j.sweepOnce(ctx)
			}

		case err, ok := <-j.watcher.Errors:
			if !ok {
				return fmt.Errorf("janitor errors channel closed")
			}
			j.logger.Error(ctx, "Janitor watcher error: %v", err)
		}
	}
}

func (j *implJanitor) Stop() error {
	return j.watcher.Close()
}

func (j *implJanitor) sweepOnce(ctx context.Context) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		j.logger.Error(ctx, "Janitor sweep failed: %v", err)
		return
	}

	cutoff := time.Now().Add(-j.maxAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), filePrefix) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(j.dir, e.Name())
		if err := os.Remove(path); err != nil {
			j.logger.Warn(ctx, "Janitor could not remove %s: %v", path, err)
		} else {
			j.logger.Info(ctx, "Janitor removed orphaned scratch file: %s", path)
		}
	}
}
