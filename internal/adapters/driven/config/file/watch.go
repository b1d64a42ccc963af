package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/gsignin/internal/logger"
)

// watchDebounce collapses the burst of events an editor produces on save.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the store whenever its file changes on disk and calls
// onChange after each successful reload. It blocks until ctx is done.
//
// The parent directory is watched rather than the file itself, because
// editors commonly save by writing a temporary file and renaming it.
func (s *ConfigStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.filePath), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.filePath || !relevantOp(ev.Op) {
				continue
			}
			pending = time.After(watchDebounce)

		case <-pending:
			pending = nil
			if err := s.Load(); err != nil {
				logger.Warn("config: reload %s failed: %v", s.filePath, err)
				continue
			}
			logger.Debug("config: reloaded %s", s.filePath)
			if onChange != nil {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config: watcher error: %v", err)
		}
	}
}

func relevantOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}
