package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/jakoblorz/go-hxproject/internal/logging"
	"go.uber.org/zap"
)

// Watcher reports rewrites of the session file. The editor replaces the
// file on save, so the directory is watched rather than the file.
type Watcher struct {
	dir    string
	logger *logging.Logger
}

// NewWatcher creates a watcher for the session files in dir.
func NewWatcher(dir string, logger *logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{dir: dir, logger: logger}
}

// Watch calls onChange for every write, create or rename of a session
// file until ctx is done.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.Debug(ctx, "watching session directory", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSessionFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Trace(ctx, "session changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
				onChange(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "session watcher error", zap.Error(err))
		}
	}
}

func isSessionFile(path string) bool {
	base := filepath.Base(path)
	return base == AutoSaveSessionFile || base == SessionFile
}
