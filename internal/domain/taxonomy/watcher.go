package taxonomy

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
)

// Watcher hot-reloads the taxonomy store when the underlying file changes.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	logger  logging.Logger
}

// NewWatcher starts watching the store's taxonomy file. Call Run to begin
// processing events and Close to stop.
func NewWatcher(store *Store, logger logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory rather than the file itself; editors and config
	// management tools often replace the file via rename.
	if err := fsw.Add(filepath.Dir(store.Path())); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{store: store, watcher: fsw, logger: logger.Named("taxonomy.watcher")}, nil
}

// Run blocks processing file events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	target := filepath.Clean(w.store.Path())
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := w.store.Reload(); err != nil {
				w.logger.Warn("taxonomy reload failed, keeping previous snapshot",
					logging.String("path", target), logging.Err(err))
				continue
			}
			w.logger.Info("taxonomy reloaded", logging.String("path", target))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("taxonomy watch error", logging.Err(err))
		}
	}
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
