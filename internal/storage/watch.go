package storage

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch calls onChange with the key of every blob that is written, replaced
// or removed in the store directory, including writes by other processes.
// It returns once the watcher is running; watching stops when ctx is done.
func (fs *FileStore) Watch(ctx context.Context, onChange func(key string), log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(fs.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", fs.dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				key, ok := KeyFromPath(event.Name)
				if !ok {
					continue
				}
				onChange(key)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("storage watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
