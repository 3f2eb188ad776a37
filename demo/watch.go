package main

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watch calls onChange whenever one of paths is written, until ctx is done.
// Failed runs are the caller's concern; watching carries on.
func watch(ctx context.Context, paths []string, log *zap.SugaredLogger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			return err
		}
	}
	log.Infow("watching for changes", "paths", paths)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, which shows up as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			log.Infow("input changed, recomputing", "path", event.Name)
			onChange()

			// Re-add in case an atomic save replaced the inode.
			_ = watcher.Add(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorw("watcher error", "err", err)
		}
	}
}
