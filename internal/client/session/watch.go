// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch keeps the in-memory state in sync with the session file.
//
// Every process of the same user shares one file; a login or logout in one
// of them shows up here as a filesystem event and the state is re-read from
// disk. The watch is on the directory, not the file: the atomic save
// replaces the file by rename, and a watch pinned to the old inode would go
// silent after the first write.
//
// Watch blocks until ctx is cancelled or the watcher fails.
func (manager *Manager) Watch(ctx context.Context, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("session: create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target := manager.store.Path()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("session: watch state directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("session: watcher closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(target) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			if err := manager.Load(); err != nil {
				logger.Warn("session_reload_failed", slog.Any("error", err))
				continue
			}
			logger.Info("session_reloaded",
				slog.String("event", event.Op.String()),
				slog.Bool("authenticated", manager.Authenticated()),
			)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("session: watcher closed")
			}
			logger.Warn("session_watch_error", slog.Any("error", err))
		}
	}
}
