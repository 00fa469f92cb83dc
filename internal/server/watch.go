package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// newWatcher watches the directory of the graph file. Editors often replace
// files instead of writing in place, which a watch on the file itself would
// miss.
func (s *Server) newWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(s.opts.GraphPath)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// watchGraph reloads the graph file on change until ctx is cancelled. It
// takes ownership of w.
func (s *Server) watchGraph(ctx context.Context, w *fsnotify.Watcher) error {
	defer func() { _ = w.Close() }()

	target := filepath.Clean(s.opts.GraphPath)
	s.logger.Debug("watching graph file", "path", target)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("graph file changed", "file", event.Name)
				if err := s.Reload(); err != nil {
					s.logger.Error("reload failed, keeping current graph", "err", err)
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "err", err)
		}
	}
}
