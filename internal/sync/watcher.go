// Package sync reloads the options file while the picker is running.
package sync

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/keenthemes/ktui-picker/internal/config"
	"github.com/keenthemes/ktui-picker/internal/logger"
)

// OptionsChangeEvent carries a freshly reloaded options file.
type OptionsChangeEvent struct {
	Options config.Options
}

// Watcher watches the options file for changes and emits reloaded
// options after a short debounce.
type Watcher struct {
	watcher       *fsnotify.Watcher
	path          string
	changes       chan OptionsChangeEvent
	done          chan struct{}
	debounceTimer *time.Timer
}

// NewWatcher creates a watcher for the given options file.
func NewWatcher(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher: fsWatcher,
		path:    path,
		changes: make(chan OptionsChangeEvent, 4),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the directory that holds the options file.
// Watching the directory rather than the file survives editors that
// replace the file on save.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch options directory: %w", err)
	}
	go w.watch()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.watcher.Close()
}

// Changes returns the channel of reloaded options.
func (w *Watcher) Changes() <-chan OptionsChangeEvent {
	return w.changes
}

// watch is the main event loop
func (w *Watcher) watch() {
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}

			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("options watcher error", "error", err)
		}
	}
}

// reload parses the file and emits it; a broken file is logged and
// skipped so a half-saved edit cannot take the picker down.
func (w *Watcher) reload() {
	opts, err := config.LoadOptions(w.path)
	if err != nil {
		logger.Warn("ignoring invalid options file", "path", w.path, "error", err)
		return
	}

	select {
	case <-w.done:
	case w.changes <- OptionsChangeEvent{Options: opts}:
	default:
		// Consumer is behind; drop the event, a newer one will follow.
	}
}
