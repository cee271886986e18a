package audio

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher evicts cached sounds when their files change on disk. It
// watches the parent directories of the registered files, so editors
// and tools that replace a file on save are still caught; events for
// unregistered paths are ignored.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *Player

	paths map[string]struct{} // registered sound files
	dirs  map[string]int      // watched directories, refcounted

	fw      *fsnotify.Watcher
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher that evicts from the given player.
func NewWatcher(player *Player, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		player: player,
		paths:  make(map[string]struct{}),
		dirs:   make(map[string]int),
	}
}

// Watch registers a sound file. Registering twice is a no-op.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	w.paths[path] = struct{}{}
	w.addDirLocked(filepath.Dir(path))
}

// Unwatch removes a sound file from the watch set.
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; !ok {
		return
	}
	delete(w.paths, path)
	w.dropDirLocked(filepath.Dir(path))
}

// addDirLocked takes a reference on a directory watch.
func (w *Watcher) addDirLocked(dir string) {
	w.dirs[dir]++
	if w.dirs[dir] > 1 || w.fw == nil {
		return
	}
	if err := w.fw.Add(dir); err != nil {
		w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
	}
}

// dropDirLocked releases a reference on a directory watch.
func (w *Watcher) dropDirLocked(dir string) {
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return
	}
	delete(w.dirs, dir)
	if w.fw != nil {
		_ = w.fw.Remove(dir)
	}
}

// Start begins delivering change events for registered files.
// Files registered after Start are picked up as well.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	for dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
		}
	}

	w.fw = fw
	w.running = true
	w.doneCh = make(chan struct{})
	files := len(w.paths)
	w.mu.Unlock()

	go w.loop(ctx)

	w.logger.Debug("audio watcher started", "files", files)
	return nil
}

// Stop stops watching. Safe to call when not running.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.fw.Close()
	w.mu.Unlock()

	<-w.doneCh
	w.logger.Debug("audio watcher stopped")
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}

			w.mu.RLock()
			_, registered := w.paths[event.Name]
			w.mu.RUnlock()
			if !registered {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.logger.Debug("sound file changed, evicting from cache", "path", event.Name)
				w.player.Evict(event.Name)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("audio watcher error", "error", err)
		}
	}
}

// IsRunning reports whether the watcher is delivering events.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
