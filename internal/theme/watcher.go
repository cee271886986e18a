package theme

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a stylesheet when its file changes. It watches
// the containing directory rather than the file itself, so editors
// that replace the file on save are still caught.
type Watcher struct {
	mu     sync.RWMutex
	logger *slog.Logger

	sheet    *Sheet
	dir      string // directory currently added to the fsnotify watcher
	onChange func(css string)

	fw      *fsnotify.Watcher
	doneCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for the given sheet.
func NewWatcher(sheet *Sheet, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{logger: logger, sheet: sheet}
}

// OnChange sets the callback invoked with the new CSS after a reload.
func (w *Watcher) OnChange(fn func(css string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins delivering change events. A bundled sheet has no file,
// so nothing is watched until Retarget points at an on-disk sheet.
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

	if !w.sheet.Bundled {
		dir := filepath.Dir(w.sheet.Path)
		if err := fw.Add(dir); err != nil {
			fw.Close()
			w.mu.Unlock()
			return err
		}
		w.dir = dir
	}

	w.fw = fw
	w.running = true
	w.doneCh = make(chan struct{})
	name, dir := w.sheet.Name, w.dir
	w.mu.Unlock()

	go w.loop(ctx)

	w.logger.Debug("stylesheet watcher started", "sheet", name, "dir", dir)
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
	w.logger.Debug("stylesheet watcher stopped")
}

// Retarget switches the watcher to a different sheet. When the new
// sheet lives in another directory the fsnotify watch moves with it.
func (w *Watcher) Retarget(sheet *Sheet) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.sheet = sheet
	if !w.running {
		return
	}

	dir := ""
	if !sheet.Bundled {
		dir = filepath.Dir(sheet.Path)
	}
	if dir == w.dir {
		return
	}

	if w.dir != "" {
		if err := w.fw.Remove(w.dir); err != nil {
			w.logger.Debug("failed to unwatch old stylesheet dir", "dir", w.dir, "error", err)
		}
	}
	if dir != "" {
		if err := w.fw.Add(dir); err != nil {
			w.logger.Warn("failed to watch stylesheet dir", "dir", dir, "error", err)
			dir = ""
		}
	}
	w.dir = dir
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
			sheet := w.sheet
			w.mu.RUnlock()
			if sheet == nil || sheet.Bundled {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(sheet.Path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload(sheet)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("stylesheet watcher error", "error", err)
		}
	}
}

// reload re-reads the sheet and fires the callback when the CSS
// actually changed.
func (w *Watcher) reload(sheet *Sheet) {
	changed, err := sheet.Refresh()
	if err != nil {
		w.logger.Warn("failed to reload stylesheet", "path", sheet.Path, "error", err)
		return
	}
	if !changed {
		return
	}

	w.logger.Info("stylesheet changed, reloading", "path", sheet.Path)

	w.mu.RLock()
	fn := w.onChange
	w.mu.RUnlock()
	if fn != nil {
		fn(sheet.CSS)
	}
}

// IsRunning reports whether the watcher is delivering events.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
