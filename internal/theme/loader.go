package theme

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// Loader resolves stylesheets by name and feeds them into a GTK CSS
// provider. The provider carries the whole theme at application
// priority; the per-card shape rules from the display package layer
// one priority above it, so a theme can never undo a card's pill
// radius or background.
type Loader struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	provider *gtk.CSSProvider
	userDir  string
	sheet    *Sheet
	watcher  *Watcher
	applied  bool
}

// NewLoader creates a loader. The user stylesheet directory is created
// up front so theme authors have a place to drop files.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	userDir, err := UserDir()
	if err != nil {
		logger.Warn("failed to resolve stylesheet directory", "error", err)
		userDir = ""
	} else if err := EnsureUserDir(); err != nil {
		logger.Warn("failed to create stylesheet directory", "dir", userDir, "error", err)
	}

	return &Loader{
		logger:   logger,
		provider: gtk.NewCSSProvider(),
		userDir:  userDir,
	}
}

// LoadTheme resolves a stylesheet by name and loads it into the
// provider. User sheets shadow bundled ones; unknown names fall back
// to the default sheet. A running hot-reload watcher is retargeted at
// the new sheet.
func (l *Loader) LoadTheme(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sheet := l.resolve(name)
	if !sheet.Bundled {
		if missing := sheet.MissingCardClasses(); len(missing) > 0 {
			l.logger.Warn("stylesheet does not style all card classes",
				"name", sheet.Name, "missing", missing)
		}
	}

	l.provider.LoadFromString(sheet.CSS)
	l.sheet = sheet
	if l.watcher != nil {
		l.watcher.Retarget(sheet)
	}

	l.logger.Info("loaded stylesheet", "name", sheet.Name, "bundled", sheet.Bundled)
	return nil
}

// resolve picks the sheet for a name without touching the provider.
func (l *Loader) resolve(name string) *Sheet {
	if name == "" {
		name = DefaultThemeName
	}

	if l.userDir != "" {
		path := filepath.Join(l.userDir, name+".css")
		if _, err := os.Stat(path); err == nil {
			sheet, err := LoadSheet(name, path)
			if err == nil {
				return sheet
			}
			l.logger.Warn("failed to load user stylesheet, trying bundled",
				"name", name, "error", err)
		}
	}

	if sheet, ok := BundledSheet(name); ok {
		return sheet
	}

	l.logger.Warn("stylesheet not found, using default", "name", name)
	return DefaultSheet()
}

// Sheet returns the currently loaded stylesheet.
func (l *Loader) Sheet() *Sheet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sheet
}

// Apply attaches the provider to a display. Passing nil uses the
// default display. Later calls are no-ops once attached; reloads go
// through the provider, not through re-attachment.
func (l *Loader) Apply(display *gdk.Display) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.applied {
		return
	}
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply stylesheet")
		return
	}

	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
	l.applied = true
	l.logger.Debug("stylesheet provider attached")
}

// Reload re-resolves the current stylesheet from disk.
func (l *Loader) Reload() error {
	l.mu.RLock()
	name := ""
	if l.sheet != nil {
		name = l.sheet.Name
	}
	l.mu.RUnlock()
	return l.LoadTheme(name)
}

// StartHotReload watches the current sheet's file and pushes changed
// CSS straight into the provider. The watcher runs even for bundled
// sheets, so a later switch to a user sheet starts watching its file.
func (l *Loader) StartHotReload(ctx context.Context) {
	// Stop any previous watcher outside the lock: its change callback
	// takes l.mu, so stopping it under the lock could deadlock.
	l.mu.Lock()
	sheet := l.sheet
	old := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if sheet == nil {
		return
	}

	w := NewWatcher(sheet, l.logger)
	w.OnChange(func(css string) {
		l.mu.Lock()
		l.provider.LoadFromString(css)
		l.mu.Unlock()
		l.logger.Info("hot-reloaded stylesheet")
	})

	if err := w.Start(ctx); err != nil {
		l.logger.Warn("failed to start stylesheet watcher", "error", err)
		return
	}

	l.mu.Lock()
	l.watcher = w
	// LoadTheme may have swapped sheets while the watcher was starting
	w.Retarget(l.sheet)
	l.mu.Unlock()
}

// StopHotReload stops the stylesheet watcher.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// Provider returns the underlying CSS provider.
func (l *Loader) Provider() *gtk.CSSProvider {
	return l.provider
}

// CurrentTheme returns the name of the loaded stylesheet.
func (l *Loader) CurrentTheme() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.sheet == nil {
		return ""
	}
	return l.sheet.Name
}

// ListThemes returns the available stylesheet names, bundled and user.
func (l *Loader) ListThemes() []string {
	infos := Catalog(l.userDir)
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}
