package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fernwick/drops/internal/drop"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages.
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages.
	NotificationLevelWarning
	// NotificationLevelError is for error messages.
	NotificationLevelError
)

// InternalNotifier surfaces daemon events as drops on screen. It rate
// limits per key to prevent floods, e.g. from an editor saving a broken
// config file repeatedly.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	// Handler that presents a drop; normally Manager.Show.
	showHandler func(d drop.Drop) error

	// Rate limiting: key -> last notification time.
	lastNotifyTime map[string]time.Time
	minInterval    time.Duration

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
	}
}

// SetShowHandler sets the function that presents a drop. This should
// be the same path drops from the bus take.
func (n *InternalNotifier) SetShowHandler(handler func(d drop.Drop) error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.showHandler = handler
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications
// sharing a key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify shows an internal drop unless rate-limited. Notifications
// with the same key within minInterval of each other are dropped.
func (n *InternalNotifier) Notify(key, text string, level NotificationLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return
	}
	if n.showHandler == nil {
		n.logger.Debug("internal notification skipped: no handler", "text", text)
		return
	}

	if lastTime, ok := n.lastNotifyTime[key]; ok {
		if time.Since(lastTime) < n.minInterval {
			n.logger.Debug("internal notification rate-limited", "key", key)
			return
		}
	}
	n.lastNotifyTime[key] = time.Now()

	icon := "dialog-information"
	switch level {
	case NotificationLevelWarning:
		icon = "dialog-warning"
	case NotificationLevelError:
		icon = "dialog-error"
	}

	d := drop.FromConfig(drop.Config{
		Title: drop.NewTitle(text),
		Icon:  &drop.Icon{Name: icon},
	})

	n.logger.Debug("sending internal notification", "key", key, "text", text, "level", level)

	if err := n.showHandler(d); err != nil {
		n.logger.Warn("failed to show internal notification", "key", key, "error", err)
	}
}

// NotifyConfigReloaded announces a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration reloaded", NotificationLevelInfo)
}

// NotifyConfigError announces a config reload failure.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration error: "+err.Error(), NotificationLevelWarning)
}

// NotifyThemeReloaded announces a theme reload.
func (n *InternalNotifier) NotifyThemeReloaded(themeName string) {
	n.Notify("theme-reload", "Theme '"+themeName+"' reloaded", NotificationLevelInfo)
}

// NotifyThemeError announces a theme loading failure.
func (n *InternalNotifier) NotifyThemeError(err error) {
	n.Notify("theme-error", "Theme error: "+err.Error(), NotificationLevelWarning)
}

// NotifyAudioError announces a sound playback failure.
func (n *InternalNotifier) NotifyAudioError(err error) {
	n.Notify("audio-error", "Audio error: "+err.Error(), NotificationLevelWarning)
}
