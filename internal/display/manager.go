package display

import (
	"container/list"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/fernwick/drops/internal/config"
	"github.com/fernwick/drops/internal/dbus"
	"github.com/fernwick/drops/internal/drop"
	"github.com/fernwick/drops/internal/view"
)

// queuedDrop is a drop waiting for a free slot.
// No GTK objects exist until it is actually shown.
type queuedDrop struct {
	Drop     drop.Drop
	QueuedAt time.Time
}

// PopupState is the state of a drop currently on screen.
type PopupState struct {
	ID        string
	Popup     *Popup
	CreatedAt time.Time
	ExpiresAt time.Time
}

// DismissCallback is called when a drop leaves the screen.
type DismissCallback func(id string, reason dbus.DismissReason)

// TapCallback is called after a drop's tap handler ran.
type TapCallback func(id string)

// Manager presents drop cards with a bounded number of simultaneous
// popups. Additional drops queue in arrival order and are shown as
// slots free up. Only visible drops exist as GTK objects.
type Manager struct {
	app     *gtk.Application
	config  *config.DaemonConfig
	layout  *LayoutManager
	logger  *slog.Logger
	display *gdk.Display

	// Visible popups, keyed by drop ID
	mu     sync.RWMutex
	popups map[string]*PopupState

	// FIFO queue of drops waiting for a slot
	queue      *list.List               // of *queuedDrop
	queueIndex map[string]*list.Element // fast lookup by drop ID

	shownTotal atomic.Uint64

	// Callbacks
	onDismiss DismissCallback
	onTap     TapCallback

	// Expiry management
	expiryCh chan string
	stopCh   chan struct{}
}

// NewManager creates a new display manager.
func NewManager(app *gtk.Application, cfg *config.DaemonConfig, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultDaemonConfig()
	}

	return &Manager{
		app:        app,
		config:     cfg,
		layout:     NewLayoutManager(cfg, logger),
		logger:     logger,
		popups:     make(map[string]*PopupState),
		queue:      list.New(),
		queueIndex: make(map[string]*list.Element),
		expiryCh:   make(chan string, 100),
		stopCh:     make(chan struct{}),
	}
}

// Start initializes the display manager.
func (m *Manager) Start() error {
	m.display = gdk.DisplayGetDefault()
	if m.display == nil {
		return &DisplayError{Message: "no display available"}
	}

	// Start expiry handler goroutine
	go m.handleExpiry()

	m.logger.Info("display manager started")
	return nil
}

// Stop shuts down the display manager.
func (m *Manager) Stop() {
	close(m.stopCh)
	m.DismissAll()
	m.logger.Info("display manager stopped")
}

// SetDismissCallback sets the callback for drops leaving the screen.
func (m *Manager) SetDismissCallback(cb DismissCallback) {
	m.onDismiss = cb
}

// SetTapCallback sets the callback for handled taps.
func (m *Manager) SetTapCallback(cb TapCallback) {
	m.onTap = cb
}

// Show presents a drop, or queues it when all slots are taken.
// Showing a drop with the ID of a visible one replaces it in place.
func (m *Manager) Show(d drop.Drop) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Replacing a visible drop
	if state, exists := m.popups[d.ID]; exists {
		state.Popup.Close()
		delete(m.popups, d.ID)
		return m.showPopupLocked(d)
	}

	// Replacing a queued drop
	if elem, exists := m.queueIndex[d.ID]; exists {
		elem.Value.(*queuedDrop).Drop = d
		return nil
	}

	if len(m.popups) < m.config.Display.MaxVisible {
		return m.showPopupLocked(d)
	}

	// Queue in arrival order (no GTK objects created)
	elem := m.queue.PushBack(&queuedDrop{Drop: d, QueuedAt: time.Now()})
	m.queueIndex[d.ID] = elem

	m.logger.Debug("queued drop", "id", d.ID, "queue_size", m.queue.Len())
	return nil
}

// showPopupLocked creates and presents a popup. Caller must hold the lock.
func (m *Manager) showPopupLocked(d drop.Drop) error {
	position := len(m.popups)

	// The view decides the child set and tap target once, here.
	v := view.Build(d, view.Config{})

	popup, err := NewPopup(m.app, v, m.config, m.logger)
	if err != nil {
		return err
	}
	popup.SetLayout(m.layout)

	popup.OnDismiss(func() {
		m.remove(d.ID, dbus.ReasonDismissed)
	})
	popup.OnTap(func() {
		if m.onTap != nil {
			m.onTap(d.ID)
		}
		m.remove(d.ID, dbus.ReasonTapped)
	})

	// The on-screen time is resolved when the drop is shown.
	lifetime := d.Duration.Value()

	state := &PopupState{
		ID:        d.ID,
		Popup:     popup,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(lifetime),
	}
	m.popups[d.ID] = state
	m.shownTotal.Add(1)

	popup.Show(position)

	go func() {
		time.Sleep(lifetime)
		select {
		case m.expiryCh <- d.ID:
		case <-m.stopCh:
		}
	}()

	m.logger.Debug("showed drop",
		"id", d.ID,
		"position", position,
		"tap_target", v.TapTarget().String(),
		"lifetime", lifetime,
		"visible", len(m.popups),
	)

	return nil
}

// Dismiss removes a drop by ID, visible or queued.
// Reports whether the ID was known.
func (m *Manager) Dismiss(id string, reason dbus.DismissReason) bool {
	m.mu.Lock()
	state, visible := m.popups[id]
	if visible {
		delete(m.popups, id)
	}
	if elem, queued := m.queueIndex[id]; queued {
		m.queue.Remove(elem)
		delete(m.queueIndex, id)
		m.mu.Unlock()
		if m.onDismiss != nil {
			m.onDismiss(id, reason)
		}
		return true
	}
	m.mu.Unlock()

	if !visible {
		return false
	}

	state.Popup.Close()
	state.Popup = nil // Help GC

	if m.onDismiss != nil {
		m.onDismiss(id, reason)
	}

	m.showNextQueued()
	m.updatePositions()
	return true
}

// DismissAll removes every visible and queued drop.
// Returns the number removed.
func (m *Manager) DismissAll() int {
	m.mu.Lock()
	popups := make([]*PopupState, 0, len(m.popups))
	for _, state := range m.popups {
		popups = append(popups, state)
	}
	m.popups = make(map[string]*PopupState)

	queued := make([]string, 0, m.queue.Len())
	for e := m.queue.Front(); e != nil; e = e.Next() {
		queued = append(queued, e.Value.(*queuedDrop).Drop.ID)
	}
	m.queue.Init()
	m.queueIndex = make(map[string]*list.Element)
	m.mu.Unlock()

	for _, state := range popups {
		state.Popup.Close()
		state.Popup = nil // Help GC
		if m.onDismiss != nil {
			m.onDismiss(state.ID, dbus.ReasonClosed)
		}
	}
	for _, id := range queued {
		if m.onDismiss != nil {
			m.onDismiss(id, dbus.ReasonClosed)
		}
	}

	return len(popups) + len(queued)
}

// remove handles a popup-initiated removal (tap or user dismissal).
func (m *Manager) remove(id string, reason dbus.DismissReason) {
	m.mu.Lock()
	state, exists := m.popups[id]
	if exists {
		delete(m.popups, id)
	}
	m.mu.Unlock()

	if !exists {
		return
	}

	state.Popup.Close()
	state.Popup = nil // Help GC

	if m.onDismiss != nil {
		m.onDismiss(id, reason)
	}

	m.showNextQueued()
	m.updatePositions()
}

// showNextQueued presents the oldest queued drop if a slot is free.
func (m *Manager) showNextQueued() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.popups) >= m.config.Display.MaxVisible {
		return
	}

	elem := m.queue.Front()
	if elem == nil {
		return
	}

	next := elem.Value.(*queuedDrop)
	m.queue.Remove(elem)
	delete(m.queueIndex, next.Drop.ID)

	if err := m.showPopupLocked(next.Drop); err != nil {
		m.logger.Warn("failed to show queued drop", "id", next.Drop.ID, "error", err)
	}
}

// handleExpiry removes drops whose on-screen time ran out.
func (m *Manager) handleExpiry() {
	for {
		select {
		case id := <-m.expiryCh:
			m.mu.RLock()
			state, exists := m.popups[id]
			expired := exists && !time.Now().Before(state.ExpiresAt)
			m.mu.RUnlock()

			if expired {
				m.Dismiss(id, dbus.ReasonExpired)
			}
		case <-m.stopCh:
			return
		}
	}
}

// updatePositions reassigns stack positions to the remaining popups in
// arrival order.
func (m *Manager) updatePositions() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]*PopupState, 0, len(m.popups))
	for _, state := range m.popups {
		states = append(states, state)
	}

	// Sort by creation time
	for i := range states {
		for j := i + 1; j < len(states); j++ {
			if states[j].CreatedAt.Before(states[i].CreatedAt) {
				states[i], states[j] = states[j], states[i]
			}
		}
	}

	for i, state := range states {
		state.Popup.UpdatePosition(i)
	}
}

// VisibleCount returns the number of drops on screen.
func (m *Manager) VisibleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.popups)
}

// QueuedCount returns the number of drops waiting for a slot.
func (m *Manager) QueuedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queue.Len()
}

// ShownTotal returns the number of drops shown since startup.
func (m *Manager) ShownTotal() uint64 {
	return m.shownTotal.Load()
}

// Status returns a snapshot for the D-Bus GetStatus method.
func (m *Manager) Status() dbus.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return dbus.Status{
		Visible: uint32(len(m.popups)),
		Queued:  uint32(m.queue.Len()),
		Shown:   m.shownTotal.Load(),
	}
}

// UpdateConfig updates the configuration and adjusts displayed popups
// if necessary. Called when the config file is hot-reloaded.
func (m *Manager) UpdateConfig(cfg *config.DaemonConfig) {
	m.mu.Lock()
	oldMaxVisible := m.config.Display.MaxVisible
	m.config = cfg
	m.layout.config = cfg
	m.mu.Unlock()

	m.logger.Debug("display manager config updated",
		"old_max_visible", oldMaxVisible,
		"new_max_visible", cfg.Display.MaxVisible,
	)

	m.updatePositions()

	// If max_visible increased, show more queued drops
	for i := oldMaxVisible; i < cfg.Display.MaxVisible; i++ {
		m.showNextQueued()
	}
	// If max_visible decreased, visible drops are left to expire on
	// their own; new drops respect the lower limit.
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
