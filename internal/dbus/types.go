package dbus

import (
	"time"

	"github.com/godbus/dbus/v5"
)

// DismissReason represents the reason a drop left the screen.
type DismissReason uint32

const (
	// ReasonExpired indicates the drop's on-screen time ran out.
	ReasonExpired DismissReason = 1
	// ReasonDismissed indicates an explicit Dismiss call.
	ReasonDismissed DismissReason = 2
	// ReasonTapped indicates the drop was removed after its tap handler ran.
	ReasonTapped DismissReason = 3
	// ReasonClosed indicates the drop was removed by DismissAll or shutdown.
	ReasonClosed DismissReason = 4
)

// String returns the string representation of the dismiss reason.
func (r DismissReason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonTapped:
		return "tapped"
	case ReasonClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ShowRequest represents an incoming Show call: the title plus the
// option variant map. Everything beyond the title is optional; absent
// options fall back to daemon defaults.
type ShowRequest struct {
	Title   string
	Options map[string]dbus.Variant
}

// Icon extracts the icon option. Empty means no icon element.
func (r *ShowRequest) Icon() string {
	return r.stringOption("icon")
}

// HasAction reports whether the drop should carry a tap action.
// Setting an action label implies an action.
func (r *ShowRequest) HasAction() bool {
	if r.ActionLabel() != "" {
		return true
	}
	if v, ok := r.Options["action"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// ActionLabel extracts the action button label. Empty with an action
// present means the whole card becomes the tap target.
func (r *ShowRequest) ActionLabel() string {
	return r.stringOption("action-label")
}

// Position extracts the screen edge option ("top" or "bottom").
// Empty means the daemon default.
func (r *ShowRequest) Position() string {
	return r.stringOption("position")
}

// Duration extracts the on-screen duration option. Zero means the
// recommended duration. Negative values are passed through and
// resolve by absolute value when the drop is built.
func (r *ShowRequest) Duration() time.Duration {
	if v, ok := r.Options["duration-ms"]; ok {
		switch ms := v.Value().(type) {
		case int64:
			return time.Duration(ms) * time.Millisecond
		case int32:
			return time.Duration(ms) * time.Millisecond
		case uint32:
			return time.Duration(ms) * time.Millisecond
		}
	}
	return 0
}

// Background extracts the card background option (#rrggbb or
// #rrggbbaa). Empty means the default background.
func (r *ShowRequest) Background() string {
	return r.stringOption("background")
}

// Accessibility extracts the accessibility message option.
// Empty means the title is announced.
func (r *ShowRequest) Accessibility() string {
	return r.stringOption("accessibility")
}

func (r *ShowRequest) stringOption(key string) string {
	if v, ok := r.Options[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// ServerInfo contains information about the drops daemon.
type ServerInfo struct {
	Name    string // "dropsd"
	Vendor  string // "drops"
	Version string // Build version
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:    "dropsd",
		Vendor:  "drops",
		Version: "0.0.1", // Will be replaced by build-time version
	}
}

// Status is a snapshot of the daemon's presentation state.
type Status struct {
	Visible uint32 // Drops currently on screen
	Queued  uint32 // Drops waiting for a free slot
	Shown   uint64 // Total drops shown since startup
}
