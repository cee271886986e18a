package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestDismissReasonString(t *testing.T) {
	tests := []struct {
		reason   DismissReason
		expected string
	}{
		{ReasonExpired, "expired"},
		{ReasonDismissed, "dismissed"},
		{ReasonTapped, "tapped"},
		{ReasonClosed, "closed"},
		{DismissReason(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.String())
		})
	}
}

func TestShowRequest_Icon(t *testing.T) {
	r := &ShowRequest{
		Title: "hello",
		Options: map[string]dbus.Variant{
			"icon": dbus.MakeVariant("dialog-information"),
		},
	}
	assert.Equal(t, "dialog-information", r.Icon())

	r.Options = nil
	assert.Equal(t, "", r.Icon())
}

func TestShowRequest_HasAction(t *testing.T) {
	tests := []struct {
		name     string
		options  map[string]dbus.Variant
		expected bool
	}{
		{
			name:     "no options",
			options:  nil,
			expected: false,
		},
		{
			name:     "action flag",
			options:  map[string]dbus.Variant{"action": dbus.MakeVariant(true)},
			expected: true,
		},
		{
			name:     "action flag false",
			options:  map[string]dbus.Variant{"action": dbus.MakeVariant(false)},
			expected: false,
		},
		{
			name:     "label implies action",
			options:  map[string]dbus.Variant{"action-label": dbus.MakeVariant("Undo")},
			expected: true,
		},
		{
			name:     "wrong type",
			options:  map[string]dbus.Variant{"action": dbus.MakeVariant("yes")},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ShowRequest{Options: tt.options}
			assert.Equal(t, tt.expected, r.HasAction())
		})
	}
}

func TestShowRequest_Duration(t *testing.T) {
	tests := []struct {
		name     string
		options  map[string]dbus.Variant
		expected time.Duration
	}{
		{
			name:     "no hint means recommended",
			options:  nil,
			expected: 0,
		},
		{
			name:     "int64 milliseconds",
			options:  map[string]dbus.Variant{"duration-ms": dbus.MakeVariant(int64(2500))},
			expected: 2500 * time.Millisecond,
		},
		{
			name:     "int32 milliseconds",
			options:  map[string]dbus.Variant{"duration-ms": dbus.MakeVariant(int32(1000))},
			expected: time.Second,
		},
		{
			name:     "uint32 milliseconds",
			options:  map[string]dbus.Variant{"duration-ms": dbus.MakeVariant(uint32(500))},
			expected: 500 * time.Millisecond,
		},
		{
			name:     "wrong type",
			options:  map[string]dbus.Variant{"duration-ms": dbus.MakeVariant("2s")},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ShowRequest{Options: tt.options}
			assert.Equal(t, tt.expected, r.Duration())
		})
	}
}

func TestShowRequest_StringOptions(t *testing.T) {
	r := &ShowRequest{
		Title: "Saved",
		Options: map[string]dbus.Variant{
			"action-label":  dbus.MakeVariant("Undo"),
			"position":      dbus.MakeVariant("bottom"),
			"background":    dbus.MakeVariant("#00000026"),
			"accessibility": dbus.MakeVariant("file saved"),
		},
	}

	assert.Equal(t, "Undo", r.ActionLabel())
	assert.Equal(t, "bottom", r.Position())
	assert.Equal(t, "#00000026", r.Background())
	assert.Equal(t, "file saved", r.Accessibility())

	r.Options = map[string]dbus.Variant{
		"position": dbus.MakeVariant(42),
	}
	assert.Equal(t, "", r.Position())
}

func TestDefaultServerInfo(t *testing.T) {
	info := DefaultServerInfo()
	assert.Equal(t, "dropsd", info.Name)
	assert.Equal(t, "drops", info.Vendor)
	assert.NotEmpty(t, info.Version)
}
