package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	godbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwick/drops/internal/config"
	"github.com/fernwick/drops/internal/dbus"
	"github.com/fernwick/drops/internal/drop"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func showRequest(title string, opts map[string]any) *dbus.ShowRequest {
	options := make(map[string]godbus.Variant, len(opts))
	for k, v := range opts {
		options[k] = godbus.MakeVariant(v)
	}
	return &dbus.ShowRequest{Title: title, Options: options}
}

func TestDropFromRequest_DurationExplicit(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	req := showRequest("saved", map[string]any{"duration-ms": int64(3000)})

	d := dropFromRequest(req, cfg, discardLogger())

	assert.True(t, d.Duration.Explicit())
	assert.Equal(t, 3*time.Second, d.Duration.Value())
}

func TestDropFromRequest_NegativeDurationResolvesByMagnitude(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	req := showRequest("saved", map[string]any{"duration-ms": int64(-3000)})

	d := dropFromRequest(req, cfg, discardLogger())

	assert.True(t, d.Duration.Explicit())
	assert.Equal(t, 3*time.Second, d.Duration.Value())
}

func TestDropFromRequest_DurationDefaultsWhenAbsent(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	req := showRequest("saved", nil)

	d := dropFromRequest(req, cfg, discardLogger())

	assert.Equal(t, cfg.DefaultDuration().Value(), d.Duration.Value())
}

func TestDropFromRequest_IconPathVersusName(t *testing.T) {
	cfg := config.DefaultDaemonConfig()

	d := dropFromRequest(showRequest("saved", map[string]any{"icon": "dialog-information"}), cfg, discardLogger())
	require.NotNil(t, d.Icon)
	assert.Equal(t, "dialog-information", d.Icon.Name)
	assert.Empty(t, d.Icon.Path)

	d = dropFromRequest(showRequest("saved", map[string]any{"icon": "/tmp/icon.png"}), cfg, discardLogger())
	require.NotNil(t, d.Icon)
	assert.Equal(t, "/tmp/icon.png", d.Icon.Path)
	assert.Empty(t, d.Icon.Name)
}

func TestDropFromRequest_ActionLabel(t *testing.T) {
	cfg := config.DefaultDaemonConfig()
	req := showRequest("saved", map[string]any{"action-label": "Undo"})

	d := dropFromRequest(req, cfg, discardLogger())

	require.NotNil(t, d.Action)
	require.NotNil(t, d.Action.Title)
	assert.Equal(t, "Undo", d.Action.Title.Text)
}

func TestDropFromRequest_PositionFallsBackToConfig(t *testing.T) {
	cfg := config.DefaultDaemonConfig()

	d := dropFromRequest(showRequest("saved", map[string]any{"position": "bottom"}), cfg, discardLogger())
	assert.Equal(t, drop.PositionBottom, d.Position)

	d = dropFromRequest(showRequest("saved", nil), cfg, discardLogger())
	assert.Equal(t, cfg.DefaultPosition(), d.Position)
}
