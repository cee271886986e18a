package daemon

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwick/drops/internal/config"
	"github.com/fernwick/drops/internal/drop"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestInternalNotifier_ShowsDrop(t *testing.T) {
	n := NewInternalNotifier(testLogger())

	var shown []drop.Drop
	n.SetShowHandler(func(d drop.Drop) error {
		shown = append(shown, d)
		return nil
	})

	n.NotifyThemeReloaded("default")

	require.Len(t, shown, 1)
	assert.Equal(t, "Theme 'default' reloaded", shown[0].Title.Text)
	require.NotNil(t, shown[0].Icon)
	assert.Equal(t, "dialog-information", shown[0].Icon.Name)
}

func TestInternalNotifier_IconFollowsLevel(t *testing.T) {
	n := NewInternalNotifier(testLogger())

	var last drop.Drop
	n.SetShowHandler(func(d drop.Drop) error {
		last = d
		return nil
	})

	n.Notify("a", "warning", NotificationLevelWarning)
	assert.Equal(t, "dialog-warning", last.Icon.Name)

	n.Notify("b", "error", NotificationLevelError)
	assert.Equal(t, "dialog-error", last.Icon.Name)
}

func TestInternalNotifier_RateLimitsPerKey(t *testing.T) {
	n := NewInternalNotifier(testLogger())

	count := 0
	n.SetShowHandler(func(d drop.Drop) error {
		count++
		return nil
	})

	n.NotifyConfigError(errors.New("bad toml"))
	n.NotifyConfigError(errors.New("bad toml again"))
	assert.Equal(t, 1, count, "same key within interval must be suppressed")

	// A different key is not affected
	n.NotifyAudioError(errors.New("no device"))
	assert.Equal(t, 2, count)
}

func TestInternalNotifier_RateLimitExpires(t *testing.T) {
	n := NewInternalNotifier(testLogger())
	n.SetMinInterval(10 * time.Millisecond)

	count := 0
	n.SetShowHandler(func(d drop.Drop) error {
		count++
		return nil
	})

	n.NotifyConfigReloaded()
	time.Sleep(20 * time.Millisecond)
	n.NotifyConfigReloaded()
	assert.Equal(t, 2, count)
}

func TestInternalNotifier_Disabled(t *testing.T) {
	n := NewInternalNotifier(testLogger())
	n.SetEnabled(false)

	count := 0
	n.SetShowHandler(func(d drop.Drop) error {
		count++
		return nil
	})

	n.NotifyConfigReloaded()
	assert.Zero(t, count)
}

func TestConfigWatcher_ReloadsOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "drops")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	configPath := filepath.Join(configDir, "dropsd.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[display]\ngap = 8\n"), 0o644))

	w, err := NewConfigWatcher(testLogger())
	require.NoError(t, err)

	reloaded := make(chan *config.DaemonConfig, 1)
	w.SetReloadCallback(func(c *config.DaemonConfig) {
		select {
		case reloaded <- c:
		default:
		}
	})

	initial := config.DefaultDaemonConfig()
	require.NoError(t, w.Start(context.Background(), initial))
	defer w.Stop()

	require.NoError(t, os.WriteFile(configPath, []byte("[display]\ngap = 12\n"), 0o644))

	select {
	case c := <-reloaded:
		assert.Equal(t, 12, c.Display.Gap)
		assert.Equal(t, c, w.GetCurrentConfig())
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload callback")
	}
}

func TestConfigWatcher_InvalidConfigKeepsCurrent(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "drops")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	configPath := filepath.Join(configDir, "dropsd.toml")

	w, err := NewConfigWatcher(testLogger())
	require.NoError(t, err)

	errored := make(chan error, 1)
	w.SetErrorCallback(func(err error) {
		select {
		case errored <- err:
		default:
		}
	})

	initial := config.DefaultDaemonConfig()
	require.NoError(t, w.Start(context.Background(), initial))
	defer w.Stop()

	require.NoError(t, os.WriteFile(configPath, []byte("[display]\nposition = \"sideways\"\n"), 0o644))

	select {
	case err := <-errored:
		assert.Error(t, err)
		assert.Equal(t, initial, w.GetCurrentConfig(), "invalid config must not replace the current one")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for error callback")
	}
}
