package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "custom.css")
	require.NoError(t, os.WriteFile(path, []byte(`.drop-card { color: red; }`), 0644))

	sheet, err := LoadSheet("custom", path)
	require.NoError(t, err)

	w := NewWatcher(sheet, nil)
	changed := make(chan string, 1)
	w.OnChange(func(css string) {
		select {
		case changed <- css:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	// Give the watcher a moment to register, then modify the file
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`.drop-card { color: blue; }`), 0644))

	select {
	case css := <-changed:
		assert.Contains(t, css, "color: blue")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for stylesheet change callback")
	}
}

func TestWatcher_BundledSheetStartsIdle(t *testing.T) {
	w := NewWatcher(DefaultSheet(), nil)
	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsRunning())
	w.Stop()
	assert.False(t, w.IsRunning())
}

func TestWatcher_RetargetFollowsDirectory(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	pathA := filepath.Join(dirA, "alpha.css")
	require.NoError(t, os.WriteFile(pathA, []byte(`.drop-card { color: red; }`), 0644))
	pathB := filepath.Join(dirB, "beta.css")
	require.NoError(t, os.WriteFile(pathB, []byte(`.drop-card { color: green; }`), 0644))

	sheetA, err := LoadSheet("alpha", pathA)
	require.NoError(t, err)
	sheetB, err := LoadSheet("beta", pathB)
	require.NoError(t, err)

	w := NewWatcher(sheetA, nil)
	changed := make(chan string, 1)
	w.OnChange(func(css string) {
		select {
		case changed <- css:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// Switch to a sheet in a different directory, then edit it there
	w.Retarget(sheetB)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(pathB, []byte(`.drop-card { color: blue; }`), 0644))

	select {
	case css := <-changed:
		assert.Contains(t, css, "color: blue")
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change in retargeted directory")
	}
}

func TestWatcher_RetargetToBundledGoesQuiet(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "custom.css")
	require.NoError(t, os.WriteFile(path, []byte(`.drop-card { color: red; }`), 0644))

	sheet, err := LoadSheet("custom", path)
	require.NoError(t, err)

	w := NewWatcher(sheet, nil)
	changed := make(chan string, 1)
	w.OnChange(func(css string) {
		select {
		case changed <- css:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	w.Retarget(DefaultSheet())

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`.drop-card { color: blue; }`), 0644))

	select {
	case <-changed:
		t.Fatal("watcher should not fire after retargeting to a bundled sheet")
	case <-time.After(300 * time.Millisecond):
	}
}
