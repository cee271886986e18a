package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cached(p *Player, path string) bool {
	p.clipMu.RLock()
	defer p.clipMu.RUnlock()
	_, ok := p.clips[path]
	return ok
}

func TestWatcher_EvictsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ping.wav")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	p := NewPlayer(nil)
	p.clips[path] = &clip{modTime: time.Now()}

	w := NewWatcher(p, nil)
	w.Watch(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	// Give the watcher a moment to register, then modify the file
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if !cached(p, path) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("cached clip was not evicted after file change")
}

func TestWatcher_IgnoresUnregisteredFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "ping.wav")
	other := filepath.Join(dir, "other.wav")
	require.NoError(t, os.WriteFile(watched, []byte("v1"), 0644))

	p := NewPlayer(nil)
	p.clips[other] = &clip{modTime: time.Now()}

	w := NewWatcher(p, nil)
	w.Watch(watched)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("v2"), 0644))

	time.Sleep(200 * time.Millisecond)
	assert.True(t, cached(p, other), "unregistered file should not be evicted")
}

func TestWatcher_UnwatchStopsEviction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ping.wav")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	p := NewPlayer(nil)
	p.clips[path] = &clip{modTime: time.Now()}

	w := NewWatcher(p, nil)
	w.Watch(path)
	w.Unwatch(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))

	time.Sleep(200 * time.Millisecond)
	assert.True(t, cached(p, path), "unwatched file should not be evicted")
}

func TestWatcher_WatchAfterStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late.wav")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	p := NewPlayer(nil)
	p.clips[path] = &clip{modTime: time.Now()}

	w := NewWatcher(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	w.Watch(path)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if !cached(p, path) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("file registered after Start was not evicted")
}
