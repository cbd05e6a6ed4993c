package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan string, within time.Duration) (string, bool) {
	t.Helper()
	select {
	case v, ok := <-ch:
		return v, ok
	case <-time.After(within):
		return "", false
	}
}

func TestWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Dir: dir, InitialScan: true})
	require.NoError(t, err)

	got, ok := receive(t, events, time.Second)
	require.True(t, ok)
	assert.Equal(t, dir, got)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Dir: dir, Debounce: 100 * time.Millisecond})
	require.NoError(t, err)

	for _, name := range []string{"a.pdf", "b.pdf", "0123456_r_drawing_d_xr_A.JPG"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	got, ok := receive(t, events, 3*time.Second)
	require.True(t, ok)
	assert.Equal(t, dir, got)

	_, ok = receive(t, events, 300*time.Millisecond)
	assert.False(t, ok, "burst should collapse into one signal")
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Dir: dir, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	_, ok := receive(t, events, 300*time.Millisecond)
	assert.False(t, ok)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	events, _, err := StartWatcher(ctx, WatchConfig{Dir: t.TempDir()})
	require.NoError(t, err)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestStartWatcherRequiresDir(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
