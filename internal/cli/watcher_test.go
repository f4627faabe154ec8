package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, patterns []string, debounce time.Duration, onChange func(context.Context) error) {
	t.Helper()
	w, err := NewWatcher(DefaultConfig(), patterns, onChange, nil)
	require.NoError(t, err)
	w.SetDebounce(debounce)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
}

func TestWatcher_RunsOnInputChange(t *testing.T) {
	root := makeTree(t, map[string]string{"a.mg.rs": flatInput})
	changed := make(chan struct{}, 10)
	startWatcher(t, []string{root}, 20*time.Millisecond, func(context.Context) error {
		changed <- struct{}{}
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.mg.rs"), []byte(namedInput), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("change handler was not called")
	}
}

func TestWatcher_Debounces(t *testing.T) {
	root := makeTree(t, map[string]string{"a.mg.rs": flatInput})
	var calls atomic.Int32
	startWatcher(t, []string{root}, 300*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.mg.rs"), []byte(flatInput+string(rune('a'+i))), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_RunsDoNotOverlap(t *testing.T) {
	root := makeTree(t, map[string]string{"a.mg.rs": flatInput})
	var active, maxActive, calls atomic.Int32
	started := make(chan struct{}, 10)
	startWatcher(t, []string{root}, 20*time.Millisecond, func(context.Context) error {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		started <- struct{}{}
		time.Sleep(300 * time.Millisecond)
		active.Add(-1)
		calls.Add(1)
		return nil
	})

	path := filepath.Join(root, "a.mg.rs")
	require.NoError(t, os.WriteFile(path, []byte(namedInput), 0o644))
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("change handler was not called")
	}

	// The first run is still sleeping when this change settles.
	require.NoError(t, os.WriteFile(path, []byte(flatInput), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestWatcher_IgnoresOutputs(t *testing.T) {
	root := makeTree(t, map[string]string{"a.mg.rs": flatInput})
	var calls atomic.Int32
	startWatcher(t, []string{root}, 20*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.rs"), []byte(flatOutput), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := makeTree(t, map[string]string{"a.mg.rs": flatInput})
	changed := make(chan struct{}, 10)
	startWatcher(t, []string{root + "/..."}, 20*time.Millisecond, func(context.Context) error {
		changed <- struct{}{}
		return nil
	})

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	// The new directory is watched once its create event is handled.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(sub, "b.mg.rs"), []byte(flatInput), 0o644)
		select {
		case <-changed:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestNewWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(DefaultConfig(), []string{filepath.Join(t.TempDir(), "missing")}, nil, nil)
	assert.Error(t, err)
}
