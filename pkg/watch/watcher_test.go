package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svergne/pyscope/pkg/config"
)

func TestWatchReportsChangedPythonFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	var mu sync.Mutex
	changed := map[string]int{}
	w, err := New(config.DefaultConfig(), 50*time.Millisecond, func(p string) {
		mu.Lock()
		changed[filepath.Base(p)]++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, root) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0o644))
	// Not a Python file, must not trigger.
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return changed["mod.py"] >= 1
	}, 3*time.Second, 25*time.Millisecond)

	mu.Lock()
	assert.Zero(t, changed["notes.txt"])
	mu.Unlock()

	cancel()
	require.NoError(t, <-done)
}

func TestDebounceCollapsesBursts(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "mod.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	var mu sync.Mutex
	calls := 0
	w, err := New(config.DefaultConfig(), 200*time.Millisecond, func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx, root) }()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 1
	}, 3*time.Second, 25*time.Millisecond)

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}
