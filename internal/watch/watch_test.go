package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/l10nkit/internal/datasync"
)

type countingSyncer struct {
	calls atomic.Int32
}

func (s *countingSyncer) Sync(context.Context) (datasync.Result, error) {
	s.calls.Add(1)
	return datasync.Result{Status: datasync.StatusUpToDate}, nil
}

func TestWatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "components"), 0755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncer := &countingSyncer{}
	var callbacks atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, root, 20*time.Millisecond, syncer, func(datasync.Result, error) {
			callbacks.Add(1)
		})
	}()

	require.Eventually(t, func() bool { return syncer.calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond, "initial sync")
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "components", "notes.txt"), []byte("x"), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), syncer.calls.Load(), "non-dictionary files are ignored")

	// A burst of writes is debounced into a single sync.
	path := filepath.Join(root, "components", "Hero.json")
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte(`{"content": {}}`), 0644))
	}
	require.Eventually(t, func() bool { return syncer.calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond, "sync after a write")

	// Dictionaries in new directories are picked up too.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages"), 0755))
	time.Sleep(100 * time.Millisecond)
	calls := syncer.calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pages", "index.json"), []byte(`{"content": {}}`), 0644))
	require.Eventually(t, func() bool { return syncer.calls.Load() > calls }, 5*time.Second, 10*time.Millisecond, "sync after a write in a new directory")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Equal(t, syncer.calls.Load(), callbacks.Load())
}

func TestWatch_canceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	syncer := &countingSyncer{}
	err := Watch(ctx, filepath.Join(t.TempDir(), "missing"), time.Millisecond, syncer, nil)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), syncer.calls.Load())
}
