package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *countingReloader) Reload(context.Context) (*domain.RebuildReport, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &domain.RebuildReport{Indexed: 1}, nil
}

// startWatcher runs w until the test ends and waits for the watch to be armed.
func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(50 * time.Millisecond)
}

func TestNew_Validation(t *testing.T) {
	_, err := New("prompts.json", nil, 0)
	assert.Error(t, err)

	w, err := New("/tmp/x/prompts.json", &countingReloader{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.Equal(t, "/tmp/x", w.parentPath)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")
	reloader := &countingReloader{}
	w, err := New(path, reloader, 20*time.Millisecond)
	require.NoError(t, err)
	startWatcher(t, w)

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))

	assert.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_ReloadsOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))
	reloader := &countingReloader{}
	w, err := New(path, reloader, 20*time.Millisecond)
	require.NoError(t, err)
	startWatcher(t, w)

	tmp := filepath.Join(dir, "prompts.json.123.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"A": {}}`), 0600))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")
	reloader := &countingReloader{}
	w, err := New(path, reloader, 100*time.Millisecond)
	require.NoError(t, err)
	startWatcher(t, w)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))
	}

	assert.Eventually(t, func() bool { return reloader.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Less(t, reloader.calls.Load(), int32(10))
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	reloader := &countingReloader{}
	w, err := New(filepath.Join(dir, "prompts.json"), reloader, 20*time.Millisecond)
	require.NoError(t, err)
	startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("x = 1"), 0600))

	assert.Never(t, func() bool { return reloader.calls.Load() > 0 }, 200*time.Millisecond, 20*time.Millisecond)
}

func TestWatcher_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet")
	reloader := &countingReloader{}
	w, err := New(filepath.Join(dir, "prompts.json"), reloader, 20*time.Millisecond)
	require.NoError(t, err)
	startWatcher(t, w)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWatcher_OnReloadReceivesErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.json")
	reloader := &countingReloader{err: errors.New("corrupt")}
	w, err := New(path, reloader, 20*time.Millisecond)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen []error
	)
	w.OnReload(func(_ *domain.RebuildReport, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, err)
	})
	startWatcher(t, w)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[0] != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "prompts.json"), &countingReloader{}, 0)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
