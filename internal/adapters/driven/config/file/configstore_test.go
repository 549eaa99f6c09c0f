package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".promptdeck", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "deep")

	store, err := NewConfigStore(nestedPath)

	require.NoError(t, err)
	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	assert.Equal(t, filepath.Join(nestedPath, "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("prompt.creator", "alice"))
	require.NoError(t, store.Set("ui.max_visible", 10))
	require.NoError(t, store.Set("watch.enabled", true))

	assert.Equal(t, "alice", store.GetString("prompt.creator"))
	assert.Equal(t, 10, store.GetInt("ui.max_visible"))
	assert.True(t, store.GetBool("watch.enabled"))

	// Wrong types and missing keys return zero values.
	assert.Equal(t, "", store.GetString("ui.max_visible"))
	assert.Equal(t, 0, store.GetInt("prompt.creator"))
	assert.False(t, store.GetBool("prompt.creator"))
	assert.Equal(t, "", store.GetString("missing"))

	val, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_GetInt_Int64Type(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	store.mu.Lock()
	store.data["watch.debounce_ms"] = int64(250)
	store.mu.Unlock()

	assert.Equal(t, 250, store.GetInt("watch.debounce_ms"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("storage.backend", "sqlite"))
	require.NoError(t, store1.Set("ui.max_visible", 7))
	require.NoError(t, store1.Set("watch.enabled", false))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", store2.GetString("storage.backend"))
	assert.Equal(t, 7, store2.GetInt("ui.max_visible"))
	v, ok := store2.Get("watch.enabled")
	assert.True(t, ok)
	assert.Equal(t, false, v)
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.backend", "json"))
	require.NoError(t, store.Set("storage.dir", "/data"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[storage]")
	assert.NotContains(t, string(data), "'storage.backend'")
}

func TestConfigStore_ReadsHandWrittenTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[storage]\nbackend = \"memory\"\n\n[ui]\nmax_visible = 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "memory", store.GetString("storage.backend"))
	assert.Equal(t, 4, store.GetInt("ui.max_visible"))
	assert.Equal(t, []string{"storage.backend", "ui.max_visible"}, store.Keys())
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("prompt.creator", "bob"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Empty(t, store.Keys())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["log.file"] = "/tmp/pd.log"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pd.log", store2.GetString("log.file"))
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("prompt.creator", "x"))

	// Replace the file with a directory so the write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err = store.Set("prompt.creator", "y")

	assert.Error(t, err)
	assert.Equal(t, "x", store.GetString("prompt.creator"), "failed set is rolled back")
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("prompt.creator", "x"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("channel", make(chan int))

	assert.Error(t, err)
	_, ok := store.Get("channel")
	assert.False(t, ok)

	// The store keeps working after the failed set.
	assert.NoError(t, store.Set("prompt.creator", "ok"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "bench.key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 10)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a":       1,
		"a.b":     2,
		"ui.max":  3,
		"ui.mode": "x",
		"top":     true,
	})

	assert.Equal(t, 1, nested["a"])
	assert.Equal(t, 2, nested["a.b"], "path through a scalar stays dotted")
	assert.Equal(t, map[string]any{"max": 3, "mode": "x"}, nested["ui"])
	assert.Equal(t, true, nested["top"])

	assert.Equal(t, map[string]any{"a": 1, "a.b": 2, "ui.max": 3, "ui.mode": "x", "top": true}, flattenMap(nested, ""))
}

func TestConfigStore_WritesHeader(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ui.max_visible", 5))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# promptdeck settings"))
	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}
