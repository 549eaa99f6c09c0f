package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptdeck/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	t.Setenv("USER", "")
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, domain.DefaultCreator, settings.Prompt.Creator)
	assert.Equal(t, 10, settings.UI.MaxVisible)
	assert.Equal(t, domain.SinkTargetStdout, settings.Sink.Target)
	assert.True(t, settings.Watch.Enabled)
	assert.Equal(t, 100, settings.Watch.DebounceMS)
	assert.Empty(t, settings.Storage.Dir)
}

func TestSettingsService_Get_CreatorFromUser(t *testing.T) {
	t.Setenv("USER", "alice")
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "alice", settings.Prompt.Creator)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("storage.backend", "sqlite")
	_ = store.Set("storage.dir", "/tmp/pd")
	_ = store.Set("prompt.creator", "bob")
	_ = store.Set("ui.max_visible", 5)
	_ = store.Set("sink.target", "clipboard")
	_ = store.Set("watch.enabled", false)
	_ = store.Set("watch.debounce_ms", 250)
	_ = store.Set("log.file", "/tmp/pd.log")

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StorageBackendSQLite, settings.Storage.Backend)
	assert.Equal(t, "/tmp/pd", settings.Storage.Dir)
	assert.Equal(t, "bob", settings.Prompt.Creator)
	assert.Equal(t, 5, settings.UI.MaxVisible)
	assert.Equal(t, domain.SinkTargetClipboard, settings.Sink.Target)
	assert.False(t, settings.Watch.Enabled)
	assert.Equal(t, 250, settings.Watch.DebounceMS)
	assert.Equal(t, "/tmp/pd.log", settings.Log.File)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("storage.backend", "postgres")
	_ = store.Set("sink.target", "printer")
	_ = store.Set("ui.max_visible", -3)

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StorageBackendJSON, settings.Storage.Backend)
	assert.Equal(t, domain.SinkTargetStdout, settings.Sink.Target)
	assert.Equal(t, domain.DefaultMaxVisible, settings.UI.MaxVisible)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	in := domain.DefaultAppSettings()
	in.Storage.Backend = domain.StorageBackendMemory
	in.Prompt.Creator = "carol"
	in.UI.MaxVisible = 7
	in.Watch.Enabled = false

	require.NoError(t, service.Save(&in))

	out, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, in.Storage.Backend, out.Storage.Backend)
	assert.Equal(t, "carol", out.Prompt.Creator)
	assert.Equal(t, 7, out.UI.MaxVisible)
	assert.False(t, out.Watch.Enabled)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, s *domain.AppSettings)
	}{
		{"backend", "storage.backend", "sqlite", false, func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.StorageBackendSQLite, s.Storage.Backend)
		}},
		{"invalid backend", "storage.backend", "mongo", true, nil},
		{"max visible", "ui.max_visible", "3", false, func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, 3, s.UI.MaxVisible)
		}},
		{"max visible not a number", "ui.max_visible", "many", true, nil},
		{"max visible zero", "ui.max_visible", "0", true, nil},
		{"watch enabled", "watch.enabled", "false", false, func(t *testing.T, s *domain.AppSettings) {
			assert.False(t, s.Watch.Enabled)
		}},
		{"watch enabled not a bool", "watch.enabled", "sometimes", true, nil},
		{"sink", "sink.target", "clipboard", false, func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, domain.SinkTargetClipboard, s.Sink.Target)
		}},
		{"creator", "prompt.creator", "dave", false, func(t *testing.T, s *domain.AppSettings) {
			assert.Equal(t, "dave", s.Prompt.Creator)
		}},
		{"unknown key", "search.mode", "hybrid", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())

			err := service.Set(tt.key, tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Contains(t, keys, "storage.backend")
	assert.Contains(t, keys, "ui.max_visible")
	assert.Equal(t, "storage.backend", keys[0])
}

func TestSettingsService_Validate(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.NoError(t, service.Validate())
}

func TestSettingsService_GetBool_WithoutKey(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.True(t, service.getBool("watch.enabled", true))
	assert.False(t, service.getBool("watch.enabled", false))
}
