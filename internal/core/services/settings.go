package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/promptdeck/internal/core/domain"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
	"github.com/custodia-labs/promptdeck/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStorageBackend = "storage.backend"
	keyStorageDir     = "storage.dir"
	keyPromptCreator  = "prompt.creator"
	keyUIMaxVisible   = "ui.max_visible"
	keySinkTarget     = "sink.target"
	keyWatchEnabled   = "watch.enabled"
	keyWatchDebounce  = "watch.debounce_ms"
	keyLogFile        = "log.file"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			Dir:     s.configStore.GetString(keyStorageDir), // empty means the data directory
		},
		Prompt: domain.PromptSettings{
			Creator: s.getString(keyPromptCreator, defaults.Prompt.Creator),
		},
		UI: domain.UISettings{
			MaxVisible: s.getInt(keyUIMaxVisible, defaults.UI.MaxVisible),
		},
		Sink: domain.SinkSettings{
			Target: s.getSinkTarget(defaults.Sink.Target),
		},
		Watch: domain.WatchSettings{
			Enabled:    s.getBool(keyWatchEnabled, defaults.Watch.Enabled),
			DebounceMS: s.getInt(keyWatchDebounce, defaults.Watch.DebounceMS),
		},
		Log: domain.LogSettings{
			File: s.configStore.GetString(keyLogFile),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageDir, settings.Storage.Dir},
		{keyPromptCreator, settings.Prompt.Creator},
		{keyUIMaxVisible, settings.UI.MaxVisible},
		{keySinkTarget, settings.Sink.Target.String()},
		{keyWatchEnabled, settings.Watch.Enabled},
		{keyWatchDebounce, settings.Watch.DebounceMS},
		{keyLogFile, settings.Log.File},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	var parsed any
	switch key {
	case keyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, value)
		}
		parsed = value
	case keySinkTarget:
		if !domain.SinkTarget(value).IsValid() {
			return fmt.Errorf("%w: sink target %q", domain.ErrInvalidInput, value)
		}
		parsed = value
	case keyUIMaxVisible, keyWatchDebounce:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case keyWatchEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case keyStorageDir, keyPromptCreator, keyLogFile:
		parsed = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyStorageBackend,
		keyStorageDir,
		keyPromptCreator,
		keyUIMaxVisible,
		keySinkTarget,
		keyWatchEnabled,
		keyWatchDebounce,
		keyLogFile,
	}
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", settings.Storage.Backend)
	}
	if !settings.Sink.Target.IsValid() {
		return fmt.Errorf("invalid sink target: %s", settings.Sink.Target)
	}
	if settings.UI.MaxVisible <= 0 {
		return fmt.Errorf("ui.max_visible must be positive, got %d", settings.UI.MaxVisible)
	}

	return nil
}

// GetDefaults returns default settings. The creator defaults to $USER.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	defaults := domain.DefaultAppSettings()
	if user := os.Getenv("USER"); user != "" {
		defaults.Prompt.Creator = user
	}
	return defaults
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getSinkTarget(defaultVal domain.SinkTarget) domain.SinkTarget {
	target := domain.SinkTarget(s.configStore.GetString(keySinkTarget))
	if !target.IsValid() {
		return defaultVal
	}
	return target
}
