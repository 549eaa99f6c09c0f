package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/promptdeck/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore holds settings in a map for the life of the process.
// It backs the memory storage backend and service tests.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore returns an empty store. Optional initial values are copied.
func NewConfigStore(initial ...map[string]any) *ConfigStore {
	values := make(map[string]any)
	for _, m := range initial {
		maps.Copy(values, m)
	}
	return &ConfigStore{values: values}
}

// Get returns the raw value stored under key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// lookup returns the value under key when it has type T.
func lookup[T any](s *ConfigStore, key string) (T, bool) {
	val, _ := s.Get(key)
	typed, ok := val.(T)
	return typed, ok
}

// GetString returns "" for missing or non-string values.
func (s *ConfigStore) GetString(key string) string {
	v, _ := lookup[string](s, key)
	return v
}

// GetInt accepts the integer shapes TOML and JSON decoders produce.
func (s *ConfigStore) GetInt(key string) int {
	if v, ok := lookup[int](s, key); ok {
		return v
	}
	if v, ok := lookup[int64](s, key); ok {
		return int(v)
	}
	if v, ok := lookup[float64](s, key); ok {
		return int(v)
	}
	return 0
}

// GetBool returns false for missing or non-bool values.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := lookup[bool](s, key)
	return v
}

// Keys returns every stored key, sorted.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Set stores value under key.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Save is a no-op.
func (s *ConfigStore) Save() error { return nil }

// Load is a no-op.
func (s *ConfigStore) Load() error { return nil }

// Path reports ":memory:" since nothing is written to disk.
func (s *ConfigStore) Path() string { return ":memory:" }
