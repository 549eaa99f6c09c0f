package domain

import "time"

const unknownDescription = "Unknown"

// StorageBackend selects where prompts are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendJSON stores prompts in prompts.json, keyed by title.
	StorageBackendJSON StorageBackend = "json"

	// StorageBackendSQLite stores prompts in a SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendMemory keeps prompts in memory for the life of the process.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendJSON, StorageBackendSQLite, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// IsPersistent returns true if prompts survive a restart.
func (b StorageBackend) IsPersistent() bool {
	return b == StorageBackendJSON || b == StorageBackendSQLite
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendJSON:
		return "JSON file (prompts.json)"
	case StorageBackendSQLite:
		return "SQLite database"
	case StorageBackendMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// SinkTarget selects where committed text is delivered.
type SinkTarget string

// Available sink targets.
const (
	// SinkTargetStdout writes the resolved text to standard output.
	SinkTargetStdout SinkTarget = "stdout"

	// SinkTargetClipboard copies the resolved text to the system clipboard.
	SinkTargetClipboard SinkTarget = "clipboard"
)

// IsValid returns true if the sink target is recognised.
func (s SinkTarget) IsValid() bool {
	return s == SinkTargetStdout || s == SinkTargetClipboard
}

// String returns the string representation.
func (s SinkTarget) String() string {
	return string(s)
}

// Description returns a human-readable description of the target.
func (s SinkTarget) Description() string {
	switch s {
	case SinkTargetStdout:
		return "Standard output"
	case SinkTargetClipboard:
		return "System clipboard"
	default:
		return unknownDescription
	}
}

// StorageSettings holds prompt storage configuration.
type StorageSettings struct {
	// Backend is the persistence backend.
	Backend StorageBackend

	// Dir is the directory holding prompts.json or the database.
	// Empty means the default data directory.
	Dir string
}

// PromptSettings holds prompt authoring configuration.
type PromptSettings struct {
	// Creator is stamped on newly created prompts.
	Creator string
}

// UISettings holds presentation configuration.
type UISettings struct {
	// MaxVisible caps the number of candidates rendered at once.
	// The engine always keeps the full candidate list.
	MaxVisible int
}

// SinkSettings holds submission sink configuration.
type SinkSettings struct {
	// Target is where committed text goes.
	Target SinkTarget
}

// WatchSettings holds prompt file watching configuration.
type WatchSettings struct {
	// Enabled turns external change detection on.
	Enabled bool

	// DebounceMS is the quiet period before a reload, in milliseconds.
	DebounceMS int
}

// Debounce returns the debounce period as a duration.
func (w WatchSettings) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// LogSettings holds logging configuration.
type LogSettings struct {
	// File is the rotating log file used while the TUI owns the terminal.
	// Empty means the default location.
	File string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Storage StorageSettings
	Prompt  PromptSettings
	UI      UISettings
	Sink    SinkSettings
	Watch   WatchSettings
	Log     LogSettings
}

// DefaultCreator is used when no creator is configured and $USER is unset.
const DefaultCreator = "default_user"

// DefaultMaxVisible is the number of suggestions shown at once.
const DefaultMaxVisible = 10

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend: StorageBackendJSON,
		},
		Prompt: PromptSettings{
			Creator: DefaultCreator,
		},
		UI: UISettings{
			MaxVisible: DefaultMaxVisible,
		},
		Sink: SinkSettings{
			Target: SinkTargetStdout,
		},
		Watch: WatchSettings{
			Enabled:    true,
			DebounceMS: 100,
		},
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{
		StorageBackendJSON,
		StorageBackendSQLite,
		StorageBackendMemory,
	}
}

// AllSinkTargets returns all available sink targets.
func AllSinkTargets() []SinkTarget {
	return []SinkTarget{
		SinkTargetStdout,
		SinkTargetClipboard,
	}
}
