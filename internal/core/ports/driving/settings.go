package driving

import "github.com/custodia-labs/promptdeck/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dotted key (e.g. "ui.max_visible").
	Set(key, value string) error

	// Keys returns the settable keys in display order.
	Keys() []string

	// Validate checks that current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
