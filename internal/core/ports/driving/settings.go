package driving

import "github.com/custodia-labs/vecsync/internal/core/domain"

// SettingsService manages persisted reconcile defaults.
type SettingsService interface {
	// Get resolves the configured settings over the defaults.
	// Values of the wrong type are reported, never silently ignored.
	Get() (*domain.Settings, error)

	// Set parses value for key and persists it.
	Set(key, value string) error

	// Keys lists the recognised configuration keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
