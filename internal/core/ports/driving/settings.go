package driving

import "github.com/custodia-labs/pdfrag/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get builds settings from defaults and configured sources.
	Get() (*domain.Settings, error)

	// Set persists a single key, validating it against the known keys.
	Set(key, value string) error

	// Keys returns every recognised configuration key.
	Keys() []string

	// Path returns where persisted settings live.
	Path() string
}
