package driving

import "github.com/custodia-labs/bfs/internal/core/domain"

// SettingsService reads and updates the tunables kept in the config file.
type SettingsService interface {
	// Get returns the effective settings, defaults filled in.
	Get() domain.Settings

	// Set parses value for key and persists it.
	// Returns domain.ErrInvalidInput for unknown keys or malformed values.
	Set(key, value string) error

	// Keys returns the recognised config keys in display order.
	Keys() []string
}
