package driving

import (
	"context"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Validate checks that settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// SetValue parses and stores one setting by key.
	// Returns domain.ErrInvalidInput for unknown keys or unparsable values.
	SetValue(key, value string) error

	// List returns every known setting with its effective value.
	List() ([]SettingValue, error)
}

// SettingValue is one row of a settings listing.
type SettingValue struct {
	Key   string
	Value string

	// IsDefault is true when the key is not set in the config file.
	IsDefault bool
}

// MaintenanceService removes expired cache and idempotency entries.
type MaintenanceService interface {
	// PurgeExpired returns the number of cache and idempotency entries removed.
	PurgeExpired(ctx context.Context) (cache int, keys int, err error)
}
