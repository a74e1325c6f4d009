package driven

import "time"

// ConfigStore provides access to application configuration.
// Keys are dot-separated paths, e.g. "chunking.chunk_size".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value. Numeric strings are
	// parsed. Returns 0 if the key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetDuration retrieves a duration written as a Go duration string
	// ("1h", "90m"). Returns 0 if the key doesn't exist or doesn't parse.
	GetDuration(key string) time.Duration

	// Keys returns every key in sorted order.
	Keys() []string

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
