package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
// Keys use dot notation, e.g. "stream.batch_size".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString returns the string at key, or def if missing or mistyped.
	GetString(key, def string) string

	// GetInt returns the integer at key, or def if missing or mistyped.
	GetInt(key string, def int) int

	// GetBool returns the boolean at key, or def if missing or mistyped.
	GetBool(key string, def bool) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Path returns the configuration file path.
	Path() string
}
