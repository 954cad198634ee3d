package driven

// SettingsStore provides access to application settings.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type SettingsStore interface {
	// GetString retrieves a string setting.
	// Returns empty string if the key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer setting.
	// Returns 0 if the key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean setting.
	// Returns false if the key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a setting. The value is persisted immediately.
	Set(key string, value any) error

	// Path returns the settings file path.
	Path() string
}
