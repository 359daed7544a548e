package driven

// ConfigStore persists user-facing settings for the CLI driver.
type ConfigStore interface {
	// GetString retrieves a string setting, or "" when unset.
	GetString(key string) string

	// Set stores a setting and persists it.
	Set(key, value string) error

	// All returns a copy of every stored setting.
	All() map[string]string
}

// Well-known configuration keys.
const (
	// ConfigKeyEndpoint is the base URL of the redaction API server
	// the CLI's classifier client talks to.
	ConfigKeyEndpoint = "endpoint"

	// ConfigKeyModel is the generative-AI model the server uses.
	ConfigKeyModel = "model"
)
