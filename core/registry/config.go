package registry

// Config holds configuration for the registry connection.
type Config struct {
	// URL is the base URL of the registry API.
	URL string `mapstructure:"url" default:""`
	// Token is the API token used for authentication.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// MaxRetries is the number of retries for rate-limited requests.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
}

// Configured reports whether the registry connection is usable.
// Sync operations require both a URL and a token.
func (c Config) Configured() bool {
	return c.URL != "" && c.Token != ""
}
