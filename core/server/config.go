package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty leaves the
	// API unauthenticated.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Addr returns the listen address passed to fiber.
func (c Config) Addr() string {
	return ":" + c.Port
}
