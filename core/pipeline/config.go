package pipeline

// Config holds configuration for the pipeline store.
type Config struct {
	// Dir is the directory pipeline definitions are read from and saved to.
	Dir string `mapstructure:"dir" default:"pipelines"`
}
