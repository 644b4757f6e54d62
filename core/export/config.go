package export

// Config holds configuration for the export layer.
type Config struct {
	// Dir is the directory export files are written to. It is created on
	// first use.
	Dir string `mapstructure:"dir" default:"exports"`
	// Keep caps how many artifacts per target and format are retained,
	// locally and in the bucket. Zero keeps everything.
	Keep int `mapstructure:"keep" default:"0"`
}
