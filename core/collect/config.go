package collect

// Config holds configuration for the collection layer.
type Config struct {
	// Workers is the number of devices collected concurrently.
	Workers int `mapstructure:"workers" default:"8"`
	// TimeoutSeconds is the per-device protocol timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// Retries is the number of SNMP retries per request.
	Retries int `mapstructure:"retries" default:"1"`
	// Community is the default SNMP community for targets that set none.
	Community string `mapstructure:"community" default:"public"`
	// TargetsFile is the path to the device targets YAML file.
	TargetsFile string `mapstructure:"targets_file" default:"targets.yml"`
}
