package config

// LoggingConfig controls the exporter's own diagnostics, written to stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// OutputConfig controls the forwarded entries written to stdout.
type OutputConfig struct {
	Format string `yaml:"format"` // text, json
}
