// Package logger provides the structured logging interface shared by the
// tracker core and the ingestion service.
package logger

// Config configures a logger built with New.
type Config struct {
	// Level is the minimum level emitted: debug, info, warn, error, fatal.
	Level string `env:"LOG_LEVEL" yaml:"level"`
	// Format is the output format; only "json" is produced.
	Format string `env:"LOG_FORMAT" yaml:"format"`
	// Development disables sampling so every entry is visible.
	Development bool `yaml:"development"`
	// OutputPaths lists the URLs or file paths log output goes to.
	OutputPaths []string `yaml:"output_paths"`
}

// SetDefaults fills unset fields: info level, json format, stdout output.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = []string{"stdout"}
	}
}
