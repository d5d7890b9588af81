package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level,omitempty"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format,omitempty"` // json, text
	File   string `yaml:"file" json:"file,omitempty"`     // log file; required for logs in the TUI
}
