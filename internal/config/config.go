package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all brainsite configuration.
type Config struct {
	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Content store
	Store StoreConfig `yaml:"store"`

	// Content tables
	Content ContentConfig `yaml:"content"`

	// UI timers
	Timing TimingConfig `yaml:"timing"`

	// Seed for the notification simulator and reply picker. 0 means time-seeded.
	Seed int64 `yaml:"seed"`
}

// StoreConfig configures the SQLite content store.
type StoreConfig struct {
	// Path of the database; ":memory:" keeps nothing after exit.
	Path string `yaml:"path"`
}

// ContentConfig configures where content tables come from.
type ContentConfig struct {
	// Dir overrides the embedded content with YAML files from disk.
	Dir string `yaml:"dir"`
}

// TimingConfig configures the interaction timers.
type TimingConfig struct {
	RippleWindow   string `yaml:"ripple_window"`   // default 600ms
	NotifyInterval string `yaml:"notify_interval"` // default 15s
	NotifyDisplay  string `yaml:"notify_display"`  // default 3s
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Path: ":memory:",
		},
		Timing: TimingConfig{
			RippleWindow:   "600ms",
			NotifyInterval: "15s",
			NotifyDisplay:  "3s",
		},
	}
}

// DefaultPath returns the config path from $BRAINSITE_CONFIG or
// ~/.brainsite/config.yaml.
func DefaultPath() string {
	if env := os.Getenv("BRAINSITE_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".brainsite", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("BRAINSITE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if file := os.Getenv("BRAINSITE_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
	if dir := os.Getenv("BRAINSITE_CONTENT_DIR"); dir != "" {
		c.Content.Dir = dir
	}
	if path := os.Getenv("BRAINSITE_DB"); path != "" {
		c.Store.Path = path
	}
	if seed := os.Getenv("BRAINSITE_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Seed = n
		}
	}
}

// GetRippleWindow returns the ripple window as a duration.
func (c *Config) GetRippleWindow() time.Duration {
	return parseDuration(c.Timing.RippleWindow, 600*time.Millisecond)
}

// GetNotifyInterval returns the notification interval as a duration.
func (c *Config) GetNotifyInterval() time.Duration {
	return parseDuration(c.Timing.NotifyInterval, 15*time.Second)
}

// GetNotifyDisplay returns the notification display window as a duration.
func (c *Config) GetNotifyDisplay() time.Duration {
	return parseDuration(c.Timing.NotifyDisplay, 3*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels {
		if c.Logging.Level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.Logging.Format)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path is empty")
	}
	return nil
}
