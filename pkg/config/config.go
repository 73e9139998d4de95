// Package config holds harness configuration: which serial port and target
// to drive, and the timeout budget for each phase of a device check.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SerialConfig selects the DUT console.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud" default:"115200"`
}

// TimeoutConfig is the per-phase timeout budget. The defaults mirror what
// the firmware needs on real hardware: Wi-Fi association can take tens of
// seconds, the web server is up within 15s of the IP announcement.
type TimeoutConfig struct {
	IPWait        time.Duration `yaml:"ip_wait" default:"90s"`
	Ready         time.Duration `yaml:"ready" default:"15s"`
	ReadyInterval time.Duration `yaml:"ready_interval" default:"1s"`
	HTTP          time.Duration `yaml:"http" default:"10s"`
}

// Config holds application configuration.
type Config struct {
	Target   string        `yaml:"target"`
	Serial   SerialConfig  `yaml:"serial"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	LogLevel string        `yaml:"log_level" default:"info"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// NewLogger creates a configured logger instance.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger, nil
}
