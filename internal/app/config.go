package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/playpublisher/internal/release"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Request *release.Request

	LogFormat   string
	LogLevel    string
	MetricsFile string // empty disables the metrics textfile
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Request == nil {
		return nil, errors.New("a release request is required")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	return &cfg, nil
}
