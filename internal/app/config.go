package app

import (
	"errors"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ScenarioName selects one registered scenario by name.
	ScenarioName string
	// ScenarioPath points at a .hcl file or a directory of them.
	ScenarioPath string

	ListOnly  bool
	CheckOnly bool
	// ReportPath receives the YAML report; "-" writes it to the output stream.
	ReportPath string

	LogFormat string
	LogLevel  string
}

// NewConfig validates and normalizes a Config. The log options are lowercased
// and defaulted here so newLogger can trust them.
func NewConfig(cfg Config) (*Config, error) {
	if !cfg.ListOnly && cfg.ScenarioName == "" && cfg.ScenarioPath == "" {
		return nil, errors.New("a scenario name, a scenario path, or -list is required")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	return &cfg, nil
}
