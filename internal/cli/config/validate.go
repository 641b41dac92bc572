package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var validOutputs = []string{"auto", "text", "markdown", "md", "json", "yaml", "yml"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Manifest == "" {
		errs = append(errs, fmt.Errorf("manifest is required"))
	}
	if c.OutputFormat != "" && !slices.Contains(validOutputs, strings.ToLower(c.OutputFormat)) {
		errs = append(errs, fmt.Errorf("output must be one of auto, text, markdown, json, yaml (got %q)", c.OutputFormat))
	}
	if c.LogLevel != "" {
		if _, err := parseLevel(c.LogLevel); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0 (got %d)", c.Workers))
	}

	return errors.Join(errs...)
}

// Level returns the log level: debug when verbose, otherwise log_level,
// falling back to warn.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	if lvl, err := parseLevel(c.LogLevel); err == nil && c.LogLevel != "" {
		return lvl
	}
	return slog.LevelWarn
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", s)
	}
	return lvl, nil
}
