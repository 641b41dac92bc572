// Package config provides configuration management for the evaldbt CLI.
//
// Values are layered from built-in defaults, an evaldbt.yaml file,
// EVALDBT_* environment variables and command-line flags, in that order.
package config

// Config holds all CLI configuration options.
type Config struct {
	Manifest        string      `koanf:"manifest"`
	Rules           []string    `koanf:"rules"`
	OutputFormat    string      `koanf:"output"`
	Verbose         bool        `koanf:"verbose"`
	LogLevel        string      `koanf:"log_level"`
	Workers         int         `koanf:"workers"`
	FailOnViolation bool        `koanf:"fail_on_violation"`
	MetricsFile     string      `koanf:"metrics_file"`
	Lint            *LintConfig `koanf:"lint"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// LintConfig tunes the rule catalog for a project.
type LintConfig struct {
	// Disabled rules are dropped from every selection.
	Disabled []string `koanf:"disabled"`

	// Severity maps a rule name to error, warning or info.
	Severity map[string]string `koanf:"severity"`
}

// Default configuration values.
const (
	DefaultManifest = "target/manifest.json"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel = "warn"
)

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	return &Config{
		Manifest:        DefaultManifest,
		OutputFormat:    DefaultOutput,
		LogLevel:        DefaultLogLevel,
		FailOnViolation: true,
	}
}
