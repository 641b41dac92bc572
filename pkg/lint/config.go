package lint

import "github.com/leapstack-labs/evaldbt/pkg/core"

// Config controls which selected rules are skipped and their severity.
type Config struct {
	// DisabledRules contains rules to skip even when selected
	DisabledRules map[Rule]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[Rule]core.Severity
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[Rule]bool),
		SeverityOverrides: make(map[Rule]core.Severity),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(r Rule) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[r]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(r Rule) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[r]; ok {
			return sev
		}
	}
	return r.Info().DefaultSeverity
}

// Disable disables a rule.
func (c *Config) Disable(r Rule) *Config {
	c.DisabledRules[r] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(r Rule, severity core.Severity) *Config {
	c.SeverityOverrides[r] = severity
	return c
}

// Filter drops disabled rules from a selection, keeping order and duplicates.
func (c *Config) Filter(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !c.IsDisabled(r) {
			out = append(out, r)
		}
	}
	return out
}
