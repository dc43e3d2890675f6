package lint

import (
	"strings"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
)

// Config controls which rules are enabled, their severity and options.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]core.Severity

	// RuleOptions holds rule-specific options keyed by rule ID
	RuleOptions map[string]map[string]any

	// prefixes that introduce suppression comments; empty disables them
	prefixes []string
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}

// AnnotationPrefixes returns the comment prefixes recognized for suppression.
func (c *Config) AnnotationPrefixes() []string {
	if c == nil {
		return nil
	}
	return c.prefixes
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// Enable re-enables a rule disabled earlier.
func (c *Config) Enable(ruleID string) *Config {
	delete(c.DisabledRules, ruleID)
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetRuleOptions sets rule-specific options.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	c.RuleOptions[ruleID] = opts
	return c
}

// SetAnnotationPrefixes enables suppression comments introduced by any of
// prefixes, e.g. "#" and "//".
func (c *Config) SetAnnotationPrefixes(prefixes ...string) *Config {
	c.prefixes = append([]string(nil), prefixes...)
	return c
}

// ApplyLintConfig merges file-level lint configuration. A severity of "off"
// disables the rule. Unknown severities are returned as invalid keys and
// otherwise ignored.
func (c *Config) ApplyLintConfig(lc *core.LintConfig) (invalid []string) {
	if lc == nil {
		return nil
	}
	for _, id := range lc.Disabled {
		if id = strings.TrimSpace(id); id != "" {
			c.Disable(id)
		}
	}
	for id, sev := range lc.Severity {
		if strings.EqualFold(strings.TrimSpace(sev), core.SeverityOff) {
			c.Disable(id)
			continue
		}
		s, ok := core.ParseSeverity(sev)
		if !ok {
			invalid = append(invalid, id)
			continue
		}
		c.SetSeverity(id, s)
	}
	for id, opts := range lc.Rules {
		c.SetRuleOptions(id, opts)
	}
	return invalid
}
