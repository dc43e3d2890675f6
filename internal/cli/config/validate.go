package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

// OutputModes lists the accepted values of the output key.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(OutputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output: unknown mode %q (want one of %v)", c.OutputFormat, OutputModes))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs: must not be negative, got %d", c.Jobs))
	}
	if c.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("max_file_size: must not be negative, got %d", c.MaxFileSize))
	}

	if c.Lint != nil {
		errs = append(errs, validateLint(c.Lint)...)
	}

	return errors.Join(errs...)
}

func validateLint(lc *LintConfig) []error {
	rs := rules.NewRuleset()
	var errs []error

	for _, id := range lc.Disabled {
		if !rs.Has(strings.TrimSpace(id)) {
			errs = append(errs, fmt.Errorf("lint.disabled: unknown rule %q", id))
		}
	}

	for _, id := range sortedKeys(lc.Severity) {
		if !rs.Has(id) {
			errs = append(errs, fmt.Errorf("lint.severity: unknown rule %q", id))
			continue
		}
		sev := lc.Severity[id]
		if strings.EqualFold(strings.TrimSpace(sev), core.SeverityOff) {
			continue
		}
		if _, ok := core.ParseSeverity(sev); !ok {
			errs = append(errs, fmt.Errorf("lint.severity.%s: invalid severity %q", id, sev))
		}
	}

	for _, id := range sortedKeys(lc.Rules) {
		if !rs.Has(id) {
			errs = append(errs, fmt.Errorf("lint.rules: unknown rule %q", id))
		}
	}

	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
