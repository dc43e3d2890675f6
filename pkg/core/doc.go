// Package core defines the shared vocabulary of forseti-terraform.
//
// This package contains:
//   - Severity levels and their wire names
//   - Rule metadata (RuleInfo) consumed by hosts and documentation
//   - Lint configuration types (LintConfig, RuleOptions)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
