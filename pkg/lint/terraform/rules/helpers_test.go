package rules_test

import (
	"testing"

	"github.com/forseti-dev/forseti-terraform/internal/testutil"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
	"github.com/forseti-dev/forseti-terraform/pkg/source"
)

// runRule analyzes text with the full ruleset and keeps ruleID's diagnostics.
func runRule(t *testing.T, text string, ruleID string) []lint.Diagnostic {
	t.Helper()
	return runRuleWithConfig(t, text, ruleID, lint.NewConfig())
}

func runRuleWithConfig(t *testing.T, text string, ruleID string, cfg *lint.Config) []lint.Diagnostic {
	t.Helper()

	analyzer := lint.NewAnalyzer(rules.NewRuleset(), cfg).WithLogger(testutil.NewTestLogger(t))
	diags := analyzer.Analyze(text)

	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func rng(startLine, startChar, endLine, endChar int) source.Range {
	return source.Range{
		Start: source.Position{Line: startLine, Character: startChar},
		End:   source.Position{Line: endLine, Character: endChar},
	}
}
