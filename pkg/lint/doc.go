// Package lint provides the rule-execution core: rules, the per-file rule
// context, ordered rulesets and the analyzer that runs them.
//
// # Architecture
//
// A Rule inspects one file's text through a RuleContext and reports
// Diagnostics into it. Two strategies exist:
//
//  1. Text-pattern rules read the raw text line by line and run even when
//     the text does not parse.
//  2. Structural rules are built with Structural, which parses the text into
//     an hcldoc.Body and calls the visit function only on success.
//
// # Rulesets
//
// Rules are grouped into an ordered, immutable Ruleset:
//
//	rs := lint.NewRuleset("terraform", lint.WrapRuleDef(MyRule))
//
// The order of rules in the ruleset is the order diagnostics are produced.
//
// # Configuration
//
// Use Config to control which rules are enabled and their severity:
//
//	config := lint.NewConfig()
//	config.Disable("no-deprecated-interpolation")
//	config.SetSeverity("resource-naming-convention", core.SeverityError)
//	config.SetRuleOptions("resource-naming-convention", map[string]any{"pattern": "^[a-z]+$"})
//
// # Creating Custom Rules
//
// Implement the Rule interface or use RuleDef:
//
//	var MyRule = lint.RuleDef{
//		ID:          "my-rule",
//		Name:        "custom.my_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    core.SeverityWarn,
//		Check:       lint.Structural(visitMyRule),
//	}
package lint
