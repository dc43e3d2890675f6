package rules

import "github.com/forseti-dev/forseti-terraform/pkg/lint"

// RulesetName identifies the Terraform ruleset.
const RulesetName = "terraform"

// Defs lists every rule definition in execution order:
//   - no-hardcoded-credentials: Hardcoded passwords, tokens and keys
//   - require-provider-version: Providers without a version constraint
//   - no-deprecated-interpolation: Lone references wrapped in "${...}"
//   - resource-naming-convention: Block names that are not snake_case
//   - variable-description-required: Variables without a description
//   - output-description-required: Outputs without a description
func Defs() []lint.RuleDef {
	return []lint.RuleDef{
		HardcodedCredentials,
		RequireProviderVersion,
		DeprecatedInterpolation,
		ResourceNamingConvention,
		VariableDescriptionRequired,
		OutputDescriptionRequired,
	}
}

// NewRuleset builds the Terraform ruleset.
func NewRuleset() *lint.Ruleset {
	defs := Defs()
	rules := make([]lint.Rule, len(defs))
	for i, def := range defs {
		rules[i] = lint.WrapRuleDef(def)
	}
	return lint.NewRuleset(RulesetName, rules...)
}
