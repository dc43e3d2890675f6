// Package rules contains the Terraform lint rules.
//
// Rules come in two kinds:
//
//   - Text rules (no-hardcoded-credentials, no-deprecated-interpolation) scan
//     raw lines and run even when the file does not parse.
//   - Structural rules (require-provider-version, resource-naming-convention,
//     variable-description-required, output-description-required) visit the
//     parsed document and stay silent on malformed input.
//
// Build the ordered ruleset with NewRuleset.
package rules
