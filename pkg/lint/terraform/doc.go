// Package terraform describes the Terraform ruleset to hosts: capabilities,
// language inference, batch preprocessing and size-checked per-file analysis.
package terraform
