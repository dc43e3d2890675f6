package rules

import (
	"fmt"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/hcldoc"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
)

// RequireProviderVersion requires a version constraint on every provider
// listed in required_providers.
var RequireProviderVersion = lint.RuleDef{
	ID:          "require-provider-version",
	Name:        "dependencies.provider_version",
	Group:       "dependencies",
	Description: "Ensures Terraform providers specify version constraints for better dependency management and reproducibility",
	Severity:    core.SeverityWarn,
	Code:        "PROVIDER_VERSION",
	Kind:        lint.KindStructural,
	Check:       lint.Structural(visitProviderVersions),

	Rationale: `Without a constraint, terraform init picks the newest provider release.
A major upgrade can then change resource behaviour on an unrelated apply.`,

	BadExample: `terraform {
  required_providers {
    aws = {
      source = "hashicorp/aws"
    }
  }
}`,

	GoodExample: `terraform {
  required_providers {
    aws = {
      source  = "hashicorp/aws"
      version = "~> 5.0"
    }
  }
}`,

	Fix: "Add a version argument with a pessimistic constraint such as \"~> 5.0\".",
}

func visitProviderVersions(body *hcldoc.Body, ctx *lint.RuleContext) {
	for _, tf := range body.BlocksOfType("terraform") {
		for _, required := range tf.Body.BlocksOfType("required_providers") {
			for _, attr := range required.Body.Attributes {
				if _, versioned := attr.Expr.ObjectKey("version"); versioned {
					continue
				}
				ctx.Report(lint.Diagnostic{
					Message:  fmt.Sprintf("Provider '%s' should specify a version constraint", attr.Name),
					Severity: core.SeverityWarn,
					Range:    ctx.SpanRange(attr.NameSpan),
					Code:     "PROVIDER_VERSION",
					Suggest:  providerVersionSuggestion(attr),
				})
			}
		}
	}
}

func providerVersionSuggestion(attr *hcldoc.Attribute) string {
	if attr.Expr.Kind == hcldoc.KindString {
		return fmt.Sprintf("%s = { version = %q }", attr.Name, attr.Expr.String)
	}
	return `add version = "<constraint>"`
}
