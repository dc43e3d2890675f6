package rules

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/hcldoc"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
)

// VariableDescriptionRequired requires a description on every variable block.
var VariableDescriptionRequired = lint.RuleDef{
	ID:          "variable-description-required",
	Name:        "documentation.variable_description",
	Group:       "documentation",
	Description: "Requires that all Terraform variable blocks include a description for better documentation",
	Severity:    core.SeverityWarn,
	Code:        "MISSING_DESCRIPTION",
	Kind:        lint.KindStructural,
	Check:       lint.Structural(descriptionRequired("variable")),

	Rationale: `Variables are a module's public input. Their descriptions show up in
terraform-docs output, the registry and interactive prompts.`,

	BadExample: `variable "instance_type" {
  type = string
}`,

	GoodExample: `variable "instance_type" {
  description = "EC2 instance type for the web tier"
  type        = string
}`,
}

// OutputDescriptionRequired requires a description on every output block.
var OutputDescriptionRequired = lint.RuleDef{
	ID:          "output-description-required",
	Name:        "documentation.output_description",
	Group:       "documentation",
	Description: "Requires that all Terraform output blocks include a description for better documentation",
	Severity:    core.SeverityWarn,
	Code:        "MISSING_DESCRIPTION",
	Kind:        lint.KindStructural,
	Check:       lint.Structural(descriptionRequired("output")),

	Rationale: `Outputs are a module's public result. Callers rely on the description to
know what a value holds without reading the module source.`,

	BadExample: `output "instance_ip" {
  value = aws_instance.web.public_ip
}`,

	GoodExample: `output "instance_ip" {
  description = "Public IP of the web instance"
  value       = aws_instance.web.public_ip
}`,
}

// descriptionRequired reports top-level blocks of blockType that have a name
// label but no description attribute. The range covers `type "name"`.
func descriptionRequired(blockType string) lint.VisitFunc {
	return func(body *hcldoc.Body, ctx *lint.RuleContext) {
		for _, blk := range body.BlocksOfType(blockType) {
			name, labelSpan, ok := blk.Label(0)
			if !ok || blk.Body.HasAttribute("description") {
				continue
			}

			ctx.Report(lint.Diagnostic{
				Message: fmt.Sprintf("%s '%s' should have a description",
					cases.Title(language.English).String(blockType), name),
				Severity: core.SeverityWarn,
				Range:    ctx.SpanRange(hcldoc.Span{Start: blk.TypeSpan.Start, End: labelSpan.End}),
				Code:     "MISSING_DESCRIPTION",
			})
		}
	}
}
