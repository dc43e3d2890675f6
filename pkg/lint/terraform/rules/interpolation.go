package rules

import (
	"regexp"
	"strings"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
)

// DeprecatedInterpolation flags "${...}" wrappers that modern Terraform no
// longer needs.
var DeprecatedInterpolation = lint.RuleDef{
	ID:          "no-deprecated-interpolation",
	Name:        "style.deprecated_interpolation",
	Group:       "style",
	Description: `Flags deprecated interpolation syntax in Terraform (e.g., "${var.name}") in favor of modern expressions`,
	Severity:    core.SeverityWarn,
	Code:        "DEPRECATED_INTERPOLATION",
	Kind:        lint.KindText,
	Check:       checkDeprecatedInterpolation,

	Rationale: `Terraform 0.12 made expressions first class. Wrapping a lone reference in
"${...}" is a leftover from 0.11 syntax that hides the value's type and adds noise.`,

	BadExample: `ami = "${var.ami_id}"`,

	GoodExample: `ami = var.ami_id`,

	Fix: "Remove the quotes and the ${ } wrapper. Keep interpolation only when building a larger string.",
}

var interpolationPattern = regexp.MustCompile(`"[^"]*\$\{([^}]+)\}[^"]*"`)

// complexMarkers indicate an expression that genuinely needs interpolation.
const complexMarkers = " +*/("

func checkDeprecatedInterpolation(ctx *lint.RuleContext) {
	idx := ctx.Index()
	for n := 0; n < idx.LineCount(); n++ {
		line, start := idx.Line(n)
		if !strings.Contains(line, "${") {
			continue
		}

		for _, m := range interpolationPattern.FindAllStringSubmatchIndex(line, -1) {
			matched := line[m[0]:m[1]]
			if strings.ContainsAny(matched, complexMarkers) {
				continue
			}

			d := lint.Diagnostic{
				Message:  "Deprecated interpolation syntax found. Use direct variable reference instead",
				Severity: core.SeverityWarn,
				Range:    ctx.Range(start+m[0], start+m[1]),
				Code:     "DEPRECATED_INTERPOLATION",
			}
			if inner := line[m[2]:m[3]]; matched == `"${`+inner+`}"` {
				d.Suggest = inner
			}
			ctx.Report(d)
		}
	}
}
