package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/hcldoc"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
)

// ResourceNamingConvention enforces snake_case names on named top-level blocks.
var ResourceNamingConvention = lint.RuleDef{
	ID:          "resource-naming-convention",
	Name:        "style.naming_convention",
	Group:       "style",
	Description: "Enforces snake_case naming convention for Terraform resources to maintain consistency",
	Severity:    core.SeverityWarn,
	Code:        "NAMING_CONVENTION",
	Kind:        lint.KindStructural,
	ConfigKeys:  []string{"pattern"},
	Check:       lint.Structural(visitNamingConvention),

	Rationale: `Terraform addresses such as aws_instance.web_server are typed by hand in
references, imports and state commands. A single naming style keeps them predictable.`,

	BadExample: `resource "aws_instance" "WebServer" {
  ami = var.ami_id
}`,

	GoodExample: `resource "aws_instance" "web_server" {
  ami = var.ami_id
}`,

	Fix: "Rename the block using lowercase letters, digits and underscores, starting with a letter. Add a moved block to keep state.",
}

// DefaultNamePattern is the naming pattern used when no option is set. It
// must match the whole name.
const DefaultNamePattern = `[a-z][a-z0-9_]*`

var defaultNamePattern = regexp.MustCompile(`^(?:` + DefaultNamePattern + `)$`)

// nameLabel is the index of the label holding a block's name, by block type.
var nameLabel = map[string]int{
	"resource": 1,
	"data":     1,
	"variable": 0,
	"output":   0,
	"locals":   0,
}

type namingOptions struct {
	Pattern string `mapstructure:"pattern"`
}

func visitNamingConvention(body *hcldoc.Body, ctx *lint.RuleContext) {
	pattern := namePattern(ctx)

	for _, blk := range body.Blocks {
		labelIdx, named := nameLabel[blk.Type]
		if !named {
			continue
		}
		name, span, ok := blk.Label(labelIdx)
		if !ok || pattern.MatchString(name) {
			continue
		}

		d := lint.Diagnostic{
			Message:  fmt.Sprintf("%s name '%s' should follow snake_case convention", blk.Type, name),
			Severity: core.SeverityWarn,
			Range:    ctx.SpanRange(unquoted(ctx.Text(), span)),
			Code:     "NAMING_CONVENTION",
		}
		if suggestion := toSnakeCase(name); suggestion != name && pattern.MatchString(suggestion) {
			d.Suggest = suggestion
		}
		ctx.Report(d)
	}
}

// namePattern returns the configured naming pattern. Option patterns must
// match the whole name; an invalid one falls back to the default.
func namePattern(ctx *lint.RuleContext) *regexp.Regexp {
	var opts namingOptions
	if err := lint.DecodeOptions(ctx.Options(), &opts); err != nil {
		ctx.Logger().Warn("invalid rule options", "error", err)
		return defaultNamePattern
	}
	if opts.Pattern == "" {
		return defaultNamePattern
	}
	re, err := regexp.Compile(`^(?:` + opts.Pattern + `)$`)
	if err != nil {
		ctx.Logger().Warn("invalid naming pattern, using default", "pattern", opts.Pattern, "error", err)
		return defaultNamePattern
	}
	return re
}

// toSnakeCase rewrites camelCase, PascalCase and kebab-case names.
func toSnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && wordBoundary(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '_' })
	return strings.Join(parts, "_")
}

// wordBoundary reports whether the upper-case rune at i starts a new word:
// "myName" -> my|Name, "HTTPServer" -> HTTP|Server.
func wordBoundary(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
