package lint

import "github.com/forseti-dev/forseti-terraform/pkg/hcldoc"

// VisitFunc inspects a parsed document.
type VisitFunc func(body *hcldoc.Body, ctx *RuleContext)

// Structural returns a CheckFunc that parses the context text and calls visit
// only when parsing succeeds. Text that does not parse yields no diagnostics.
func Structural(visit VisitFunc) CheckFunc {
	return func(ctx *RuleContext) {
		body, ok := hcldoc.Parse(ctx.Text())
		if !ok {
			ctx.Logger().Debug("skipping structural rule, text does not parse")
			return
		}
		visit(body, ctx)
	}
}
