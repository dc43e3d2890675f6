package hcldoc

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// attributeRedefined is the summary hclsyntax gives a repeated attribute key.
// The first definition stays in the body; later ones are dropped.
const attributeRedefined = "Attribute redefined"

// Parse parses text as HCL native syntax. It returns false when the text has
// any syntax error; callers treat that as "no document" rather than a failure.
//
// Repeated attribute keys are not an error: every definition is kept, in
// source order, so Body.Attribute returns the first and ranging over
// Body.Attributes sees them all.
func Parse(text string) (body *Body, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			body, ok = nil, false
		}
	}()

	src := []byte(text)
	file, diags := hclsyntax.ParseConfig(src, "", hcl.InitialPos)

	var redefined []hcl.Range
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		if d.Summary == attributeRedefined && d.Subject != nil {
			redefined = append(redefined, *d.Subject)
			continue
		}
		return nil, false
	}
	if file == nil {
		return nil, false
	}

	syntaxBody, isSyntax := file.Body.(*hclsyntax.Body)
	if !isSyntax {
		return nil, false
	}

	body = convertBody(syntaxBody)
	for _, nameRange := range redefined {
		owner := body.bodyAt(nameRange.Start.Byte)
		if attr, found := recoverAttribute(src, nameRange, owner.Span.End); found {
			owner.insertAttribute(attr)
		}
	}
	return body, true
}

// recoverAttribute rebuilds a redefined attribute from its name range by
// parsing the expression after its equals sign. end bounds the enclosing body.
func recoverAttribute(src []byte, nameRange hcl.Range, end int) (*Attribute, bool) {
	if end <= 0 || end > len(src) {
		end = len(src)
	}

	i := nameRange.End.Byte
	for i < end && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	if i >= end || src[i] != '=' {
		return nil, false
	}
	i++

	start := hcl.Pos{
		Byte:   i,
		Line:   nameRange.End.Line,
		Column: nameRange.End.Column + (i - nameRange.End.Byte),
	}
	// The tail after the expression is the rest of the body, so "extra
	// characters" diagnostics are expected here.
	expr, _ := hclsyntax.ParseExpression(src[i:end], "", start)
	if expr == nil {
		return nil, false
	}

	name := string(src[nameRange.Start.Byte:nameRange.End.Byte])
	return &Attribute{
		Name:     name,
		NameSpan: spanOf(nameRange),
		Expr:     convertExpr(expr),
		Span:     Span{Start: nameRange.Start.Byte, End: expr.Range().End.Byte},
	}, true
}

func convertBody(b *hclsyntax.Body) *Body {
	out := &Body{Span: spanOf(b.SrcRange)}

	// hclsyntax keys attributes by name; restore source order.
	attrs := make([]*hclsyntax.Attribute, 0, len(b.Attributes))
	for _, attr := range b.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	for _, attr := range attrs {
		out.Attributes = append(out.Attributes, &Attribute{
			Name:     attr.Name,
			NameSpan: spanOf(attr.NameRange),
			Expr:     convertExpr(attr.Expr),
			Span:     spanOf(attr.SrcRange),
		})
	}

	for _, blk := range b.Blocks {
		out.Blocks = append(out.Blocks, convertBlock(blk))
	}

	return out
}

func convertBlock(b *hclsyntax.Block) *Block {
	out := &Block{
		Type:     b.Type,
		TypeSpan: spanOf(b.TypeRange),
		Labels:   append([]string(nil), b.Labels...),
		Body:     convertBody(b.Body),
		Span:     spanOf(b.Range()),
	}
	for _, r := range b.LabelRanges {
		out.LabelSpans = append(out.LabelSpans, spanOf(r))
	}
	return out
}

func convertExpr(expr hclsyntax.Expression) *Expression {
	out := &Expression{Kind: KindOther, Span: spanOf(expr.Range())}

	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		setLiteral(out, e.Val)

	case *hclsyntax.TemplateExpr:
		if len(e.Parts) == 0 {
			out.Kind = KindString
			break
		}
		if e.IsStringLiteral() {
			if v, diags := e.Value(nil); !diags.HasErrors() {
				setLiteral(out, v)
			}
		}

	case *hclsyntax.ObjectConsExpr:
		out.Kind = KindObject
		for _, item := range e.Items {
			key, ok := objectKey(item.KeyExpr)
			if !ok {
				continue
			}
			out.Items = append(out.Items, ObjectItem{
				Key:     key,
				KeySpan: spanOf(item.KeyExpr.Range()),
				Value:   convertExpr(item.ValueExpr),
			})
		}

	case *hclsyntax.TupleConsExpr:
		out.Kind = KindArray
		for _, elem := range e.Exprs {
			out.Elems = append(out.Elems, convertExpr(elem))
		}
	}

	return out
}

func setLiteral(out *Expression, v cty.Value) {
	if v.IsNull() || !v.IsKnown() {
		return
	}

	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		out.Kind = KindString
		out.String = v.AsString()
	case ty.Equals(cty.Number):
		out.Kind = KindNumber
		out.Number, _ = v.AsBigFloat().Float64()
	case ty.Equals(cty.Bool):
		out.Kind = KindBool
		out.Bool = v.True()
	}
}

// objectKey decodes an object key. Bare identifiers and quoted strings both
// yield their text; computed keys are skipped.
func objectKey(expr hclsyntax.Expression) (string, bool) {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return kw, true
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() || v.IsNull() || !v.IsKnown() || !v.Type().Equals(cty.String) {
		return "", false
	}
	return v.AsString(), true
}

func spanOf(r hcl.Range) Span {
	return Span{Start: r.Start.Byte, End: r.End.Byte}
}
