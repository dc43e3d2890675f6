package rules

import "github.com/forseti-dev/forseti-terraform/pkg/hcldoc"

// unquoted narrows a quoted label span to the label text.
func unquoted(text string, span hcldoc.Span) hcldoc.Span {
	if !span.IsValid() || span.End > len(text) || span.End-span.Start < 2 {
		return span
	}
	if text[span.Start] == '"' && text[span.End-1] == '"' {
		return hcldoc.Span{Start: span.Start + 1, End: span.End - 1}
	}
	return span
}
