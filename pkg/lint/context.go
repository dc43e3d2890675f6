package lint

import (
	"io"
	"log/slog"

	"github.com/forseti-dev/forseti-terraform/pkg/hcldoc"
	"github.com/forseti-dev/forseti-terraform/pkg/source"
)

// RuleContext carries one file's text and the diagnostics reported against
// it. It is owned by a single analysis and handed to one rule at a time.
type RuleContext struct {
	text   string
	index  *source.LineIndex
	logger *slog.Logger

	// current rule
	ruleID string
	opts   map[string]any

	diagnostics []Diagnostic
}

// NewRuleContext creates a context over text. A nil logger discards output.
func NewRuleContext(text string, logger *slog.Logger) *RuleContext {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RuleContext{text: text, logger: logger}
}

// Text returns the source text under analysis.
func (c *RuleContext) Text() string {
	return c.text
}

// Index returns the line index of the text, building it on first use.
func (c *RuleContext) Index() *source.LineIndex {
	if c.index == nil {
		c.index = source.NewLineIndex(c.text)
	}
	return c.index
}

// Options returns the configured options of the running rule.
func (c *RuleContext) Options() map[string]any {
	return c.opts
}

// RuleID returns the id of the running rule.
func (c *RuleContext) RuleID() string {
	return c.ruleID
}

// Logger returns a logger tagged with the running rule.
func (c *RuleContext) Logger() *slog.Logger {
	if c.ruleID == "" {
		return c.logger
	}
	return c.logger.With("rule", c.ruleID)
}

// Range converts a byte range of the text to a line/character range.
func (c *RuleContext) Range(start, end int) source.Range {
	return c.Index().Range(start, end)
}

// SpanRange converts a parser span. Spans the parser could not provide map
// to the start of the document.
func (c *RuleContext) SpanRange(span hcldoc.Span) source.Range {
	if !span.IsValid() {
		return source.Range{}
	}
	return c.Range(span.Start, span.End)
}

// Report appends d. RuleID and DocsURL are filled from the running rule when
// left empty. Diagnostics are never de-duplicated.
func (c *RuleContext) Report(d Diagnostic) {
	if d.RuleID == "" {
		d.RuleID = c.ruleID
	}
	if d.DocsURL == "" && d.RuleID != "" {
		d.DocsURL = BuildDocURL(d.RuleID)
	}
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns everything reported so far, in report order.
func (c *RuleContext) Diagnostics() []Diagnostic {
	return c.diagnostics
}

func (c *RuleContext) enter(ruleID string, opts map[string]any) {
	c.ruleID = ruleID
	c.opts = opts
}
