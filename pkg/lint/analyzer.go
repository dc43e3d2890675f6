package lint

import (
	"io"
	"log/slog"
)

// Analyzer runs a ruleset against file text.
// It holds no per-file state and is safe for concurrent use.
type Analyzer struct {
	ruleset *Ruleset
	config  *Config
	logger  *slog.Logger
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(ruleset *Ruleset, config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{
		ruleset: ruleset,
		config:  config,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for rule failures and debug output.
func (a *Analyzer) WithLogger(logger *slog.Logger) *Analyzer {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Ruleset returns the ruleset the analyzer runs.
func (a *Analyzer) Ruleset() *Ruleset {
	return a.ruleset
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() *Config {
	return a.config
}

// Analyze runs every enabled rule, in ruleset order, against text.
func (a *Analyzer) Analyze(text string) []Diagnostic {
	ctx := NewRuleContext(text, a.logger)

	for _, rule := range a.ruleset.Rules() {
		// Skip disabled rules
		if a.config.IsDisabled(rule.ID()) {
			continue
		}

		start := len(ctx.diagnostics)
		a.run(ctx, rule)

		// Apply severity overrides
		for i := start; i < len(ctx.diagnostics); i++ {
			ctx.diagnostics[i].Severity = a.config.GetSeverity(rule.ID(), ctx.diagnostics[i].Severity)
		}
	}

	diagnostics := ctx.Diagnostics()
	if prefixes := a.config.AnnotationPrefixes(); len(prefixes) > 0 {
		diagnostics = FilterSuppressed(text, prefixes, diagnostics)
	}
	return diagnostics
}

// run invokes one rule. A panicking rule is logged and skipped; whatever it
// reported before failing is kept.
func (a *Analyzer) run(ctx *RuleContext, rule Rule) {
	ctx.enter(rule.ID(), a.config.GetRuleOptions(rule.ID()))
	defer ctx.enter("", nil)

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("rule panicked", "rule", rule.ID(), "panic", r)
		}
	}()

	rule.Check(ctx)
}
