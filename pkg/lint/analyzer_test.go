package lint_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forseti-dev/forseti-terraform/internal/testutil"
	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/hcldoc"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
)

// todoRule reports every "TODO" in the text.
var todoRule = lint.RuleDef{
	ID:       "test-todo",
	Severity: core.SeverityWarn,
	Code:     "TODO",
	Check: func(ctx *lint.RuleContext) {
		text := ctx.Text()
		for off := 0; ; {
			i := strings.Index(text[off:], "TODO")
			if i < 0 {
				return
			}
			start := off + i
			ctx.Report(lint.Diagnostic{
				Message:  "todo found",
				Severity: core.SeverityWarn,
				Range:    ctx.Range(start, start+4),
				Code:     "TODO",
			})
			off = start + 4
		}
	},
}

// blockRule reports every top-level block type keyword.
var blockRule = lint.RuleDef{
	ID:       "test-block",
	Severity: core.SeverityInfo,
	Kind:     lint.KindStructural,
	Check: lint.Structural(func(body *hcldoc.Body, ctx *lint.RuleContext) {
		for _, blk := range body.Blocks {
			ctx.Report(lint.Diagnostic{
				Message:  "block " + blk.Type,
				Severity: core.SeverityInfo,
				Range:    ctx.SpanRange(blk.TypeSpan),
			})
		}
	}),
}

// panicRule reports once and then panics.
var panicRule = lint.RuleDef{
	ID:       "test-panic",
	Severity: core.SeverityError,
	Check: func(ctx *lint.RuleContext) {
		ctx.Report(lint.Diagnostic{Message: "before panic", Severity: core.SeverityError})
		panic("boom")
	},
}

// optionRule echoes its "label" option.
var optionRule = lint.RuleDef{
	ID:         "test-option",
	Severity:   core.SeverityInfo,
	ConfigKeys: []string{"label"},
	Check: func(ctx *lint.RuleContext) {
		opts := struct {
			Label string `mapstructure:"label"`
		}{Label: "default"}
		if err := lint.DecodeOptions(ctx.Options(), &opts); err != nil {
			opts.Label = err.Error()
		}
		ctx.Report(lint.Diagnostic{Message: opts.Label, Severity: core.SeverityInfo})
	},
}

func newRuleset(defs ...lint.RuleDef) *lint.Ruleset {
	rules := make([]lint.Rule, len(defs))
	for i, def := range defs {
		rules[i] = lint.WrapRuleDef(def)
	}
	return lint.NewRuleset("test", rules...)
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, len(diags))
	for i, d := range diags {
		ids[i] = d.RuleID
	}
	return ids
}

func TestAnalyzer_RuleOrder(t *testing.T) {
	text := "# TODO\nresource \"a\" \"b\" {}\n"

	analyzer := lint.NewAnalyzer(newRuleset(blockRule, todoRule), nil)
	diags := analyzer.Analyze(text)

	assert.Equal(t, []string{"test-block", "test-todo"}, ruleIDs(diags))
	assert.Equal(t, "block resource", diags[0].Message)
	assert.Equal(t, 1, diags[0].Range.Start.Line)
	assert.Equal(t, 0, diags[1].Range.Start.Line)
	assert.Equal(t, 2, diags[1].Range.Start.Character)
}

func TestAnalyzer_FillsRuleIDAndDocsURL(t *testing.T) {
	analyzer := lint.NewAnalyzer(newRuleset(todoRule), nil)
	diags := analyzer.Analyze("TODO")

	require.Len(t, diags, 1)
	assert.Equal(t, "test-todo", diags[0].RuleID)
	assert.Equal(t, lint.BuildDocURL("test-todo"), diags[0].DocsURL)
}

func TestAnalyzer_StructuralSkipsMalformed(t *testing.T) {
	text := "resource \"a\" \"b\" {\n# TODO\n"

	analyzer := lint.NewAnalyzer(newRuleset(blockRule, todoRule), nil)
	diags := analyzer.Analyze(text)

	assert.Equal(t, []string{"test-todo"}, ruleIDs(diags), "text rules still run on malformed input")
}

func TestConfig_DisableRule(t *testing.T) {
	cfg := lint.NewConfig().Disable("test-todo")

	analyzer := lint.NewAnalyzer(newRuleset(todoRule, blockRule), cfg)
	diags := analyzer.Analyze("TODO = 1\nlocals {}\n")

	for _, d := range diags {
		assert.NotEqual(t, "test-todo", d.RuleID, "disabled rule should not produce diagnostics")
	}
	assert.Len(t, diags, 1)

	cfg.Enable("test-todo")
	assert.Len(t, analyzer.Analyze("TODO = 1\nlocals {}\n"), 2)
}

func TestConfig_SeverityOverride(t *testing.T) {
	cfg := lint.NewConfig().SetSeverity("test-todo", core.SeverityError)

	analyzer := lint.NewAnalyzer(newRuleset(todoRule), cfg)
	diags := analyzer.Analyze("TODO TODO")

	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, core.SeverityError, d.Severity, "severity should be overridden to error")
	}
}

func TestAnalyzer_PanickingRuleIsIsolated(t *testing.T) {
	analyzer := lint.NewAnalyzer(newRuleset(panicRule, todoRule), nil).
		WithLogger(testutil.NewTestLogger(t))

	var diags []lint.Diagnostic
	require.NotPanics(t, func() {
		diags = analyzer.Analyze("TODO")
	})

	assert.Equal(t, []string{"test-panic", "test-todo"}, ruleIDs(diags))
}

func TestAnalyzer_RuleOptions(t *testing.T) {
	cfg := lint.NewConfig().SetRuleOptions("test-option", map[string]any{"label": "custom"})

	diags := lint.NewAnalyzer(newRuleset(optionRule), cfg).Analyze("")
	require.Len(t, diags, 1)
	assert.Equal(t, "custom", diags[0].Message)

	diags = lint.NewAnalyzer(newRuleset(optionRule), nil).Analyze("")
	require.Len(t, diags, 1)
	assert.Equal(t, "default", diags[0].Message)
}

func TestAnalyzer_Suppressions(t *testing.T) {
	text := `# forseti-ignore
TODO one
TODO two # forseti-ignore: test-todo
TODO three # forseti-ignore: other-rule
// forseti-ignore: test-todo, other-rule
TODO four
TODO five
`
	cfg := lint.NewConfig().SetAnnotationPrefixes("#", "//")
	diags := lint.NewAnalyzer(newRuleset(todoRule), cfg).Analyze(text)

	var lines []int
	for _, d := range diags {
		lines = append(lines, d.Range.Start.Line)
	}
	assert.Equal(t, []int{3, 6}, lines)

	// Without prefixes, directives are plain comments.
	diags = lint.NewAnalyzer(newRuleset(todoRule), nil).Analyze(text)
	assert.Len(t, diags, 5)
}

func TestAnalyzer_Deterministic(t *testing.T) {
	text := "TODO\nresource \"a\" \"b\" {}\nTODO\n"
	analyzer := lint.NewAnalyzer(newRuleset(todoRule, blockRule), nil)

	assert.Equal(t, analyzer.Analyze(text), analyzer.Analyze(text))
}

func TestAnalyzer_Concurrent(t *testing.T) {
	analyzer := lint.NewAnalyzer(newRuleset(todoRule, blockRule), nil)
	want := analyzer.Analyze("TODO\nlocals {}\n")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, analyzer.Analyze("TODO\nlocals {}\n"))
		}()
	}
	wg.Wait()
}

func TestConfig_ApplyLintConfig(t *testing.T) {
	cfg := lint.NewConfig()
	invalid := cfg.ApplyLintConfig(&core.LintConfig{
		Disabled: []string{" test-todo "},
		Severity: map[string]string{
			"test-block":  "error",
			"test-option": "off",
			"test-panic":  "loud",
		},
		Rules: map[string]core.RuleOptions{
			"test-block": {"x": 1},
		},
	})

	assert.Equal(t, []string{"test-panic"}, invalid)
	assert.True(t, cfg.IsDisabled("test-todo"))
	assert.True(t, cfg.IsDisabled("test-option"))
	assert.Equal(t, core.SeverityError, cfg.GetSeverity("test-block", core.SeverityInfo))
	assert.Equal(t, core.SeverityWarn, cfg.GetSeverity("test-panic", core.SeverityWarn))
	assert.Equal(t, map[string]any{"x": 1}, cfg.GetRuleOptions("test-block"))

	assert.Nil(t, cfg.ApplyLintConfig(nil))
}

func TestConfig_NilSafe(t *testing.T) {
	var cfg *lint.Config
	assert.False(t, cfg.IsDisabled("x"))
	assert.Equal(t, core.SeverityInfo, cfg.GetSeverity("x", core.SeverityInfo))
	assert.Nil(t, cfg.GetRuleOptions("x"))
	assert.Nil(t, cfg.AnnotationPrefixes())
}
