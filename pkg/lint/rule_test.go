package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
)

// mockRule implements Rule for testing
type mockRule struct {
	id          string
	name        string
	group       string
	description string
	severity    core.Severity
	configKeys  []string
	checked     int
}

func (m *mockRule) ID() string                     { return m.id }
func (m *mockRule) Name() string                   { return m.name }
func (m *mockRule) Group() string                  { return m.group }
func (m *mockRule) Description() string            { return m.description }
func (m *mockRule) DefaultSeverity() core.Severity { return m.severity }
func (m *mockRule) Code() string                   { return "MOCK" }
func (m *mockRule) Kind() string                   { return KindText }
func (m *mockRule) ConfigKeys() []string           { return m.configKeys }

// Documentation methods (return empty for mocks)
func (m *mockRule) Rationale() string   { return "" }
func (m *mockRule) BadExample() string  { return "" }
func (m *mockRule) GoodExample() string { return "" }
func (m *mockRule) Fix() string         { return "" }

func (m *mockRule) Check(_ *RuleContext) { m.checked++ }

func TestRuleInterface(t *testing.T) {
	rule := &mockRule{
		id:          "mock-rule",
		name:        "testing.mock",
		group:       "testing",
		description: "A test rule",
		severity:    core.SeverityWarn,
		configKeys:  []string{"max_count"},
	}

	var _ Rule = rule

	assert.Equal(t, "mock-rule", rule.ID())
	assert.Equal(t, "testing.mock", rule.Name())
	assert.Equal(t, "testing", rule.Group())
	assert.Equal(t, "A test rule", rule.Description())
	assert.Equal(t, core.SeverityWarn, rule.DefaultSeverity())
	assert.Equal(t, []string{"max_count"}, rule.ConfigKeys())

	rule.Check(NewRuleContext("", nil))
	assert.Equal(t, 1, rule.checked)
}

func TestGetRuleInfo(t *testing.T) {
	rule := &mockRule{
		id:          "mock-rule",
		name:        "testing.mock",
		group:       "testing",
		description: "A test rule",
		severity:    core.SeverityError,
		configKeys:  []string{"opt1"},
	}

	info := GetRuleInfo(rule)

	assert.Equal(t, "mock-rule", info.ID)
	assert.Equal(t, "testing.mock", info.Name)
	assert.Equal(t, "testing", info.Group)
	assert.Equal(t, "A test rule", info.Description)
	assert.Equal(t, core.SeverityError, info.DefaultSeverity)
	assert.Equal(t, "MOCK", info.Code)
	assert.Equal(t, KindText, info.Kind)
	assert.Equal(t, []string{"opt1"}, info.ConfigKeys)
	assert.Equal(t, DefaultDocsBaseURL+"/mock-rule", info.DocsURL)
}

func TestWrapRuleDef(t *testing.T) {
	called := false
	def := RuleDef{
		ID:          "wrapped-rule",
		Name:        "wrapper.rule",
		Group:       "wrapper",
		Description: "A wrapped rule",
		Severity:    core.SeverityInfo,
		Code:        "WRAPPED",
		ConfigKeys:  []string{"key1", "key2"},
		Rationale:   "why",
		BadExample:  "bad",
		GoodExample: "good",
		Fix:         "fix",
		Check: func(ctx *RuleContext) {
			called = true
		},
	}

	rule := WrapRuleDef(def)

	assert.Equal(t, "wrapped-rule", rule.ID())
	assert.Equal(t, "wrapper.rule", rule.Name())
	assert.Equal(t, "wrapper", rule.Group())
	assert.Equal(t, "A wrapped rule", rule.Description())
	assert.Equal(t, core.SeverityInfo, rule.DefaultSeverity())
	assert.Equal(t, "WRAPPED", rule.Code())
	assert.Equal(t, KindText, rule.Kind(), "kind defaults to text")
	assert.Equal(t, []string{"key1", "key2"}, rule.ConfigKeys())
	assert.Equal(t, "why", rule.Rationale())
	assert.Equal(t, "bad", rule.BadExample())
	assert.Equal(t, "good", rule.GoodExample())
	assert.Equal(t, "fix", rule.Fix())

	rule.Check(NewRuleContext("", nil))
	assert.True(t, called)
}

func TestWrapRuleDef_NilCheck(t *testing.T) {
	rule := WrapRuleDef(RuleDef{ID: "empty"})
	assert.NotPanics(t, func() { rule.Check(NewRuleContext("x", nil)) })
}

func TestRuleset(t *testing.T) {
	a := &mockRule{id: "a", group: "g1"}
	b := &mockRule{id: "b", group: "g2"}
	c := &mockRule{id: "c", group: "g1"}

	rs := NewRuleset("test", b, a, c)

	assert.Equal(t, "test", rs.Name())
	assert.Equal(t, 3, rs.Len())
	assert.Equal(t, []string{"b", "a", "c"}, rs.IDs(), "registration order is kept")

	got, ok := rs.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = rs.Get("zzz")
	assert.False(t, ok)
	assert.True(t, rs.Has("c"))

	assert.Len(t, rs.GetByGroup("g1"), 2)
	assert.Len(t, rs.GetByGroup("G1"), 2, "group match ignores case")
	assert.Empty(t, rs.GetByGroup("g3"))
	assert.Len(t, rs.Infos(), 3)

	// Rules returns a copy
	rules := rs.Rules()
	rules[0] = nil
	assert.Equal(t, "b", rs.Rules()[0].ID())
}

func TestRuleset_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRuleset("dup", &mockRule{id: "x"}, &mockRule{id: "x"})
	})
	assert.Panics(t, func() {
		NewRuleset("empty", &mockRule{id: ""})
	})
}
