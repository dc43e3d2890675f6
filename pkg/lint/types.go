package lint

import (
	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/source"
)

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string        `json:"rule_id"`
	Message  string        `json:"message"`
	Severity core.Severity `json:"severity"`
	Range    source.Range  `json:"range"`
	Code     string        `json:"code,omitempty"`
	Suggest  string        `json:"suggest,omitempty"`
	DocsURL  string        `json:"docs_url,omitempty"`
}

// =============================================================================
// Rule Definitions
// =============================================================================

// Rule kinds.
const (
	KindText       = "text"
	KindStructural = "structural"
)

// RuleDef is a data-driven rule definition.
// Rules are stateless - all per-file state lives in the RuleContext.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "no-hardcoded-credentials"
	Name        string        // Human-readable name, e.g., "security.hardcoded_credentials"
	Group       string        // Category, e.g., "security", "style", "documentation"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Code        string        // Diagnostic code, e.g., "CREDENTIALS"
	Kind        string        // KindText or KindStructural
	Check       CheckFunc     // The check function
	ConfigKeys  []string      // Configuration keys this rule accepts (for rule-specific options)

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// CheckFunc analyzes the text held by ctx and reports diagnostics into it.
type CheckFunc func(ctx *RuleContext)

// =============================================================================
// Rule Interface
// =============================================================================

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "require-provider-version"
	ID() string

	// Name returns the human-readable name, e.g., "security.provider_version"
	Name() string

	// Group returns the category, e.g., "security", "style", "documentation"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() core.Severity

	// Code returns the diagnostic code the rule reports with
	Code() string

	// Kind returns KindText or KindStructural
	Kind() string

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// Documentation methods for richer rule documentation
	Rationale() string   // Why this rule exists, what problems it prevents
	BadExample() string  // Code showing the anti-pattern
	GoodExample() string // Code showing the correct pattern
	Fix() string         // How to fix violations (when not obvious)

	// Check analyzes one file and reports into ctx.
	Check(ctx *RuleContext)
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		Code:            r.Code(),
		Kind:            r.Kind(),
		ConfigKeys:      r.ConfigKeys(),
		DocsURL:         BuildDocURL(r.ID()),
		Rationale:       r.Rationale(),
		BadExample:      r.BadExample(),
		GoodExample:     r.GoodExample(),
		Fix:             r.Fix(),
	}
}

// =============================================================================
// Wrapped RuleDef
// =============================================================================

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	if def.Kind == "" {
		def.Kind = KindText
	}
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                     { return w.def.ID }
func (w *wrappedRuleDef) Name() string                   { return w.def.Name }
func (w *wrappedRuleDef) Group() string                  { return w.def.Group }
func (w *wrappedRuleDef) Description() string            { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() core.Severity { return w.def.Severity }
func (w *wrappedRuleDef) Code() string                   { return w.def.Code }
func (w *wrappedRuleDef) Kind() string                   { return w.def.Kind }
func (w *wrappedRuleDef) ConfigKeys() []string           { return w.def.ConfigKeys }

// Documentation methods
func (w *wrappedRuleDef) Rationale() string   { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string  { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string { return w.def.GoodExample }
func (w *wrappedRuleDef) Fix() string         { return w.def.Fix }

func (w *wrappedRuleDef) Check(ctx *RuleContext) {
	if w.def.Check != nil {
		w.def.Check(ctx)
	}
}
