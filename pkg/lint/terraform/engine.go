package terraform

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

// ErrFileTooLarge is returned for content above the size limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// CheckSize rejects content larger than MaxFileSize.
func CheckSize(n int64) error {
	if n > MaxFileSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, n, MaxFileSize)
	}
	return nil
}

// FileResult is the outcome of analyzing one file.
type FileResult struct {
	URI         string            `json:"uri"`
	Language    string            `json:"language,omitempty"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// Engine analyzes Terraform files for a host. It is safe for concurrent use.
type Engine struct {
	analyzer     *lint.Analyzer
	capabilities Capabilities
}

// NewEngine builds an engine over the Terraform ruleset. Suppression comments
// are always enabled with the language's annotation prefixes.
func NewEngine(cfg *lint.Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = lint.NewConfig()
	}
	cfg.SetAnnotationPrefixes(AnnotationPrefixes()...)

	rs := rules.NewRuleset()
	return &Engine{
		analyzer:     lint.NewAnalyzer(rs, cfg).WithLogger(logger),
		capabilities: GetCapabilities(rs),
	}
}

// Capabilities returns the ruleset description.
func (e *Engine) Capabilities() Capabilities {
	return e.capabilities
}

// Ruleset returns the rules the engine runs.
func (e *Engine) Ruleset() *lint.Ruleset {
	return e.analyzer.Ruleset()
}

// AnalyzeFile analyzes content read from uri. Files without a language tag
// yield an empty result; oversize content yields ErrFileTooLarge.
func (e *Engine) AnalyzeFile(uri, content string) (FileResult, error) {
	result := FileResult{
		URI:         uri,
		Language:    InferLanguage(uri),
		Diagnostics: []lint.Diagnostic{},
	}
	if result.Language == "" {
		return result, nil
	}
	if err := CheckSize(int64(len(content))); err != nil {
		return result, fmt.Errorf("%s: %w", uri, err)
	}

	if diags := e.analyzer.Analyze(content); diags != nil {
		result.Diagnostics = diags
	}
	return result, nil
}
