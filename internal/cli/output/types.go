package output

import (
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
)

// LintSummary aggregates a lint run.
type LintSummary struct {
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesWithIssues int `json:"files_with_issues"`
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Info            int `json:"info"`
}

// LintFileResult holds the diagnostics of one file.
type LintFileResult struct {
	Path        string            `json:"path"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// LintOutput is the JSON document printed by the lint command.
type LintOutput struct {
	RunID   string           `json:"run_id"`
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
	Skipped []SkippedFile    `json:"skipped,omitempty"`
}

// SkippedFile records a file that was not analyzed.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}
