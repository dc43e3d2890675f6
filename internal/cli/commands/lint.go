package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/forseti-dev/forseti-terraform/internal/cli/config"
	"github.com/forseti-dev/forseti-terraform/internal/cli/output"
	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

// ErrIssuesFound is returned by lint when any diagnostic survives filtering.
var ErrIssuesFound = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string   // Output format: text, markdown, json
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity: error, warn, info
	Rules    []string // Run only specific rules
	Watch    bool     // Re-lint on change
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint Terraform configuration",
		Long: `Analyze Terraform files for security, style and documentation issues.

Directories are searched recursively for *.tf and *.tfvars files;
.terraform directories are skipped. Rules can be configured in forseti.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint the current directory
  forseti-terraform lint

  # Lint specific paths
  forseti-terraform lint ./modules/network main.tf

  # Output as JSON
  forseti-terraform lint --format json

  # Disable specific rules
  forseti-terraform lint --disable resource-naming-convention,no-deprecated-interpolation

  # Only report errors
  forseti-terraform lint --severity error

  # Re-lint whenever a file changes
  forseti-terraform lint --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")
	cmd.Flags().StringVar(&opts.Severity, "severity", "info", "Minimum severity: error, warn, info")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only specific rules")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch files and re-lint on change")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warn", "info"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("rule", completeRuleIDs)
	_ = cmd.RegisterFlagCompletionFunc("disable", completeRuleIDs)

	return cmd
}

func runLint(cmd *cobra.Command, paths []string, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)

	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid --severity %q: want error, warn or info", opts.Severity)
	}

	lintCfg, err := buildLintConfig(cmdCtx.Cfg, opts)
	if err != nil {
		return err
	}

	l := &linter{
		engine:    terraform.NewEngine(lintCfg, cmdCtx.Logger),
		logger:    cmdCtx.Logger,
		jobs:      cmdCtx.Cfg.Jobs,
		maxSize:   cmdCtx.Cfg.EffectiveMaxFileSize(),
		threshold: threshold,
	}

	if opts.Watch {
		return watchAndLint(cmd.Context(), cmdCtx, l, paths)
	}

	report, err := l.run(cmd.Context(), paths)
	if err != nil {
		return err
	}
	renderLintReport(cmdCtx.Renderer, report)

	if report.Summary.TotalIssues > 0 {
		return ErrIssuesFound
	}
	return nil
}

// buildLintConfig layers the project config and then the CLI flags.
func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	lintCfg := lint.NewConfig()

	// Apply project config first (lower precedence)
	if cfg != nil && cfg.Lint != nil {
		if invalid := lintCfg.ApplyLintConfig(cfg.Lint); len(invalid) > 0 {
			return nil, fmt.Errorf("invalid severity for rules: %s", strings.Join(invalid, ", "))
		}
	}

	rs := rules.NewRuleset()

	// Apply CLI overrides (higher precedence)
	for _, id := range opts.Disable {
		id = strings.TrimSpace(id)
		if !rs.Has(id) {
			return nil, fmt.Errorf("--disable: unknown rule %q", id)
		}
		lintCfg.Disable(id)
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool)
		for _, id := range opts.Rules {
			id = strings.TrimSpace(id)
			if !rs.Has(id) {
				return nil, fmt.Errorf("--rule: unknown rule %q", id)
			}
			enabled[id] = true
		}
		for _, id := range rs.IDs() {
			if !enabled[id] {
				lintCfg.Disable(id)
			}
		}
	}

	return lintCfg, nil
}

// linter runs the engine over files concurrently.
type linter struct {
	engine    *terraform.Engine
	logger    *slog.Logger
	jobs      int
	maxSize   int64
	threshold core.Severity
}

// run lints every file under paths. Results keep the sorted file order.
func (l *linter) run(ctx context.Context, paths []string) (*output.LintOutput, error) {
	files, err := collectFiles(paths)
	if err != nil {
		return nil, err
	}

	type fileOutcome struct {
		result  output.LintFileResult
		skipped string
	}
	outcomes := make([]fileOutcome, len(files))

	jobs := l.jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			diags, reason := l.lintFile(path)
			outcomes[i] = fileOutcome{
				result:  output.LintFileResult{Path: path, Diagnostics: diags},
				skipped: reason,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &output.LintOutput{
		RunID: uuid.NewString(),
		Files: []output.LintFileResult{},
	}
	for _, o := range outcomes {
		if o.skipped != "" {
			report.Skipped = append(report.Skipped, output.SkippedFile{Path: o.result.Path, Reason: o.skipped})
			continue
		}
		report.Summary.FilesAnalyzed++
		if len(o.result.Diagnostics) == 0 {
			continue
		}
		report.Summary.FilesWithIssues++
		for _, d := range o.result.Diagnostics {
			report.Summary.TotalIssues++
			switch d.Severity {
			case core.SeverityError:
				report.Summary.Errors++
			case core.SeverityWarn:
				report.Summary.Warnings++
			case core.SeverityInfo:
				report.Summary.Info++
			}
		}
		report.Files = append(report.Files, o.result)
	}
	return report, nil
}

// lintFile analyzes one file. A non-empty reason means the file was skipped.
func (l *linter) lintFile(path string) ([]lint.Diagnostic, string) {
	info, err := os.Stat(path)
	if err != nil {
		l.logger.Warn("cannot stat file", "path", path, "error", err)
		return nil, err.Error()
	}
	if info.Size() > l.maxSize {
		return nil, fmt.Sprintf("file exceeds maximum size (%d > %d bytes)", info.Size(), l.maxSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		l.logger.Warn("cannot read file", "path", path, "error", err)
		return nil, err.Error()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	result, err := l.engine.AnalyzeFile(terraform.PathToURI(abs), string(content))
	if err != nil {
		if errors.Is(err, terraform.ErrFileTooLarge) {
			return nil, "file exceeds maximum size"
		}
		return nil, err.Error()
	}

	l.logger.Debug("analyzed", "path", path, "diagnostics", len(result.Diagnostics))
	return filterBySeverity(result.Diagnostics, l.threshold), ""
}

func filterBySeverity(diags []lint.Diagnostic, threshold core.Severity) []lint.Diagnostic {
	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.Severity.AtLeast(threshold) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// renderLintReport prints the report in the renderer's mode.
func renderLintReport(r *output.Renderer, report *output.LintOutput) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(report)
		return
	}

	for _, s := range report.Skipped {
		r.Warning(fmt.Sprintf("skipped %s: %s", s.Path, s.Reason))
	}

	if report.Summary.TotalIssues == 0 {
		r.Success(fmt.Sprintf("No lint issues found (%d files)", report.Summary.FilesAnalyzed))
		return
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		renderLintMarkdown(r, report)
	} else {
		renderLintText(r, report)
	}
}

func renderLintText(r *output.Renderer, report *output.LintOutput) {
	styles := r.Styles()
	for _, res := range report.Files {
		r.Println(styles.Path.Render(res.Path))
		for _, d := range res.Diagnostics {
			r.Printf("  %s  %s  %s %s\n",
				styles.Muted.Render(location(d)),
				styles.Severity(d.Severity).Render(fmt.Sprintf("%-5s", d.Severity.String())),
				d.Message,
				styles.Muted.Render(d.RuleID),
			)
			if d.Suggest != "" {
				r.Println(styles.Muted.Render("        suggestion: " + d.Suggest))
			}
		}
		r.Println("")
	}
	r.Println(styles.Bold.Render(summaryLine(report.Summary)))
}

func renderLintMarkdown(r *output.Renderer, report *output.LintOutput) {
	r.Header("Lint Report")
	for _, res := range report.Files {
		r.Printf("## %s\n\n", res.Path)
		rows := make([][]string, 0, len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			rows = append(rows, []string{location(d), d.Severity.String(), d.RuleID, d.Message})
		}
		r.Table([]string{"Location", "Severity", "Rule", "Message"}, rows)
		r.Println("")
	}
	r.Println("**" + summaryLine(report.Summary) + "**")
}

// location formats a diagnostic's start as 1-based line:column.
func location(d lint.Diagnostic) string {
	return fmt.Sprintf("%d:%d", d.Range.Start.Line+1, d.Range.Start.Character+1)
}

func summaryLine(s output.LintSummary) string {
	return fmt.Sprintf("%d issues (%d errors, %d warnings, %d info) in %d of %d files",
		s.TotalIssues, s.Errors, s.Warnings, s.Info, s.FilesWithIssues, s.FilesAnalyzed)
}

func completeRuleIDs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return rules.NewRuleset().IDs(), cobra.ShellCompDirectiveNoFileComp
}
