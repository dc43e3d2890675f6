package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forseti-dev/forseti-terraform/internal/cli/output"
	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (security, style, documentation, ...).
Use --verbose to see rationale with each rule, or pass a rule ID
for full documentation including examples and fix guidance.`,
		Example: `  # List all rules
  forseti-terraform rules

  # Show details for a specific rule
  forseti-terraform rules no-hardcoded-credentials

  # List rules in the security group
  forseti-terraform rules --group security

  # Output as JSON
  forseti-terraform rules --format json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeRuleArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

func completeRuleArg(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return rules.NewRuleset().IDs(), cobra.ShellCompDirectiveNoFileComp
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	r := NewCommandContext(cmd, opts.Format).Renderer

	rs := rules.NewRuleset()
	infos := rs.Infos()
	if opts.Group != "" {
		infos = nil
		for _, rule := range rs.GetByGroup(opts.Group) {
			infos = append(infos, lint.GetRuleInfo(rule))
		}
	}

	// Sort by group, then ID
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].Group != infos[j].Group {
			return infos[i].Group < infos[j].Group
		}
		return infos[i].ID < infos[j].ID
	})

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesJSONOutput{Rules: nonNil(infos), Count: len(infos)})
	case output.ModeMarkdown:
		listRulesMarkdown(r, infos, opts.Verbose)
	default:
		listRulesText(r, infos, opts.Verbose)
	}
	return nil
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

func nonNil(infos []core.RuleInfo) []core.RuleInfo {
	if infos == nil {
		return []core.RuleInfo{}
	}
	return infos
}

// listRulesText outputs rules as a styled table grouped by group.
func listRulesText(r *output.Renderer, infos []core.RuleInfo, verbose bool) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Terraform Lint Rules (%d)", len(infos))))
	r.Println("")

	for _, group := range groupRules(infos) {
		r.Println(styles.Header2.Render(output.Title(group.name)))
		rows := make([][]string, 0, len(group.rules))
		for _, info := range group.rules {
			rows = append(rows, []string{info.ID, info.Name, info.DefaultSeverity.String()})
		}
		r.Table([]string{"ID", "Name", "Severity"}, rows)

		if verbose {
			for _, info := range group.rules {
				r.Println(styles.Bold.Render("  " + info.ID))
				r.Println(styles.Muted.Render("    " + info.Description))
				if info.Rationale != "" {
					r.Println(styles.Muted.Render("    Why: " + truncateOneLine(info.Rationale, 80)))
				}
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'forseti-terraform rules <rule-id>' for detailed documentation"))
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, infos []core.RuleInfo, verbose bool) {
	r.Header("Terraform Lint Rules")

	for _, group := range groupRules(infos) {
		r.Println("## " + output.Title(group.name))
		r.Println("")
		for _, info := range group.rules {
			r.Printf("- **%s** - %s (`%s`)\n", info.ID, info.Name, info.DefaultSeverity.String())
			if verbose {
				r.Println("  " + info.Description)
				if info.Rationale != "" {
					r.Println("  > " + info.Rationale)
				}
			}
		}
		r.Println("")
	}
}

type ruleGroup struct {
	name  string
	rules []core.RuleInfo
}

// groupRules splits sorted rule infos into consecutive groups.
func groupRules(infos []core.RuleInfo) []ruleGroup {
	var groups []ruleGroup
	for _, info := range infos {
		if len(groups) == 0 || groups[len(groups)-1].name != info.Group {
			groups = append(groups, ruleGroup{name: info.Group})
		}
		last := &groups[len(groups)-1]
		last.rules = append(last.rules, info)
	}
	return groups
}

func showRule(cmd *cobra.Command, ruleID string, opts *RulesOptions) error {
	r := NewCommandContext(cmd, opts.Format).Renderer

	rule, ok := rules.NewRuleset().Get(ruleID)
	if !ok {
		return fmt.Errorf("rule %q not found", ruleID)
	}
	info := lint.GetRuleInfo(rule)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		showRuleMarkdown(r, info)
	default:
		showRuleText(r, info)
	}
	return nil
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, rule core.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), rule.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Kind"), rule.Kind)
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), styles.Severity(rule.DefaultSeverity).Render(rule.DefaultSeverity.String()))
	r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), rule.DocsURL)
	r.Println("")

	r.Println(styles.Bold.Render("Description"))
	r.Println("  " + rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println(styles.Bold.Render("Why This Matters"))
		r.Println("  " + rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println(styles.Bold.Render("Bad Example"))
		for _, line := range strings.Split(rule.BadExample, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println(styles.Bold.Render("Good Example"))
		for _, line := range strings.Split(rule.GoodExample, "\n") {
			r.Println(styles.Success.Render("  " + line))
		}
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println(styles.Bold.Render("How to Fix"))
		r.Println("  " + rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Println("")
	}
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, rule core.RuleInfo) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Printf("**Group:** %s | **Kind:** %s | **Severity:** `%s`\n\n", rule.Group, rule.Kind, rule.DefaultSeverity.String())
	r.Println(rule.Description)
	r.Println("")

	if rule.Rationale != "" {
		r.Println("## Why This Matters")
		r.Println("")
		r.Println(rule.Rationale)
		r.Println("")
	}

	if rule.BadExample != "" {
		r.Println("## Bad Example")
		r.Println("")
		r.Println("```hcl")
		r.Println(rule.BadExample)
		r.Println("```")
		r.Println("")
	}

	if rule.GoodExample != "" {
		r.Println("## Good Example")
		r.Println("")
		r.Println("```hcl")
		r.Println(rule.GoodExample)
		r.Println("```")
		r.Println("")
	}

	if rule.Fix != "" {
		r.Println("## How to Fix")
		r.Println("")
		r.Println(rule.Fix)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}

	r.Printf("Documentation: %s\n", rule.DocsURL)
}

func truncateOneLine(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
