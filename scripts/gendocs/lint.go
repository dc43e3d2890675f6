package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"security":      "Rules that catch secrets and other values that must not live in source.",
	"dependencies":  "Rules about provider and module version pinning.",
	"style":         "Rules about syntax and naming conventions.",
	"documentation": "Rules that keep variables and outputs self-describing.",
}

// groupOrder is the order groups appear on the rules page.
var groupOrder = []string{"security", "dependencies", "style", "documentation"}

// generateLintDocs generates all lint documentation files.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	infos := rules.NewRuleset().Infos()

	if err := generateLintIndex(outDir, infos); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	if err := generateRulesPage(outDir, infos); err != nil {
		return err
	}
	log.Printf("  Generated terraform-rules.md")

	return nil
}

// generateLintIndex generates the main linting overview page.
func generateLintIndex(outDir string, infos []core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Linting", "Terraform lint rules for forseti-terraform")
	w.GeneratedMarker()

	w.Header(1, "Linting")
	w.Paragraph(fmt.Sprintf("forseti-terraform ships **%d rules** for %s files.",
		len(infos), strings.Join(terraform.FilePatterns(), " and ")))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warn"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
		},
	)

	w.Header(2, "Suppressing Diagnostics")
	w.Paragraph("An ignore comment suppresses diagnostics on the next line, or on its own line when it trails code:")
	w.CodeBlock("hcl", `# forseti-ignore: no-hardcoded-credentials
password = "local-only"

name = "Legacy" # forseti-ignore`)

	w.Header(2, "Rules")
	rows := make([][]string, 0, len(infos))
	for _, info := range sortedInfos(infos) {
		link := fmt.Sprintf("[%s](/rules/terraform-rules#%s)", InlineCode(info.ID), info.ID)
		rows = append(rows, []string{link, info.Group, InlineCode(info.DefaultSeverity.String()), cleanDescription(info.Description)})
	}
	w.Table([]string{"Rule", "Group", "Severity", "Description"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulesPage generates the per-rule documentation page.
func generateRulesPage(outDir string, infos []core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Terraform Lint Rules", "Rule reference for forseti-terraform")
	w.GeneratedMarker()

	w.Header(1, "Terraform Lint Rules")

	grouped := groupRulesByGroup(infos)
	for _, group := range groupOrder {
		groupRules, ok := grouped[group]
		if !ok || len(groupRules) == 0 {
			continue
		}

		w.Line(fmt.Sprintf("## %s {#%s}", capitalizeFirst(group), group))
		w.Newline()

		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		for _, info := range groupRules {
			writeRuleDoc(w, info)
		}
	}

	return os.WriteFile(filepath.Join(outDir, "terraform-rules.md"), w.Bytes(), 0600)
}

func sortedInfos(infos []core.RuleInfo) []core.RuleInfo {
	sorted := append([]core.RuleInfo(nil), infos...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted
}

// groupRulesByGroup organizes rules by their Group field.
func groupRulesByGroup(infos []core.RuleInfo) map[string][]core.RuleInfo {
	grouped := make(map[string][]core.RuleInfo)
	for _, info := range sortedInfos(infos) {
		grouped[info.Group] = append(grouped[info.Group], info)
	}
	return grouped
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// writeRuleDoc writes detailed documentation for a single rule.
func writeRuleDoc(w *MarkdownWriter, info core.RuleInfo) {
	w.Line(fmt.Sprintf("### %s - %s {#%s}", info.ID, info.Name, info.ID))
	w.Newline()

	w.Line(fmt.Sprintf("**Severity:** %s | **Kind:** %s", InlineCode(info.DefaultSeverity.String()), info.Kind))
	w.Newline()

	w.Paragraph(cleanDescription(info.Description))

	if info.Rationale != "" {
		w.Header(4, "Why This Matters")
		w.Paragraph(strings.TrimSpace(info.Rationale))
	}

	if info.BadExample != "" {
		w.Header(4, "Bad")
		w.CodeBlock("hcl", info.BadExample)
	}

	if info.GoodExample != "" {
		w.Header(4, "Good")
		w.CodeBlock("hcl", info.GoodExample)
	}

	if info.Fix != "" {
		w.Header(4, "How to Fix")
		w.Paragraph(strings.TrimSpace(info.Fix))
	}

	if len(info.ConfigKeys) > 0 {
		w.Header(4, "Configuration")
		w.Paragraph(fmt.Sprintf("This rule accepts the following configuration options: %s",
			InlineCode(strings.Join(info.ConfigKeys, ", "))))
	}

	w.Line("---")
	w.Newline()
}
