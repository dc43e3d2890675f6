package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/forseti-dev/forseti-terraform/internal/cli/config"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

// generateConfigDocs generates the configuration reference.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
	Category    string // "general", "lint"
}

// getConfigSchema returns the configuration schema definition.
// This mirrors internal/cli/config/types.go Config and pkg/core LintConfig.
func getConfigSchema() []ConfigField {
	d := config.Default()
	return []ConfigField{
		{Name: "output", Type: "string", Default: d.OutputFormat, Description: "Output format: auto, text, markdown, json", Category: "general"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Debug logging on stderr", Category: "general"},
		{Name: "jobs", Type: "int", Default: strconv.Itoa(d.Jobs), Description: "Files analyzed in parallel (0 = one per CPU)", Category: "general"},
		{Name: "max_file_size", Type: "int", Default: strconv.FormatInt(d.MaxFileSize, 10), Description: "Files larger than this many bytes are skipped", Category: "general"},
		{Name: "docs_base_url", Type: "string", Description: "Base URL for rule documentation links", Category: "general"},

		{Name: "lint.disabled", Type: "[]string", Description: "Rule IDs that never run", Category: "lint"},
		{Name: "lint.severity", Type: "map[string]string", Description: "Per-rule severity: error, warn, info or off", Category: "lint"},
		{Name: "lint.rules", Type: "map[string]map[string]any", Description: "Per-rule options", Category: "lint"},
	}
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "forseti-terraform configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("forseti-terraform reads the first of %s found in the working directory or its parents. "+
		"Flags override environment variables, which override the file.", joinCode(config.ConfigFileNames)))

	fields := getConfigSchema()
	for _, section := range []struct{ category, title string }{
		{"general", "General Settings"},
		{"lint", "Lint Settings"},
	} {
		w.Header(2, section.title)
		var rows [][]string
		for _, f := range fields {
			if f.Category != section.category {
				continue
			}
			defVal := f.Default
			if defVal == "" {
				defVal = "-"
			}
			rows = append(rows, []string{InlineCode(f.Name), f.Type, InlineCode(defVal), f.Description})
		}
		w.Table([]string{"Field", "Type", "Default", "Description"}, rows)
	}

	w.Header(2, "Rule Options")
	var optRows [][]string
	for _, info := range rules.NewRuleset().Infos() {
		for _, key := range info.ConfigKeys {
			optRows = append(optRows, []string{InlineCode(info.ID), InlineCode(key)})
		}
	}
	w.Table([]string{"Rule", "Option"}, optRows)

	w.Header(2, "Full Configuration Example")
	w.CodeBlock("yaml", `# forseti.yaml
output: auto
jobs: 4

lint:
  disabled:
    - no-deprecated-interpolation
  severity:
    variable-description-required: error
    output-description-required: off
  rules:
    resource-naming-convention:
      pattern: "[a-z][a-z0-9_]*"`)

	w.Paragraph("Run `forseti-terraform init` to write a starter file listing every rule.")

	filename := filepath.Join(outDir, "configuration.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

func joinCode(items []string) string {
	s := ""
	for i, item := range items {
		if i > 0 {
			s += ", "
		}
		s += InlineCode(item)
	}
	return s
}
