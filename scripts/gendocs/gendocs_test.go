package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})

	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n\n", w.String())
}

func TestCleanExample(t *testing.T) {
	in := "  # comment\n  forseti-terraform lint\n\n    nested"
	assert.Equal(t, "# comment\nforseti-terraform lint\n\n  nested", cleanExample(in))
}

func TestGenerators(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"cli", []string{"index.md", "lint.md", "rules.md", "serve.md", "preprocess.md", "capabilities.md"}, "forseti-terraform lint [paths...]"},
		{"config", []string{"configuration.md"}, "`lint.severity`"},
		{"lint", []string{"index.md", "terraform-rules.md"}, "no-hardcoded-credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, generators[tt.name].run(dir))

			var all strings.Builder
			for _, f := range tt.files {
				data, err := os.ReadFile(filepath.Join(dir, f))
				require.NoError(t, err, "missing %s", f)
				assert.Contains(t, string(data), "DO NOT EDIT")
				all.Write(data)
			}
			assert.Contains(t, all.String(), tt.want)
		})
	}
}

func TestGenerateCLIDocs_CommandContracts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	read := func(name string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		return string(data)
	}

	index := read("index.md")
	assert.Contains(t, index, "`FORSETI_LINT__DISABLED`")
	assert.Contains(t, index, "`FORSETI_MAX_FILE_SIZE`")
	assert.NotContains(t, index, "FORSETI_LINT__SEVERITY", "map settings are file-only")
	assert.Contains(t, index, "`lint issues found`")

	lintPage := read("lint.md")
	assert.Contains(t, lintPage, "## Rule Selection")
	assert.Contains(t, lintPage, "## Watch Mode")
	assert.Contains(t, lintPage, "`# forseti-ignore`")
	assert.Contains(t, lintPage, "`-w`, `--watch`")

	serve := read("serve.md")
	assert.Contains(t, serve, "`ruleset/analyze`")
	assert.Contains(t, serve, "`-32001`")
	assert.Contains(t, serve, "Aliases: `lsp`")

	preprocess := read("preprocess.md")
	assert.Contains(t, preprocess, `"terraform_file_type": "variables"`)
	assert.Contains(t, preprocess, `"terraform_generated": true`)

	capabilities := read("capabilities.md")
	assert.Contains(t, capabilities, `"resource-naming-convention": "error"`)
}

func TestPageName(t *testing.T) {
	root := &cobra.Command{Use: "forseti-terraform"}
	parent := &cobra.Command{Use: "config"}
	child := &cobra.Command{Use: "show", Run: func(*cobra.Command, []string) {}}
	hidden := &cobra.Command{Use: "secret", Hidden: true, Run: func(*cobra.Command, []string) {}}
	parent.AddCommand(child, hidden)
	root.AddCommand(parent)

	assert.Equal(t, "config-show", pageName(child))

	var names []string
	for _, cmd := range documentedCommands(root) {
		names = append(names, pageName(cmd))
	}
	assert.Equal(t, []string{"config", "config-show"}, names)
}
