package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/forseti-dev/forseti-terraform/internal/cli"
	"github.com/forseti-dev/forseti-terraform/internal/cli/commands"
	"github.com/forseti-dev/forseti-terraform/internal/cli/config"
	"github.com/forseti-dev/forseti-terraform/internal/lsp"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
)

// commandSections adds hand-written contract sections to a command page,
// keyed by the command's page name.
var commandSections = map[string]func(w *MarkdownWriter) error{
	"lint":         writeLintSections,
	"serve":        writeServeSections,
	"preprocess":   writePreprocessSections,
	"capabilities": writeCapabilitiesSections,
}

// generateCLIDocs writes an index page and one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	cmds := documentedCommands(root)

	if err := writePage(outDir, "index.md", cliIndex(root, cmds)); err != nil {
		return err
	}
	for _, cmd := range cmds {
		w, err := commandPage(cmd)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", cmd.CommandPath(), err)
		}
		if err := writePage(outDir, pageName(cmd)+".md", w); err != nil {
			return err
		}
	}
	return nil
}

func writePage(outDir, name string, w *MarkdownWriter) error {
	if err := os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("  Generated %s", name)
	return nil
}

// documentedCommands walks the command tree depth-first, skipping hidden and
// generated commands.
func documentedCommands(parent *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range parent.Commands() {
		if !cmd.IsAvailableCommand() || cmd.Name() == "help" {
			continue
		}
		out = append(out, cmd)
		out = append(out, documentedCommands(cmd)...)
	}
	return out
}

// pageName is the command path without the binary, joined with dashes.
func pageName(cmd *cobra.Command) string {
	parts := strings.Fields(cmd.CommandPath())
	return strings.Join(parts[1:], "-")
}

func cliIndex(root *cobra.Command, cmds []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for "+root.Name())
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanDescription(root.Long))

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/forseti-dev/forseti-terraform/cmd/forseti-terraform@latest")

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(cmds))
	for _, cmd := range cmds {
		link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(strings.TrimPrefix(cmd.CommandPath(), root.Name()+" ")), pageName(cmd))
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Scalar and list settings from the configuration file can be set from the environment. " +
		"A double underscore separates nested keys; lists are comma-separated.")
	w.Table([]string{"Variable", "Setting", "Description"}, envRows())
	w.Paragraph("Flags override environment variables, which override the configuration file.")

	w.Header(2, "Exit Status")
	writeExitStatus(w)
	return w
}

// envRows derives variable names from the configuration schema. Map-valued
// settings are file-only.
func envRows() [][]string {
	var rows [][]string
	for _, f := range getConfigSchema() {
		if strings.HasPrefix(f.Type, "map[") {
			continue
		}
		name := config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, ".", "__"))
		rows = append(rows, []string{InlineCode(name), InlineCode(f.Name), f.Description})
	}
	return rows
}

func writeExitStatus(w *MarkdownWriter) {
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "The command succeeded. For lint: no diagnostic at or above " + InlineCode("--severity") + "."},
		{InlineCode("1"), fmt.Sprintf("lint reported diagnostics (%s), or the command failed. Details go to stderr.",
			InlineCode(commands.ErrIssuesFound.Error()))},
	})
}

func commandPage(cmd *cobra.Command) (*MarkdownWriter, error) {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.CommandPath(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if len(cmd.Aliases) > 0 {
		aliases := make([]string, len(cmd.Aliases))
		for i, alias := range cmd.Aliases {
			aliases[i] = InlineCode(alias)
		}
		w.Paragraph("Aliases: " + strings.Join(aliases, ", "))
	}

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasAvailableInheritedFlags() {
		w.Paragraph("Global options are listed in the [CLI reference](/cli/).")
	}

	if add, ok := commandSections[pageName(cmd)]; ok {
		if err := add(w); err != nil {
			return nil, err
		}
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w, nil
}

// writeFlagsTable lists visible flags with their shorthand merged into the
// name column.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := "-"
		if f.DefValue != "" && f.DefValue != "[]" && f.DefValue != "0" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{name, f.Value.Type(), def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Type", "Default", "Description"}, rows)
}

func writeLintSections(w *MarkdownWriter) error {
	w.Header(2, "Rule Selection")
	w.Paragraph("Settings are applied in this order, each on top of the previous one:")
	w.BulletList([]string{
		InlineCode("lint.disabled") + " and " + InlineCode("lint.severity") + " from the configuration file",
		InlineCode("--disable") + " turns off the listed rules",
		InlineCode("--rule") + " turns off every rule not listed",
		InlineCode("--severity") + " hides diagnostics below the threshold without changing any rule's severity",
	})
	w.Paragraph("Unknown rule IDs in " + InlineCode("--disable") + " or " + InlineCode("--rule") + " are an error. " +
		"A " + InlineCode("# "+lint.IgnoreDirective) + " comment silences diagnostics on the next line, " +
		"or on its own line when it trails code.")

	w.Header(2, "Watch Mode")
	w.Paragraph("With " + InlineCode("--watch") + " the paths are linted once and again after any " +
		strings.Join(codeList(terraform.FilePatterns()), " or ") + " file changes. " +
		"Bursts of changes trigger a single run. New directories are picked up as they appear, " +
		"and " + InlineCode(".terraform") + " is never watched.")
	w.Paragraph("Watch mode runs until interrupted and then exits 0 whatever the last report contained.")

	w.Header(2, "Exit Status")
	writeExitStatus(w)
	return nil
}

func writeServeSections(w *MarkdownWriter) error {
	w.Header(2, "Protocol")
	w.Paragraph(fmt.Sprintf("Every message is a JSON-RPC 2.0 object preceded by a %s header. "+
		"Messages larger than %d bytes are drained and answered with error %s.",
		InlineCode("Content-Length"), lsp.MaxMessageSize, InlineCode(fmt.Sprint(lsp.CodeFileTooLarge))))

	w.Table([]string{"Method", "Kind", "Result"}, [][]string{
		{InlineCode("initialize"), "request", "Capabilities with full document sync, plus server info"},
		{InlineCode("ruleset/capabilities"), "request", "Same document as the " + InlineCode("capabilities") + " command"},
		{InlineCode("ruleset/preprocess"), "request", "Same document as the " + InlineCode("preprocess") + " command, for " + InlineCode(`{"uris": [...]}`)},
		{InlineCode("ruleset/analyze"), "request", "Diagnostics for " + InlineCode(`{"uri": ..., "content": ...}`)},
		{InlineCode("textDocument/didOpen"), "notification", "Publishes diagnostics for the document"},
		{InlineCode("textDocument/didChange"), "notification", "Re-analyzes the full text and publishes diagnostics"},
		{InlineCode("textDocument/didSave"), "notification", "Re-analyzes and publishes diagnostics"},
		{InlineCode("textDocument/didClose"), "notification", "Clears the document's diagnostics"},
		{InlineCode("shutdown") + ", " + InlineCode("exit"), "request, notification", "Stops the host"},
	})

	w.Header(3, "Errors")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode(fmt.Sprint(lsp.CodeParseError)), "The body is not valid JSON"},
		{InlineCode(fmt.Sprint(lsp.CodeMethodNotFound)), "Unknown request method"},
		{InlineCode(fmt.Sprint(lsp.CodeInvalidParams)), "Missing or malformed parameters"},
		{InlineCode(fmt.Sprint(lsp.CodeFileTooLarge)), fmt.Sprintf("Content above %d bytes, or an oversized message", terraform.MaxFileSize)},
	})
	return nil
}

func writePreprocessSections(w *MarkdownWriter) error {
	w.Header(2, "Output")
	w.Paragraph("Files that do not exist still get an entry; only the path-derived fields are filled in.")
	return writeJSONSample(w, terraform.Preprocess([]string{
		"file:///infra/main.tf",
		"file:///infra/prod.tfvars",
		"file:///infra/.terraform/modules/vpc/main.tf",
	}))
}

func writeCapabilitiesSections(w *MarkdownWriter) error {
	w.Header(2, "Output")
	engine := terraform.NewEngine(nil, slog.New(slog.DiscardHandler))
	return writeJSONSample(w, engine.Capabilities())
}

func writeJSONSample(w *MarkdownWriter, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sample output: %w", err)
	}
	w.CodeBlock("json", string(data))
	return nil
}

func codeList(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = InlineCode(s)
	}
	return out
}

// cleanExample strips the indentation shared by all non-blank lines.
func cleanExample(example string) string {
	lines := strings.Split(example, "\n")
	indent := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
