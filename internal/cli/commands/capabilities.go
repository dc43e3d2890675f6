package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forseti-dev/forseti-terraform/internal/cli/output"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
)

// NewCapabilitiesCommand creates the capabilities command.
func NewCapabilitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "Print the ruleset capabilities as JSON",
		Long: `Print the ruleset description a host uses to integrate forseti-terraform:
ruleset id and version, file patterns, size limit, suppression comment
prefixes, rule metadata and the default rule configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd, string(output.ModeJSON))
			engine := terraform.NewEngine(nil, cmdCtx.Logger)
			return cmdCtx.Renderer.JSON(engine.Capabilities())
		},
	}
}

// NewPreprocessCommand creates the preprocess command.
func NewPreprocessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preprocess [paths...]",
		Short: "Print preprocessing metadata for files as JSON",
		Long: `Collect lightweight metadata for each file (size, extension, Terraform
file type, whether it lives under .terraform) and batch-level counts.
Paths are converted to file URIs; directories are expanded like lint does.`,
		Example: `  forseti-terraform preprocess main.tf variables.tfvars
  forseti-terraform preprocess ./modules`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd, string(output.ModeJSON))

			uris, err := pathsToURIs(args)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.JSON(terraform.Preprocess(uris))
		},
	}
}

// pathsToURIs expands directories and converts every path to a file URI.
// Files named explicitly are kept even when they do not match the patterns.
func pathsToURIs(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var expanded []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			files, err := collectFiles([]string{p})
			if err != nil {
				return nil, err
			}
			expanded = append(expanded, files...)
			continue
		}
		expanded = append(expanded, p)
	}

	uris := make([]string, 0, len(expanded))
	for _, p := range expanded {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve %s: %w", p, err)
		}
		uris = append(uris, terraform.PathToURI(abs))
	}
	return uris, nil
}
