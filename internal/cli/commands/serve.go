package commands

import (
	"github.com/spf13/cobra"

	"github.com/forseti-dev/forseti-terraform/internal/lsp"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"lsp"},
		Short:   "Run the stdio JSON-RPC host",
		Long: `Start the stdio host for editor and tool integration.

The server communicates over stdin/stdout using Content-Length framed
JSON-RPC 2.0. Besides document sync notifications it answers
ruleset/capabilities, ruleset/preprocess and ruleset/analyze.
Lint settings from forseti.yaml apply to every analysis.`,
		Example: `  # Start the host (usually called by an editor)
  forseti-terraform serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd, "")

			lintCfg := lint.NewConfig()
			lintCfg.ApplyLintConfig(cmdCtx.Cfg.Lint)

			engine := terraform.NewEngine(lintCfg, cmdCtx.Logger)
			server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), engine, cmdCtx.Logger)
			return server.Run()
		},
	}

	return cmd
}
