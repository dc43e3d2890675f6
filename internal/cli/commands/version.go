package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display forseti-terraform and ruleset version information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "forseti-terraform v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ruleset %s v%s\n", terraform.RulesetID, terraform.Version)
		},
	}
}
