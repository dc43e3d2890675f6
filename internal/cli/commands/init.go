package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/forseti-dev/forseti-terraform/internal/cli/config"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

// initConfigName is the file written by init.
const initConfigName = "forseti.yaml"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter forseti.yaml",
		Long: `Write a forseti.yaml listing every rule with its default severity,
ready to be tuned. Set a severity to "off" to disable a rule.`,
		Example: `  # Initialize in current directory
  forseti-terraform init

  # Initialize in another directory
  forseti-terraform init ./infra

  # Force overwrite existing config
  forseti-terraform init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd, ""), dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, initConfigName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	data, err := starterConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r := cmdCtx.Renderer
	r.Success("Created " + configPath)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Adjust rule severities in " + initConfigName)
	r.Println("  2. Run 'forseti-terraform lint' to check your configuration")
	return nil
}

// starterConfig renders the default configuration as YAML.
func starterConfig() ([]byte, error) {
	rs := rules.NewRuleset()

	severity := make(map[string]string, rs.Len())
	for _, info := range rs.Infos() {
		severity[info.ID] = info.DefaultSeverity.String()
	}

	doc := struct {
		Output string `yaml:"output"`
		Jobs   int    `yaml:"jobs"`
		Lint   struct {
			Disabled []string                       `yaml:"disabled"`
			Severity map[string]string              `yaml:"severity"`
			Rules    map[string]config.RuleOptions `yaml:"rules"`
		} `yaml:"lint"`
	}{
		Output: config.DefaultOutput,
		Jobs:   config.DefaultJobs,
	}
	doc.Lint.Disabled = []string{}
	doc.Lint.Severity = severity
	doc.Lint.Rules = map[string]config.RuleOptions{
		rules.ResourceNamingConvention.ID: {"pattern": rules.DefaultNamePattern},
	}

	var buf bytes.Buffer
	buf.WriteString("# forseti-terraform configuration\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
