// Package config provides configuration management for the forseti-terraform CLI.
//
// Values are layered with koanf. The shared lint section type lives in
// pkg/core and is re-exported here via a type alias.
package config

import (
	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
)

// LintConfig is an alias for the shared lint configuration.
// This allows CLI code to use config.LintConfig without importing pkg/core.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	Jobs         int         `koanf:"jobs"`
	MaxFileSize  int64       `koanf:"max_file_size"`
	DocsBaseURL  string      `koanf:"docs_base_url"`
	Lint         *LintConfig `koanf:"lint"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when none was found.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultJobs        = 0      // 0 means one worker per CPU
	DefaultMaxFileSize = int64(terraform.MaxFileSize)
)

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"forseti.yaml", "forseti.yml", ".forseti.yaml", ".forseti.yml"}

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Jobs:         DefaultJobs,
		MaxFileSize:  DefaultMaxFileSize,
		Lint:         &LintConfig{},
	}
}

// EffectiveMaxFileSize returns the configured size limit, clamped to the
// ruleset's own limit.
func (c *Config) EffectiveMaxFileSize() int64 {
	if c.MaxFileSize <= 0 || c.MaxFileSize > terraform.MaxFileSize {
		return terraform.MaxFileSize
	}
	return c.MaxFileSize
}
