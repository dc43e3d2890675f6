package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forseti-dev/forseti-terraform/internal/testutil"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
)

// writeConfig writes a forseti.yaml into dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "forseti.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// newFlags mirrors the root command's persistent flags.
func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "")
	flags.BoolP("verbose", "v", false, "")
	flags.IntP("jobs", "j", 0, "")
	flags.Int64("max-file-size", 0, "")
	flags.String("docs-base-url", "", "")
	flags.String("config", "", "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultJobs, cfg.Jobs)
	assert.Equal(t, DefaultMaxFileSize, cfg.MaxFileSize)
	assert.Empty(t, cfg.DocsBaseURL)
	require.NotNil(t, cfg.Lint)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
output: json
jobs: 3
docs_base_url: https://docs.example.com/rules
lint:
  disabled:
    - no-deprecated-interpolation
  severity:
    no-hardcoded-credentials: warn
    output-description-required: "off"
  rules:
    resource-naming-convention:
      pattern: "[a-z]+"
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "https://docs.example.com/rules", cfg.DocsBaseURL)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, dir, cfg.ProjectRoot)

	require.NotNil(t, cfg.Lint)
	assert.Equal(t, []string{"no-deprecated-interpolation"}, cfg.Lint.Disabled)
	assert.Equal(t, map[string]string{
		"no-hardcoded-credentials":    "warn",
		"output-description-required": "off",
	}, cfg.Lint.Severity)
	assert.Equal(t, "[a-z]+", cfg.Lint.Rules["resource-naming-convention"]["pattern"])
}

func TestLoad_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "output: markdown\n")
	nested := filepath.Join(root, "envs", "prod")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, filepath.Join(root, "forseti.yaml"), cfg.ConfigFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		flags   []string
		want    string
		wantJob int
	}{
		{
			name:    "file beats defaults",
			want:    "markdown",
			wantJob: 2,
		},
		{
			name:    "env beats file",
			env:     map[string]string{"FORSETI_OUTPUT": "json", "FORSETI_JOBS": "5"},
			want:    "json",
			wantJob: 5,
		},
		{
			name:    "flag beats env",
			env:     map[string]string{"FORSETI_OUTPUT": "json"},
			flags:   []string{"--output", "text", "-j", "7"},
			want:    "text",
			wantJob: 7,
		},
		{
			name:    "unset flag keeps env",
			env:     map[string]string{"FORSETI_OUTPUT": "json"},
			flags:   []string{"--verbose"},
			want:    "json",
			wantJob: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "output: markdown\njobs: 2\n")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := newFlags()
			require.NoError(t, flags.Parse(tt.flags))

			cfg, err := Load(path, flags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.OutputFormat)
			assert.Equal(t, tt.wantJob, cfg.Jobs)
		})
	}
}

func TestLoad_EnvNestedKeys(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FORSETI_LINT__DISABLED", "no-hardcoded-credentials, require-provider-version")
	t.Setenv("FORSETI_MAX_FILE_SIZE", "1024")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"no-hardcoded-credentials", "require-provider-version"}, cfg.Lint.Disabled)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
}

func TestLoad_FlagKeyMapping(t *testing.T) {
	t.Chdir(t.TempDir())
	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--max-file-size", "2048", "--docs-base-url", "https://x.test"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, "https://x.test", cfg.DocsBaseURL)
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
output: html
lint:
  severity:
    no-hardcoded-credentials: fatal
`)

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), `unknown mode "html"`)
	assert.Contains(t, err.Error(), `invalid severity "fatal"`)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:   "off severity",
			mutate: func(c *Config) { c.Lint.Severity = map[string]string{"require-provider-version": "OFF"} },
		},
		{
			name:      "negative jobs",
			mutate:    func(c *Config) { c.Jobs = -1 },
			errSubstr: "jobs: must not be negative",
		},
		{
			name:      "negative max file size",
			mutate:    func(c *Config) { c.MaxFileSize = -5 },
			errSubstr: "max_file_size",
		},
		{
			name:      "unknown disabled rule",
			mutate:    func(c *Config) { c.Lint.Disabled = []string{"no-such-rule"} },
			errSubstr: `lint.disabled: unknown rule "no-such-rule"`,
		},
		{
			name:      "unknown severity rule",
			mutate:    func(c *Config) { c.Lint.Severity = map[string]string{"AM01": "warn"} },
			errSubstr: `lint.severity: unknown rule "AM01"`,
		},
		{
			name:      "unknown options rule",
			mutate:    func(c *Config) { c.Lint.Rules = map[string]RuleOptions{"nope": {"x": 1}} },
			errSubstr: `lint.rules: unknown rule "nope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_EffectiveMaxFileSize(t *testing.T) {
	tests := []struct {
		configured int64
		want       int64
	}{
		{0, terraform.MaxFileSize},
		{100, 100},
		{terraform.MaxFileSize * 2, terraform.MaxFileSize},
	}
	for _, tt := range tests {
		cfg := &Config{MaxFileSize: tt.configured}
		assert.Equal(t, tt.want, cfg.EffectiveMaxFileSize())
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := testutil.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestGetConfig(t *testing.T) {
	assert.Equal(t, Default(), GetConfig(context.Background()))

	cfg := &Config{OutputFormat: "json"}
	assert.Same(t, cfg, GetConfig(WithConfig(context.Background(), cfg)))
}
