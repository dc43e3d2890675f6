package terraform_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forseti-dev/forseti-terraform/internal/testutil"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

func TestInferLanguage(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"main.tf", "terraform"},
		{"file:///work/main.tf", "terraform"},
		{"file:///work/prod.tfvars", "terraform-vars"},
		{"/work/notes.txt", ""},
		{"/work/main.tf.json", ""},
		{"Makefile", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, terraform.InferLanguage(tt.uri), "uri %q", tt.uri)
	}
}

func TestMatchesFilePattern(t *testing.T) {
	assert.True(t, terraform.MatchesFilePattern("/a/b/main.tf"))
	assert.True(t, terraform.MatchesFilePattern("file:///a/b/dev.tfvars"))
	assert.False(t, terraform.MatchesFilePattern("/a/b/main.go"))
	assert.False(t, terraform.MatchesFilePattern("/a/b/tf"))
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/a b/main.tf", terraform.URIToPath("file:///a%20b/main.tf"))
	assert.Equal(t, "main.tf", terraform.URIToPath("main.tf"))
	assert.Equal(t, "file:///a/main.tf", terraform.PathToURI("/a/main.tf"))
	assert.Equal(t, "file:///a/main.tf", terraform.PathToURI("file:///a/main.tf"))
}

func TestGetCapabilities(t *testing.T) {
	caps := terraform.GetCapabilities(rules.NewRuleset())

	assert.Equal(t, "terraform", caps.RulesetID)
	assert.Equal(t, "0.1.0", caps.Version)
	assert.Equal(t, []string{"*.tf", "*.tfvars"}, caps.FilePatterns)
	assert.Equal(t, int64(5*1024*1024), caps.MaxFileSize)
	assert.Equal(t, []string{"#", "//"}, caps.AnnotationPrefixes)
	assert.Len(t, caps.Rules, 6)
	assert.Empty(t, caps.ConfigSettings)

	assert.Equal(t, map[string]string{
		"no-hardcoded-credentials":      "error",
		"require-provider-version":      "error",
		"no-deprecated-interpolation":   "error",
		"resource-naming-convention":    "error",
		"variable-description-required": "error",
		"output-description-required":   "error",
	}, caps.DefaultConfig, "default config is error for every rule, whatever its severity")

	data, err := json.Marshal(caps)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"config_settings":[]`)
	assert.Contains(t, string(data), `"default_severity":"error"`)
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, terraform.CheckSize(terraform.MaxFileSize))

	err := terraform.CheckSize(terraform.MaxFileSize + 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, terraform.ErrFileTooLarge))
}

func TestPreprocess(t *testing.T) {
	dir := t.TempDir()
	tfPath := filepath.Join(dir, "main.tf")
	require.NoError(t, os.WriteFile(tfPath, []byte("locals {}\n"), 0o644))
	genDir := filepath.Join(dir, ".terraform", "modules")
	require.NoError(t, os.MkdirAll(genDir, 0o755))
	genPath := filepath.Join(genDir, "vars.tfvars")
	require.NoError(t, os.WriteFile(genPath, []byte("a = 1\n"), 0o644))
	missing := filepath.Join(dir, "missing.tf")

	ctx := terraform.Preprocess([]string{
		terraform.PathToURI(tfPath),
		terraform.PathToURI(genPath),
		terraform.PathToURI(missing),
		"untitled:Untitled-1",
	})

	assert.Equal(t, "terraform", ctx.RulesetID)
	require.Len(t, ctx.Files, 4)

	main := ctx.Files[0]
	assert.Equal(t, "terraform", main.Language)
	assert.Equal(t, int64(10), main.Context["file_size"])
	assert.Equal(t, true, main.Context["is_file"])
	assert.Equal(t, "tf", main.Context["extension"])
	assert.Equal(t, "configuration", main.Context["terraform_file_type"])
	assert.NotContains(t, main.Context, "terraform_generated")
	assert.Empty(t, main.Content)

	gen := ctx.Files[1]
	assert.Equal(t, "terraform-vars", gen.Language)
	assert.Equal(t, "variables", gen.Context["terraform_file_type"])
	assert.Equal(t, true, gen.Context["terraform_generated"])

	miss := ctx.Files[2]
	assert.NotContains(t, miss.Context, "file_size", "stat failures omit the field")
	assert.NotContains(t, miss.Context, "is_file")
	assert.Equal(t, "tf", miss.Context["extension"])

	assert.Empty(t, ctx.Files[3].Context)

	assert.Equal(t, map[string]any{
		"total_files":  4,
		"tf_files":     2,
		"tfvars_files": 1,
		"ruleset_type": "terraform",
	}, ctx.GlobalContext)
}

func TestEngine_AnalyzeFile(t *testing.T) {
	engine := terraform.NewEngine(nil, testutil.NewTestLogger(t))

	res, err := engine.AnalyzeFile("file:///w/main.tf", "variable \"x\" {}\n")
	require.NoError(t, err)
	assert.Equal(t, "terraform", res.Language)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "variable-description-required", res.Diagnostics[0].RuleID)

	res, err = engine.AnalyzeFile("file:///w/readme.txt", "password = \"x\"")
	require.NoError(t, err)
	assert.Empty(t, res.Language)
	assert.NotNil(t, res.Diagnostics)
	assert.Empty(t, res.Diagnostics)

	_, err = engine.AnalyzeFile("big.tf", strings.Repeat("#", terraform.MaxFileSize+1))
	assert.ErrorIs(t, err, terraform.ErrFileTooLarge)
}

func TestEngine_SuppressionAndConfig(t *testing.T) {
	cfg := lint.NewConfig().Disable("variable-description-required")
	engine := terraform.NewEngine(cfg, nil)

	text := "variable \"x\" {}\n# forseti-ignore\noutput \"y\" {}\n"
	res, err := engine.AnalyzeFile("main.tf", text)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 6, engine.Ruleset().Len())
	assert.Equal(t, "terraform", engine.Capabilities().RulesetID)
}
