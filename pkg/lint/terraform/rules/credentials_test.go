package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forseti-dev/forseti-terraform/pkg/lint"
)

func TestCompileCredentialPatterns_Embedded(t *testing.T) {
	patterns, errs := credentialPatterns()
	require.Empty(t, errs)
	require.Len(t, patterns, 5)

	var messages []string
	for _, p := range patterns {
		messages = append(messages, p.Message)
	}
	assert.Equal(t, []string{
		"Hardcoded password detected",
		"Hardcoded secret/token/key detected",
		"Hardcoded access key detected",
		"Hardcoded private key detected",
		"Hardcoded API key detected",
	}, messages)
}

func TestCompileCredentialPatterns_BadPatternIsSkipped(t *testing.T) {
	data := []byte(`
patterns:
  - id: broken
    regex: '(unclosed'
    message: never used
  - id: ok
    regex: 'secret\s*='
    message: found
`)
	patterns, errs := compileCredentialPatterns(data)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "broken")
	require.Len(t, patterns, 1)
	assert.Equal(t, "ok", patterns[0].ID)

	ctx := lint.NewRuleContext("SECRET = 1\n", nil)
	reportCredentials(ctx, patterns)
	require.Len(t, ctx.Diagnostics(), 1)
	assert.Equal(t, "found", ctx.Diagnostics()[0].Message)
}

func TestCompileCredentialPatterns_InvalidYAML(t *testing.T) {
	patterns, errs := compileCredentialPatterns([]byte("patterns: [unterminated"))
	assert.Nil(t, patterns)
	assert.Len(t, errs, 1)
}
