package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  core.Severity
		ok    bool
	}{
		{"error", core.SeverityError, true},
		{"ERROR", core.SeverityError, true},
		{"warn", core.SeverityWarn, true},
		{"warning", core.SeverityWarn, true},
		{" info ", core.SeverityInfo, true},
		{"off", core.SeverityWarn, false},
		{"", core.SeverityWarn, false},
	}

	for _, tt := range tests {
		got, ok := core.ParseSeverity(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]core.Severity{"s": core.SeverityWarn})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"warn"}`, string(data))

	var out map[string]core.Severity
	require.NoError(t, json.Unmarshal([]byte(`{"s":"warning"}`), &out))
	assert.Equal(t, core.SeverityWarn, out["s"])

	assert.Error(t, json.Unmarshal([]byte(`{"s":"loud"}`), &out))

	_, err = json.Marshal(core.Severity(42))
	assert.Error(t, err)
}

func TestSeverity_AtLeast(t *testing.T) {
	assert.True(t, core.SeverityError.AtLeast(core.SeverityWarn))
	assert.True(t, core.SeverityWarn.AtLeast(core.SeverityWarn))
	assert.False(t, core.SeverityInfo.AtLeast(core.SeverityWarn))
}
