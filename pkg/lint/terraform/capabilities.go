package terraform

import (
	"path"
	"path/filepath"

	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/lint/terraform/rules"
)

// Ruleset identity.
const (
	RulesetID = rules.RulesetName
	Version   = "0.1.0"

	// MaxFileSize is the largest file, in bytes, the ruleset accepts.
	MaxFileSize = 5 * 1024 * 1024
)

// DefaultRuleConfig is the default configuration advertised for every rule.
// It is independent of the severity each rule reports with.
const DefaultRuleConfig = core.SeverityError

var (
	filePatterns       = []string{"*.tf", "*.tfvars"}
	annotationPrefixes = []string{"#", "//"}
)

// Capabilities describes the ruleset to a host.
type Capabilities struct {
	RulesetID          string            `json:"ruleset_id"`
	Version            string            `json:"version"`
	FilePatterns       []string          `json:"file_patterns"`
	MaxFileSize        int64             `json:"max_file_size,omitempty"`
	AnnotationPrefixes []string          `json:"annotation_prefixes"`
	Rules              []core.RuleInfo   `json:"rules"`
	DefaultConfig      map[string]string `json:"default_config"`
	ConfigSettings     []ConfigSetting   `json:"config_settings"`
}

// ConfigSetting is a custom host-side setting. The Terraform ruleset
// declares none.
type ConfigSetting struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// GetCapabilities describes rs. Every rule's default configuration is
// DefaultRuleConfig.
func GetCapabilities(rs *lint.Ruleset) Capabilities {
	defaults := make(map[string]string, rs.Len())
	for _, id := range rs.IDs() {
		defaults[id] = DefaultRuleConfig.String()
	}

	return Capabilities{
		RulesetID:          RulesetID,
		Version:            Version,
		FilePatterns:       FilePatterns(),
		MaxFileSize:        MaxFileSize,
		AnnotationPrefixes: AnnotationPrefixes(),
		Rules:              rs.Infos(),
		DefaultConfig:      defaults,
		ConfigSettings:     []ConfigSetting{},
	}
}

// FilePatterns returns the glob patterns the ruleset claims.
func FilePatterns() []string {
	return append([]string(nil), filePatterns...)
}

// AnnotationPrefixes returns the comment prefixes of the language.
func AnnotationPrefixes() []string {
	return append([]string(nil), annotationPrefixes...)
}

// MatchesFilePattern reports whether the base name of p matches one of the
// claimed file patterns. Both URIs and OS paths are accepted.
func MatchesFilePattern(p string) bool {
	base := path.Base(filepath.ToSlash(URIToPath(p)))
	for _, pattern := range filePatterns {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
