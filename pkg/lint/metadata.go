package lint

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// DefaultDocsBaseURL is the hosted documentation site.
const DefaultDocsBaseURL = "https://forseti.dev/rules/terraform"

var docsBaseURL atomic.Value

func init() {
	docsBaseURL.Store(DefaultDocsBaseURL)
}

// DocsBaseURL returns the base URL rule documentation links point at.
func DocsBaseURL() string {
	return docsBaseURL.Load().(string)
}

// BuildDocURL constructs a documentation URL for a rule.
func BuildDocURL(ruleID string) string {
	return fmt.Sprintf("%s/%s", DocsBaseURL(), strings.ToLower(ruleID))
}

// SetDocsBaseURL overrides the default documentation base URL.
// Useful for offline mode or custom documentation sites.
func SetDocsBaseURL(url string) {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	if url == "" {
		url = DefaultDocsBaseURL
	}
	docsBaseURL.Store(url)
}

// ResetDocsBaseURL resets to the default documentation URL.
func ResetDocsBaseURL() {
	docsBaseURL.Store(DefaultDocsBaseURL)
}
