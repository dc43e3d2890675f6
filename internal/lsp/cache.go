package lsp

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/forseti-dev/forseti-terraform/pkg/lint"
)

// DefaultCacheSize bounds the number of cached analysis results.
const DefaultCacheSize = 256

// resultCache memoizes diagnostics by language and content hash. Cached
// slices are shared and must not be modified by callers.
type resultCache struct {
	entries *lru.Cache[string, []lint.Diagnostic]
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, []lint.Diagnostic](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{entries: entries}, nil
}

func cacheKey(language, content string) string {
	sum := sha256.Sum256([]byte(content))
	return language + ":" + hex.EncodeToString(sum[:])
}

func (c *resultCache) get(language, content string) ([]lint.Diagnostic, bool) {
	return c.entries.Get(cacheKey(language, content))
}

func (c *resultCache) add(language, content string, diags []lint.Diagnostic) {
	c.entries.Add(cacheKey(language, content), diags)
}

func (c *resultCache) len() int {
	return c.entries.Len()
}
