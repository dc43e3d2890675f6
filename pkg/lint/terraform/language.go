package terraform

import (
	"net/url"
	"path"
	"strings"
)

// Language tags.
const (
	LanguageTerraform     = "terraform"
	LanguageTerraformVars = "terraform-vars"
)

// InferLanguage derives the language tag from the file extension of uri.
// An empty tag means the file is not handled by this ruleset.
func InferLanguage(uri string) string {
	switch path.Ext(URIToPath(uri)) {
	case ".tf":
		return LanguageTerraform
	case ".tfvars":
		return LanguageTerraformVars
	default:
		return ""
	}
}

const fileScheme = "file://"

// URIToPath converts a file:// URI to a file system path. Other strings are
// returned unchanged.
func URIToPath(uri string) string {
	if !strings.HasPrefix(uri, fileScheme) {
		return uri
	}
	p := uri[len(fileScheme):]
	if unescaped, err := url.PathUnescape(p); err == nil {
		return unescaped
	}
	return p
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(p string) string {
	if strings.HasPrefix(p, fileScheme) {
		return p
	}
	return fileScheme + p
}
