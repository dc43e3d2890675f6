package terraform

import (
	"os"
	"path/filepath"
	"strings"
)

// FileContext is the per-file metadata attached during preprocessing.
type FileContext struct {
	URI      string         `json:"uri"`
	Content  string         `json:"content"`
	Language string         `json:"language,omitempty"`
	Context  map[string]any `json:"context"`
}

// PreprocessingContext is the batch-level result of Preprocess.
type PreprocessingContext struct {
	RulesetID     string         `json:"ruleset_id"`
	Files         []FileContext  `json:"files"`
	GlobalContext map[string]any `json:"global_context"`
}

// Preprocess attaches lightweight metadata to each file:// URI and batch
// counts. Metadata that cannot be read is omitted. URIs with another scheme
// are listed without metadata. Content is left empty.
func Preprocess(uris []string) PreprocessingContext {
	files := make([]FileContext, 0, len(uris))
	var tfFiles, tfvarsFiles int

	for _, uri := range uris {
		fc := FileContext{
			URI:      uri,
			Language: InferLanguage(uri),
			Context:  make(map[string]any),
		}

		if strings.HasPrefix(uri, fileScheme) {
			p := URIToPath(uri)

			if info, err := os.Stat(p); err == nil {
				fc.Context["file_size"] = info.Size()
				fc.Context["is_file"] = info.Mode().IsRegular()
			}

			if ext := strings.TrimPrefix(filepath.Ext(p), "."); ext != "" {
				fc.Context["extension"] = ext
				switch ext {
				case "tf":
					tfFiles++
					fc.Context["terraform_file_type"] = "configuration"
				case "tfvars":
					tfvarsFiles++
					fc.Context["terraform_file_type"] = "variables"
				}
			}

			if strings.Contains(filepath.ToSlash(p), "/.terraform/") {
				fc.Context["terraform_generated"] = true
			}
		}

		files = append(files, fc)
	}

	return PreprocessingContext{
		RulesetID: RulesetID,
		Files:     files,
		GlobalContext: map[string]any{
			"total_files":  len(files),
			"tf_files":     tfFiles,
			"tfvars_files": tfvarsFiles,
			"ruleset_type": RulesetID,
		},
	}
}
