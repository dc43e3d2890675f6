package lsp

import (
	"github.com/forseti-dev/forseti-terraform/pkg/core"
	"github.com/forseti-dev/forseti-terraform/pkg/lint"
	"github.com/forseti-dev/forseti-terraform/pkg/source"
)

// diagnosticSource is the source field of every published diagnostic.
const diagnosticSource = "forseti"

// publishDiagnostics analyzes an open document and publishes the results.
// Documents without a language tag publish an empty list.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diagnostics := []Diagnostic{}
	result, err := s.analyze(uri, doc.Content)
	if err != nil {
		s.logger.Warn("analysis skipped", "uri", uri, "error", err)
	} else {
		diagnostics = toLSPDiagnostics(result.Diagnostics)
	}

	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// toLSPDiagnostics converts lint diagnostics to the protocol shape.
func toLSPDiagnostics(diags []lint.Diagnostic) []Diagnostic {
	result := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		lspDiag := Diagnostic{
			Range:    toLSPRange(d.Range),
			Severity: toLSPSeverity(d.Severity),
			Code:     d.RuleID,
			Source:   diagnosticSource,
			Message:  d.Message,
		}
		if d.DocsURL != "" {
			lspDiag.CodeDescription = &CodeDescription{Href: d.DocsURL}
		}
		result = append(result, lspDiag)
	}
	return result
}

// toLSPSeverity converts core.Severity to LSP DiagnosticSeverity.
func toLSPSeverity(s core.Severity) DiagnosticSeverity {
	switch s {
	case core.SeverityError:
		return DiagnosticSeverityError
	case core.SeverityWarn:
		return DiagnosticSeverityWarning
	case core.SeverityInfo:
		return DiagnosticSeverityInformation
	default:
		return DiagnosticSeverityWarning
	}
}

func toLSPRange(r source.Range) Range {
	return Range{Start: toLSPPosition(r.Start), End: toLSPPosition(r.End)}
}

func toLSPPosition(p source.Position) Position {
	return Position{Line: clampUint32(p.Line), Character: clampUint32(p.Character)}
}

func clampUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(n) //nolint:gosec // positions are bounded by MaxFileSize
}
