// Copyright © 2026 The sexp authors

package cmd

import (
	"io"
	"os"

	"github.com/sexplang/sexp/diagnostic"
	"github.com/sexplang/sexp/lint"
	"github.com/spf13/viper"
)

// newRenderer returns a renderer which reads source from texts before
// falling back to the file system.
func newRenderer(texts map[string]string) *diagnostic.Renderer {
	sources := diagnostic.Sources(texts)
	return &diagnostic.Renderer{
		Color: diagnostic.ParseColorMode(viper.GetString("color")),
		SourceReader: func(name string) ([]byte, error) {
			if b, err := sources(name); err == nil {
				return b, nil
			}
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		},
	}
}

// renderError renders err with diagnostic formatting and returns
// errRendered.
func renderError(w io.Writer, err error, texts map[string]string) error {
	_ = newRenderer(texts).RenderError(w, err)
	return errRendered
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	switch ld.Severity {
	case lint.SeverityError:
		d.Severity = diagnostic.SeverityError
	case lint.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	}
	if ld.Pos.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		})
	}
	d.Notes = append(d.Notes, ld.Notes...)
	return d
}

// renderLintDiagnostics renders lint diagnostics with diagnostic formatting.
func renderLintDiagnostics(w io.Writer, diags []lint.Diagnostic, texts map[string]string) error {
	ds := make([]diagnostic.Diagnostic, len(diags))
	for i, ld := range diags {
		ds[i] = lintDiagToDiagnostic(ld)
	}
	return newRenderer(texts).RenderAll(w, ds)
}
