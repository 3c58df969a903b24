// Copyright © 2026 The sexp authors

// Package diagnostic renders interpreter errors as annotated source snippets
// for command line output.
package diagnostic

import (
	"errors"
	"fmt"

	"github.com/sexplang/sexp/lisp"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic is a single error, warning, or note with optional source
// annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	// Code is shown in brackets after the severity when set.
	Code    string
	Message string
	Spans   []Span
	Notes   []string // "= note:" lines (stack trace frames, etc.)
	// Help is a suggested fix shown after the notes.
	Help string
}

// FromError converts err to a Diagnostic.  An *lisp.Error contributes its
// code, its source location and the frames of its call stack, innermost
// first.
func FromError(err error) Diagnostic {
	e, ok := lisp.AsError(err)
	if !ok {
		return Diagnostic{Severity: SeverityError, Message: err.Error()}
	}
	d := Diagnostic{
		Severity: SeverityError,
		Code:     e.Code,
		Message:  e.Message,
		Help:     Hint(e),
	}
	if e.Source != nil && e.Source.Line > 0 {
		span := Span{
			File:  e.Source.File,
			Line:  e.Source.Line,
			Col:   e.Source.Col,
			Label: e.Kind.String(),
		}
		// Prefer physical path for reading source
		if e.Source.Path != "" {
			span.File = e.Source.Path
		}
		d.Spans = append(d.Spans, span)
	}
	if e.Stack != nil {
		for i := len(e.Stack.Frames) - 1; i >= 0; i-- {
			frame := &e.Stack.Frames[i]
			loc := "unknown"
			if frame.Source != nil {
				loc = frame.Source.String()
			}
			d.Notes = append(d.Notes, fmt.Sprintf("in %s at %s", frame.QualifiedFunName(), loc))
		}
	}
	if cause := errors.Unwrap(e); cause != nil {
		d.Notes = append(d.Notes, "caused by: "+cause.Error())
	}
	return d
}
