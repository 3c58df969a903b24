// Copyright © 2026 The sexp authors

package profiler

import (
	"regexp"

	"github.com/sexplang/sexp/lisp"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(fun *lisp.LVal) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithShortLabeler labels spans with the unqualified name of a function.
func WithShortLabeler() Option {
	return WithFunLabeler(func(fun *lisp.LVal) string {
		return fun.Fun.Name
	})
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")
	return validLabelRegExp.FindString(userLabel)
}
