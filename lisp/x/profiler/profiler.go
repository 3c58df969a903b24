// Copyright © 2026 The sexp authors

// Package profiler provides lisp.Profiler implementations which report
// function applications to tracing systems and profile formats.
package profiler

import (
	"fmt"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	natives    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

// Option configures a profiler.
type Option func(*profiler)

// WithNativeFunctions makes a profiler report applications of native
// functions, which are skipped by default.
func WithNativeFunctions() Option {
	return func(p *profiler) {
		p.natives = true
	}
}

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Start(fun *lisp.LVal, src *token.Location) func() {
	return func() {}
}

// prettyFunName returns a label and the qualified name of fun.  If no
// FunLabeler is configured, or it returns nothing, the label is the
// qualified name.
func (p *profiler) prettyFunName(fun *lisp.LVal) (string, string) {
	name := fun.Fun.QualifiedName()
	label := ""
	if p.funLabeler != nil {
		label = sanitizeLabel(p.funLabeler(fun))
	}
	if label == "" {
		label = name
	}
	return label, name
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(fun *lisp.LVal) bool {
	if !p.enabled || !fun.IsFunction() {
		return true
	}
	if fun.Type == lisp.LNative && !p.natives {
		return true
	}
	return p.skipFilter != nil && p.skipFilter(fun)
}
