// Copyright © 2026 The sexp authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
)

// pprofAnnotator labels the current goroutine with the function being
// evaluated so that CPU profiles taken with pprof can be broken down by
// function.  It does not start pprof.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler which sets pprof labels.
func NewPprofAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(fun *lisp.LVal, src *token.Location) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}

// Context returns the context carrying the labels of the function being
// evaluated.
func (p *pprofAnnotator) Context() context.Context {
	return p.currentContext
}
