// Copyright © 2026 The sexp authors

package profiler

import (
	"context"
	"errors"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

var _ lisp.Profiler = &ocAnnotator{}

// NewOpenCensusAnnotator returns a profiler which records an OpenCensus span
// for each function application.
func NewOpenCensusAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the profiler with spans rooted at ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(fun *lisp.LVal, src *token.Location) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, prettyLabel)
	return func() {
		p.end(src)
	}
}

func (p *ocAnnotator) end(src *token.Location) {
	file, line := "no-source", 0
	if src != nil {
		file, line = src.File, src.Line
	}
	p.currentSpan.Annotate([]trace.Attribute{
		trace.StringAttribute("file", file),
		trace.Int64Attribute("line", int64(line)),
	}, "source")
	p.currentSpan.End()
	// And pop the current context back
	n := len(p.contexts) - 1
	p.currentContext = p.contexts[n]
	p.contexts[n] = nil
	p.contexts = p.contexts[:n]
	p.currentSpan = trace.FromContext(p.currentContext)
}
