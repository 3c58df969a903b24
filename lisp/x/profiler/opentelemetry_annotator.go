// Copyright © 2026 The sexp authors

package profiler

import (
	"context"
	"errors"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// ContextOpenTelemetryTracerKey is the context key of the name of the tracer
// that spans are created with.  The default name is "sexp".
const ContextOpenTelemetryTracerKey contextKey = "otelParentTracer"

const defaultTracerName = "sexp"

// Span attributes which describe the applied function.
const (
	AttrFunctionType  = attribute.Key("sexp.function.type")
	AttrFunctionArity = attribute.Key("sexp.function.arity")
	AttrTrampoline    = attribute.Key("sexp.function.trampoline")
)

var _ lisp.Profiler = &otelAnnotator{}

// otelAnnotator keeps one open span for each active function application.
// Loop and recursion-function iterations run inside the span of their
// application, so the span stack is as deep as the call stack.
type otelAnnotator struct {
	profiler
	root  context.Context
	stack []otelFrame
}

type otelFrame struct {
	ctx  context.Context
	span trace.Span
}

// NewOpenTelemetryAnnotator returns a profiler which records a span for each
// function application as a child of the span in parentContext.
func NewOpenTelemetryAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *otelAnnotator {
	p := &otelAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		root: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	if p.root == nil {
		return errors.New("opentelemetry annotator requires a parent context")
	}
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

// Complete ends spans left open by an evaluation that did not return, e.g.
// one that panicked.  The span of the parent context is never ended.
func (p *otelAnnotator) Complete() error {
	for len(p.stack) > 0 {
		p.pop()
	}
	return nil
}

func (p *otelAnnotator) Start(fun *lisp.LVal, src *token.Location) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	label, name := p.prettyFunName(fun)
	parent := p.root
	if len(p.stack) > 0 {
		parent = p.stack[len(p.stack)-1].ctx
	}
	ctx, span := tracer(parent).Start(parent, label,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(functionAttributes(fun, name, src)...))
	p.stack = append(p.stack, otelFrame{ctx: ctx, span: span})
	depth := len(p.stack)
	return func() {
		// Frames above this one were abandoned without being ended.
		for len(p.stack) >= depth {
			p.pop()
		}
	}
}

func (p *otelAnnotator) pop() {
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	top.span.End()
}

func tracer(ctx context.Context) trace.Tracer {
	name, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		name = defaultTracerName
	}
	return otel.GetTracerProvider().Tracer(name)
}

// functionAttributes describes an application of fun at the call site src.
func functionAttributes(fun *lisp.LVal, name string, src *token.Location) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.CodeNamespace(fun.Fun.Namespace),
		semconv.CodeFunction(name),
		AttrFunctionType.String(fun.Type.String()),
		AttrFunctionArity.Int(fun.Fun.Arity()),
	}
	if fun.Type == lisp.LRecurFun {
		attrs = append(attrs, AttrTrampoline.Bool(true))
	}
	if src != nil {
		attrs = append(attrs,
			semconv.CodeFilepath(src.File),
			semconv.CodeLineNumber(src.Line),
			semconv.CodeColumn(src.Col),
		)
	}
	return attrs
}
