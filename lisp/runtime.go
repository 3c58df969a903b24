// Copyright © 2026 The sexp authors

package lisp

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Runtime is the state shared by all evaluation within one interpreter
// instance.
type Runtime struct {
	Registry *Registry
	Stack    *CallStack
	Reader   Reader
	Stderr   io.Writer
	Logger   *slog.Logger
	Profiler Profiler
	// MaxDepth limits the nesting of evaluator activations, which bounds the
	// growth of the host stack.  Zero means unlimited.
	MaxDepth int
	// MaxSteps limits the number of expressions evaluated by one top-level
	// call.  Zero means unlimited.
	MaxSteps int64

	ctx   context.Context
	depth int
	steps int64
}

// StandardRuntime returns a new Runtime with an empty registry, an empty call
// stack, and standard error output to os.Stderr.
func StandardRuntime() *Runtime {
	return &Runtime{
		Registry: NewRegistry(),
		Stack:    &CallStack{},
		Stderr:   os.Stderr,
	}
}

// Depth returns the current nesting of evaluator activations.
func (rt *Runtime) Depth() int {
	return rt.depth
}

// reset prepares rt for a new top-level evaluation.
func (rt *Runtime) reset() {
	rt.steps = 0
	rt.depth = 0
	rt.Stack.Reset()
}

// enter is called at the start of each evaluator activation.
func (rt *Runtime) enter() error {
	if rt.MaxDepth > 0 && rt.depth >= rt.MaxDepth {
		return EvalError(CodeStackOverflow, ErrorData{"depth": rt.depth + 1},
			"evaluation depth exceeded maximum: %d", rt.MaxDepth)
	}
	rt.steps++
	if rt.MaxSteps > 0 && rt.steps > rt.MaxSteps {
		return EvalError(CodeStepLimitExceeded, ErrorData{"steps": rt.MaxSteps},
			"evaluation step limit exceeded: %d", rt.MaxSteps)
	}
	if rt.ctx != nil {
		if err := rt.ctx.Err(); err != nil {
			lerr := EvalError(CodeContextCancelled, ErrorData{"reason": err.Error()},
				"evaluation cancelled: %v", err)
			lerr.Err = err
			return lerr
		}
	}
	rt.depth++
	return nil
}

// log returns the runtime logger, which discards records if none is
// configured.
func (rt *Runtime) log() *slog.Logger {
	if rt.Logger == nil {
		return discardLogger
	}
	return rt.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (rt *Runtime) leave() {
	rt.depth--
}

// associate attaches the location of expr and a copy of the call stack to
// err if they have not already been attached by a more deeply nested
// expression.
func (rt *Runtime) associate(err error, expr *LExpr) error {
	lerr, ok := err.(*Error)
	if !ok {
		return err
	}
	if lerr.Source == nil && expr != nil {
		lerr.Source = expr.Source
	}
	rt.attachStack(lerr)
	return lerr
}

func (rt *Runtime) attachStack(err error) {
	lerr, ok := err.(*Error)
	if !ok || lerr.Stack != nil {
		return
	}
	lerr.Stack = rt.Stack.Copy()
}
