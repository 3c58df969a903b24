// Copyright © 2026 The sexp authors

package lisp

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Config is a function that configures an interpreter instance or its
// runtime.
type Config func(env *Env) error

// WithReader returns a Config that makes the interpreter use r to parse
// source streams.  There is no default Reader.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStderr returns a Config that makes the interpreter write diagnostic
// output to w instead of the default, os.Stderr.  Unless WithLogger is also
// given, the default logger writes to w.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that replaces the default logger.
func WithLogger(logger *slog.Logger) Config {
	return func(env *Env) error {
		env.Runtime.Logger = logger
		return nil
	}
}

// WithLogLevel returns a Config that sets the level of the default logger.
// The default level is slog.LevelWarn.
func WithLogLevel(level slog.Leveler) Config {
	return func(env *Env) error {
		env.logLevel = level
		return nil
	}
}

// WithProfiler returns a Config that reports every function application to
// p.
func WithProfiler(p Profiler) Config {
	return func(env *Env) error {
		env.Runtime.Profiler = p
		return nil
	}
}

// WithMaximumPhysicalStackHeight returns a Config that will prevent an
// interpreter from allowing the call stack height to exceed n.  Loop and
// recursion-function iterations do not add to the height.
func WithMaximumPhysicalStackHeight(n int) Config {
	return func(env *Env) error {
		env.Runtime.Stack.MaxHeightPhysical = n
		return nil
	}
}

// WithMaximumEvalDepth returns a Config that limits the nesting of evaluator
// activations, and with it the growth of the host stack, to n.
func WithMaximumEvalDepth(n int) Config {
	return func(env *Env) error {
		env.Runtime.MaxDepth = n
		return nil
	}
}

// WithMaxSteps returns a Config that sets the maximum number of expressions
// evaluated by one top-level call before evaluation fails with
// STEP_LIMIT_EXCEEDED.  A value of 0 means unlimited (the default).
func WithMaxSteps(n int64) Config {
	return func(env *Env) error {
		env.Runtime.MaxSteps = n
		return nil
	}
}

// WithContext returns a Config that sets a context.Context checked at each
// evaluation step.  If it is cancelled or its deadline expires, evaluation
// fails with CONTEXT_CANCELLED.
func WithContext(ctx context.Context) Config {
	return func(env *Env) error {
		env.Runtime.ctx = ctx
		return nil
	}
}

// WithDefaultNamespace returns a Config that changes the name of the default
// namespace from "user".
func WithDefaultNamespace(path string) Config {
	return func(env *Env) error {
		if path == "" {
			return errors.New("empty default namespace path")
		}
		env.userPath = path
		return nil
	}
}
