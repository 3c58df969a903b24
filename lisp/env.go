// Copyright © 2026 The sexp authors

package lisp

import (
	"io"
	"log/slog"
	"strings"
)

// DefaultUserNamespace is the name of the namespace that EvalString and Load
// evaluate expressions against.
const DefaultUserNamespace = "user"

// Env is an interpreter instance.  It owns a Registry pre-populated with the
// native namespaces and a default namespace for user code.  An Env must not be
// used by more than one goroutine at a time.
type Env struct {
	Runtime *Runtime
	// User is the default namespace.
	User *Namespace

	userPath string
	logLevel slog.Leveler
}

// NewEnv constructs an interpreter instance and applies config to it.
func NewEnv(config ...Config) (*Env, error) {
	env := &Env{
		Runtime:  StandardRuntime(),
		userPath: DefaultUserNamespace,
		logLevel: slog.LevelWarn,
	}
	for _, fn := range config {
		if err := fn(env); err != nil {
			return nil, err
		}
	}
	rt := env.Runtime
	if rt.Logger == nil {
		rt.Logger = slog.New(slog.NewTextHandler(rt.Stderr, &slog.HandlerOptions{Level: env.logLevel}))
	}
	rt.Registry.Logger = rt.Logger
	if err := RegisterNatives(rt.Registry); err != nil {
		return nil, err
	}
	env.User = rt.Registry.CreateNamespace(env.userPath)
	return env, nil
}

// Registry returns the namespace registry of env.
func (env *Env) Registry() *Registry {
	return env.Runtime.Registry
}

// Namespace returns the namespace at path.
func (env *Env) Namespace(path string) (*Namespace, error) {
	return env.Runtime.Registry.GetNamespace(path)
}

// EvalString parses exactly one expression from text and evaluates it in the
// default namespace.
func (env *Env) EvalString(text string) (*LVal, error) {
	exprs, err := env.read("eval", strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		lerr := SyntaxError(CodeRequireOneExpression, ErrorData{"actual": len(exprs)},
			"expected exactly one expression but found %d", len(exprs))
		if len(exprs) > 1 {
			lerr.Source = exprs[1].Source
		}
		return nil, lerr
	}
	return env.Eval(exprs[0], env.User)
}

// LoadString evaluates every expression in text in the default namespace and
// returns the value of the last.
func (env *Env) LoadString(name, text string) (*LVal, error) {
	return env.Load(name, strings.NewReader(text))
}

// Load reads expressions from r and evaluates them in order in the default
// namespace.  The value of the last expression is returned.  No expression
// is evaluated if any of them fails to parse or is malformed.
func (env *Env) Load(name string, r io.Reader) (*LVal, error) {
	exprs, err := env.read(name, r)
	if err != nil {
		return nil, err
	}
	return env.load(exprs, env.User)
}

// LoadLocation is like Load but associates the physical location loc with
// the stream if the Reader supports it.
func (env *Env) LoadLocation(name string, loc string, r io.Reader) (*LVal, error) {
	exprs, err := env.readLocation(name, loc, r)
	if err != nil {
		return nil, err
	}
	return env.load(exprs, env.User)
}

// Eval evaluates expr against ctx.
func (env *Env) Eval(expr *LExpr, ctx Context) (*LVal, error) {
	if err := CheckLoopControl(expr); err != nil {
		return nil, err
	}
	return env.run(expr, ctx)
}

func (env *Env) load(exprs []*LExpr, ctx Context) (*LVal, error) {
	for _, expr := range exprs {
		if err := CheckLoopControl(expr); err != nil {
			return nil, err
		}
	}
	ret := None()
	for _, expr := range exprs {
		var err error
		ret, err = env.run(expr, ctx)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// run evaluates a top-level expression which has already passed
// CheckLoopControl.
func (env *Env) run(expr *LExpr, ctx Context) (*LVal, error) {
	rt := env.Runtime
	rt.reset()
	return rt.evalValue(expr, ctx)
}

func (env *Env) read(name string, r io.Reader) ([]*LExpr, error) {
	if env.Runtime.Reader == nil {
		return nil, EvalError(CodeNoReader, nil, "no reader for interpreter runtime")
	}
	return env.Runtime.Reader.Read(name, r)
}

func (env *Env) readLocation(name string, loc string, r io.Reader) ([]*LExpr, error) {
	reader, ok := env.Runtime.Reader.(LocationReader)
	if !ok {
		return env.read(name, r)
	}
	return reader.ReadLocation(name, loc, r)
}
