// Copyright © 2026 The sexp authors

package lisp

import (
	"io"
	"strings"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of top-level
	// expressions that it contains.
	Read(name string, r io.Reader) ([]*LExpr, error)
}

// LocationReader is like Reader but assigns physical locations to the tokens
// from r.
type LocationReader interface {
	// ReadLocation the contents of r, associated with physical location loc,
	// and return the sequence of top-level expressions that it contains.
	ReadLocation(name string, loc string, r io.Reader) ([]*LExpr, error)
}

// Loader evaluates a parsed program in an interpreter.
type Loader func(env *Env) (*LVal, error)

// LoaderMust returns its first argument when err is nil.  If err is not nil
// LoaderMust panics.
func LoaderMust(fn Loader, err error) Loader {
	if err != nil {
		panic(err)
	}
	return fn
}

// TextLoader parses a text stream using r and returns a Loader which
// evaluates the stream's expressions in the default namespace when called.
// The reader is invoked only once so the Loader may be used with many
// interpreters.
func TextLoader(r Reader, name string, stream io.Reader) (Loader, error) {
	exprs, err := r.Read(name, stream)
	if err != nil {
		return nil, err
	}
	for _, expr := range exprs {
		if err := CheckLoopControl(expr); err != nil {
			return nil, err
		}
	}
	return func(env *Env) (*LVal, error) {
		return env.load(exprs, env.User)
	}, nil
}

// ModuleLoader is like TextLoader but the returned Loader evaluates the
// stream as module moduleName.
func ModuleLoader(r Reader, moduleName string, name string, stream io.Reader) (Loader, error) {
	exprs, err := r.Read(name, stream)
	if err != nil {
		return nil, err
	}
	for _, expr := range exprs {
		if err := CheckLoopControl(expr); err != nil {
			return nil, err
		}
	}
	return func(env *Env) (*LVal, error) {
		return env.loadModule(moduleName, exprs)
	}, nil
}

// LoadModuleString evaluates text as the module moduleName.
func (env *Env) LoadModuleString(moduleName string, text string) (*LVal, error) {
	return env.LoadModule(moduleName, moduleName, strings.NewReader(text))
}

// LoadModule reads every top-level form from r and evaluates them against the
// namespace moduleName, which is created if necessary.  Top-level use forms
// are resolved, in order, before any other form is evaluated.  The value of
// the last form that is not a use form is returned.
func (env *Env) LoadModule(moduleName string, name string, r io.Reader) (*LVal, error) {
	exprs, err := env.read(name, r)
	if err != nil {
		return nil, err
	}
	for _, expr := range exprs {
		if err := CheckLoopControl(expr); err != nil {
			return nil, err
		}
	}
	return env.loadModule(moduleName, exprs)
}

func (env *Env) loadModule(moduleName string, exprs []*LExpr) (*LVal, error) {
	rt := env.Runtime
	ns := rt.Registry.createNamespace(moduleName, moduleName)
	var uses, body []*LExpr
	for _, expr := range exprs {
		if expr.Head() == "use" {
			uses = append(uses, expr)
		} else {
			body = append(body, expr)
		}
	}
	rt.log().Debug("module load", "module", moduleName, "forms", len(exprs), "uses", len(uses))
	for _, expr := range uses {
		if _, err := env.run(expr, ns); err != nil {
			return nil, err
		}
	}
	ret := None()
	for _, expr := range body {
		var err error
		ret, err = env.run(expr, ns)
		if err != nil {
			return nil, err
		}
	}
	rt.log().Debug("module loaded", "module", moduleName)
	return ret, nil
}

// opUse imports a namespace or one identifier into the current namespace.
func opUse(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	ns, ok := ctx.(*Namespace)
	if !ok {
		return nil, errPlace(CodeInvalidUseExpressionPlace, "use", "namespace")
	}
	if len(expr.Cells) != 2 && len(expr.Cells) != 3 {
		return nil, errInvalidExpression(expr, "use requires a name and an optional alias")
	}
	if expr.Cells[1].Type != ExprIdent {
		return nil, errInvalidExpression(expr, "invalid use target")
	}
	alias := ""
	if len(expr.Cells) == 3 {
		a := expr.Cells[2]
		if a.Type != ExprIdent || strings.Contains(a.Str, ".") || IsKeyword(a.Str) {
			return nil, errInvalidExpression(expr, "invalid use alias")
		}
		alias = a.Str
	}
	target, err := rt.normalize(expr.Cells[1].Str, ctx)
	if err != nil {
		return nil, err
	}

	if src, err := rt.Registry.GetNamespace(target); err == nil {
		if alias != "" {
			return nil, errInvalidExpression(expr, "a namespace cannot be aliased")
		}
		names := src.Names()
		for _, name := range names {
			v, err := src.Lookup(name)
			if err != nil {
				return nil, err
			}
			if err := ns.Define(name, v); err != nil {
				return nil, err
			}
		}
		rt.log().Debug("use namespace", "namespace", ns.Path, "target", target, "count", len(names))
		return None(), nil
	}

	v, err := rt.Registry.Lookup(target)
	if err != nil {
		return nil, err
	}
	if alias == "" {
		_, alias, _ = SplitFullName(target)
	}
	if err := ns.Define(alias, v); err != nil {
		return nil, err
	}
	rt.log().Debug("use identifier", "namespace", ns.Path, "target", target, "alias", alias)
	return v, nil
}
