// Copyright © 2026 The sexp authors

package lisp

import (
	"strings"

	"github.com/sexplang/sexp/parser/token"
)

// anonFunName is the name used for anonymous functions in errors and stack
// traces.
const anonFunName = "lambda"

// eval evaluates expr in ctx.  The result may be a loop signal produced by
// break or recur.  Callers which are not a loop trampoline or a tail
// position must use evalValue.
func (rt *Runtime) eval(expr *LExpr, ctx Context) (*LVal, error) {
	if err := rt.enter(); err != nil {
		return nil, rt.associate(err, expr)
	}
	defer rt.leave()

	switch expr.Type {
	case ExprNumber:
		return Number(expr.Num), nil
	case ExprIdent:
		v, err := rt.resolve(expr.Str, ctx)
		if err != nil {
			return nil, rt.associate(err, expr)
		}
		return v, nil
	case ExprList:
		if len(expr.Cells) == 0 {
			break
		}
		if op, ok := specialOps[expr.Head()]; ok {
			v, err := op(rt, expr, ctx)
			if err != nil {
				return nil, rt.associate(err, expr)
			}
			return v, nil
		}
		return rt.apply(expr, ctx)
	}
	return nil, rt.associate(errInvalidExpression(expr, "invalid expression"), expr)
}

// evalValue evaluates expr in ctx and rejects loop signals.
func (rt *Runtime) evalValue(expr *LExpr, ctx Context) (*LVal, error) {
	v, err := rt.eval(expr, ctx)
	if err != nil {
		return nil, err
	}
	if v.isMark() {
		return nil, rt.associate(errMisplacedMark(v.Type.String()), expr)
	}
	return v, nil
}

// resolve returns the value of an identifier.  Dotted names are resolved
// through the registry after relative prefixes are normalized against the
// namespace of ctx.
func (rt *Runtime) resolve(name string, ctx Context) (*LVal, error) {
	if !strings.Contains(name, ".") {
		return ctx.Lookup(name)
	}
	fullName, err := rt.normalize(name, ctx)
	if err != nil {
		return nil, err
	}
	return rt.Registry.Lookup(fullName)
}

func (rt *Runtime) normalize(name string, ctx Context) (string, error) {
	ns := ctx.Namespace()
	return NormalizeFullName(name, ns.Module, ns.Path)
}

// apply evaluates a function application.  Arity is checked before any
// argument is evaluated.
func (rt *Runtime) apply(expr *LExpr, ctx Context) (*LVal, error) {
	head := expr.Cells[0]
	fun, err := rt.evalValue(head, ctx)
	if err != nil {
		return nil, err
	}
	if !fun.IsFunction() {
		lerr := EvalError(CodeIdentifierNotAFunction, ErrorData{"name": head.String()},
			"identifier is not a function: %s", head)
		return nil, rt.associate(lerr, expr)
	}
	argExprs := expr.Cells[1:]
	if len(argExprs) != fun.Fun.Arity() {
		name := head.String()
		if fun.Type != LNative {
			name = funName(fun)
		}
		return nil, rt.associate(errArity(name, len(argExprs), fun.Fun.Arity()), expr)
	}
	args, err := rt.evalArgs(argExprs, ctx)
	if err != nil {
		return nil, err
	}
	v, err := rt.call(fun, args, expr.Source)
	if err != nil {
		return nil, rt.associate(err, expr)
	}
	return v, nil
}

// Call applies fun to args which have already been evaluated.  The number
// of arguments must match the arity of fun.
func (rt *Runtime) Call(fun *LVal, args []*LVal) (*LVal, error) {
	if !fun.IsFunction() {
		return nil, EvalError(CodeIdentifierNotAFunction, ErrorData{"name": fun.String()},
			"value is not a function: %s", fun)
	}
	if len(args) != fun.Fun.Arity() {
		return nil, errArity(funName(fun), len(args), fun.Fun.Arity())
	}
	return rt.call(fun, args, nil)
}

func (rt *Runtime) call(fun *LVal, args []*LVal, src *token.Location) (*LVal, error) {
	if err := rt.Stack.Push(src, fun); err != nil {
		return nil, err
	}
	defer rt.Stack.Pop()
	if rt.Profiler != nil {
		defer rt.Profiler.Start(fun, src)()
	}

	var v *LVal
	var err error
	switch fun.Type {
	case LNative:
		v, err = fun.Fun.Builtin(args)
	case LRecurFun:
		v, err = rt.callRecursion(fun, args)
	default:
		v, err = rt.callUser(fun, args)
	}
	if err != nil {
		rt.attachStack(err)
		return nil, err
	}
	return v, nil
}

// callUser evaluates the body of a user or anonymous function in a new scope
// whose parent is the context captured by the function.
func (rt *Runtime) callUser(fun *LVal, args []*LVal) (*LVal, error) {
	scope, err := activate(fun.Fun, args)
	if err != nil {
		return nil, err
	}
	return rt.evalValue(fun.Fun.Body, scope)
}

// callRecursion is the trampoline for recursion functions.  Each iteration
// evaluates the body in a fresh activation scope.  A recur signal restarts
// the body with new arguments and a break signal returns its value.
func (rt *Runtime) callRecursion(fun *LVal, args []*LVal) (*LVal, error) {
	fd := fun.Fun
	for {
		if len(args) != len(fd.Params) {
			return nil, errArity(fd.Name, len(args), len(fd.Params))
		}
		scope, err := activate(fd, args)
		if err != nil {
			return nil, err
		}
		v, err := rt.eval(fd.Body, scope)
		if err != nil {
			return nil, err
		}
		switch v.Type {
		case LMarkBreak:
			if len(v.Cells) != 1 {
				return nil, SyntaxError(CodeRequireRecursionFunctionReturnOneValue,
					ErrorData{"name": fd.Name, "actual": len(v.Cells)},
					"recursion function %s must return exactly one value", fd.Name)
			}
			return v.Cells[0], nil
		case LMarkRecur:
			args = v.Cells
		default:
			return nil, SyntaxError(CodeInvalidLoopBody, ErrorData{"form": "defnr", "name": fd.Name},
				"recursion function %s did not end with break or recur", fd.Name)
		}
	}
}

// activate returns the scope for one application of a function.
func activate(fd *FunData, args []*LVal) (*Scope, error) {
	scope := NewScope(fd.Env)
	for i, param := range fd.Params {
		if err := scope.Define(param, args[i]); err != nil {
			return nil, err
		}
	}
	return scope, nil
}

func funName(fun *LVal) string {
	if fun.Type == LAnonFun || fun.Fun.Name == "" {
		return anonFunName
	}
	return fun.Fun.Name
}

func errArity(name string, actual int, expect int) error {
	return SyntaxError(CodeIncorrectNumberOfParameters,
		ErrorData{"name": name, "actual": actual, "expect": expect},
		"%s expects %d arguments but got %d", name, expect, actual)
}

func errInvalidExpression(expr *LExpr, msg string) error {
	return SyntaxError(CodeInvalidExpression, ErrorData{"exp": expr.String()}, "%s: %v", msg, expr)
}

func errMisplacedMark(form string) error {
	return SyntaxError(CodeInvalidLoopControlPlace, ErrorData{"form": form},
		"%s must be the last form of a loop or recursion function body", form)
}
