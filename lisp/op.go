// Copyright © 2026 The sexp authors

package lisp

import (
	"strings"
)

// specialOpFunc evaluates a special form.  expr is the whole form, including
// its keyword.
type specialOpFunc func(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error)

// SpecialOp describes a special form of the language.
type SpecialOp struct {
	Name string
	// Usage is the shape of the form, e.g. "(if cond then else)".
	Usage string
	fn    specialOpFunc
	Doc   string
}

var langSpecialOps = []*SpecialOp{
	{"const", "(const name value)", opConst,
		`Evaluates value and binds it to name in the current namespace.
		Only valid at namespace level. Constants cannot be redefined.`},
	{"let", "(let name value)", opLet,
		`Evaluates value and binds it to name in the current scope.  Only
		valid inside a do block or a function or loop body.`},
	{"set", "(set name value)", opSet,
		`Evaluates value and assigns it to the nearest enclosing scope
		binding of name.  Namespace constants cannot be assigned.`},
	{"namespace", "(namespace path body...)", opNamespace,
		`Creates the namespace at path if necessary and evaluates each body
		expression against it.  Returns the last value.`},
	{"do", "(do body...)", opDo,
		`Evaluates each body expression in a new scope and returns the
		last value.`},
	{"if", "(if cond then else)", opIf,
		`Evaluates then if cond evaluates to 1 and else otherwise.`},
	{"loop", "(loop (params...) (args...) body)", opLoop,
		`Binds params to the values of args and evaluates body, which must
		end in break or recur.  recur restarts body with new values and
		break returns its value.`},
	{"break", "(break value)", opBreak,
		`Terminates the enclosing loop or recursion function with value.`},
	{"recur", "(recur args...)", opRecur,
		`Restarts the enclosing loop or recursion function with args.`},
	{"defn", "(defn name (params...) body)", opDefn,
		`Defines a function in the current namespace.`},
	{"defnr", "(defnr name (params...) body)", opDefnr,
		`Defines a recursion function in the current namespace.  Every
		path through body must end in break or recur.  Iterations do not
		grow the stack.`},
	{"fn", "(fn (params...) body)", opFn,
		`Returns an anonymous function which captures the current
		context.`},
	{"use", "(use full.name [alias])", opUse,
		`Imports a namespace or a single identifier into the current
		namespace.`},
}

var specialOps map[string]specialOpFunc

func init() {
	specialOps = make(map[string]specialOpFunc, len(langSpecialOps))
	for _, op := range langSpecialOps {
		specialOps[op.Name] = op.fn
	}
}

// SpecialOps returns the special forms of the language.
func SpecialOps() []*SpecialOp {
	ops := make([]*SpecialOp, len(langSpecialOps))
	copy(ops, langSpecialOps)
	return ops
}

// IsKeyword reports whether name is reserved for a special form.
func IsKeyword(name string) bool {
	_, ok := specialOps[name]
	return ok
}

func opConst(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	ns, ok := ctx.(*Namespace)
	if !ok {
		return nil, errPlace(CodeInvalidConstExpressionPlace, "const", "namespace")
	}
	return rt.bind(expr, ns)
}

func opLet(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	scope, ok := ctx.(*Scope)
	if !ok {
		return nil, errPlace(CodeInvalidLetExpressionPlace, "let", "scope")
	}
	return rt.bind(expr, scope)
}

// bind implements const and let.
func (rt *Runtime) bind(expr *LExpr, ctx Context) (*LVal, error) {
	name, err := formName(expr, 3)
	if err != nil {
		return nil, err
	}
	v, err := rt.evalValue(expr.Cells[2], ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Define(name, v); err != nil {
		return nil, err
	}
	return v, nil
}

func opSet(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	scope, ok := ctx.(*Scope)
	if !ok {
		return nil, errPlace(CodeInvalidSetExpressionPlace, "set", "scope")
	}
	name, err := formName(expr, 3)
	if err != nil {
		return nil, err
	}
	v, err := rt.evalValue(expr.Cells[2], ctx)
	if err != nil {
		return nil, err
	}
	if err := scope.Assign(name, v); err != nil {
		return nil, err
	}
	return v, nil
}

func opNamespace(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	if len(expr.Cells) < 2 || expr.Cells[1].Type != ExprIdent {
		return nil, errInvalidExpression(expr, "namespace requires a path")
	}
	path, err := rt.normalize(expr.Cells[1].Str, ctx)
	if err != nil {
		return nil, err
	}
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || strings.Contains(path, "..") {
		return nil, errInvalidExpression(expr, "invalid namespace path")
	}
	ns := rt.Registry.createNamespace(path, ctx.Namespace().Module)
	ret := None()
	for _, body := range expr.Cells[2:] {
		ret, err = rt.evalValue(body, ns)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func opDo(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	return rt.evalBody(expr.Cells[1:], NewScope(ctx))
}

// evalBody evaluates exprs in order.  The last expression is in tail
// position and may produce a loop signal.
func (rt *Runtime) evalBody(exprs []*LExpr, ctx Context) (*LVal, error) {
	if len(exprs) == 0 {
		return None(), nil
	}
	last := len(exprs) - 1
	for _, expr := range exprs[:last] {
		if _, err := rt.evalValue(expr, ctx); err != nil {
			return nil, err
		}
	}
	return rt.eval(exprs[last], ctx)
}

func opIf(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	if len(expr.Cells) != 4 {
		return nil, errFormArity("if", len(expr.Cells)-1, 3)
	}
	cond, err := rt.evalValue(expr.Cells[1], ctx)
	if err != nil {
		return nil, err
	}
	if cond.IsTrue() {
		return rt.eval(expr.Cells[2], ctx)
	}
	return rt.eval(expr.Cells[3], ctx)
}

// opLoop is the loop trampoline.  Each iteration binds the loop parameters
// in a new scope and evaluates the body.  The body never recurses on the
// host stack.
func opLoop(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	if len(expr.Cells) != 4 {
		return nil, errFormArity("loop", len(expr.Cells)-1, 3)
	}
	params, err := formParams(expr.Cells[1])
	if err != nil {
		return nil, err
	}
	initExprs := expr.Cells[2]
	if initExprs.Type != ExprList {
		return nil, errInvalidExpression(initExprs, "loop arguments must be a list")
	}
	if len(initExprs.Cells) != len(params) {
		return nil, errLoopArgs(len(initExprs.Cells), len(params))
	}
	args, err := rt.evalArgs(initExprs.Cells, ctx)
	if err != nil {
		return nil, err
	}
	body := expr.Cells[3]
	for {
		scope := NewScope(ctx)
		for i, param := range params {
			if err := scope.Define(param, args[i]); err != nil {
				return nil, err
			}
		}
		v, err := rt.eval(body, scope)
		if err != nil {
			return nil, err
		}
		switch v.Type {
		case LMarkBreak:
			if len(v.Cells) != 1 {
				return nil, SyntaxError(CodeRequireLoopReturnOneValue, ErrorData{"actual": len(v.Cells)},
					"loop must return exactly one value")
			}
			return v.Cells[0], nil
		case LMarkRecur:
			if len(v.Cells) != len(params) {
				return nil, errLoopArgs(len(v.Cells), len(params))
			}
			args = v.Cells
		default:
			return nil, SyntaxError(CodeInvalidLoopBody, ErrorData{"form": "loop"},
				"loop body did not end with break or recur")
		}
	}
}

// opBreak carries every operand.  The trampoline consuming the signal
// rejects any count other than one.
func opBreak(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	vals, err := rt.evalArgs(expr.Cells[1:], ctx)
	if err != nil {
		return nil, err
	}
	return markBreak(vals...), nil
}

func opRecur(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	args, err := rt.evalArgs(expr.Cells[1:], ctx)
	if err != nil {
		return nil, err
	}
	return markRecur(args), nil
}

func (rt *Runtime) evalArgs(exprs []*LExpr, ctx Context) ([]*LVal, error) {
	vals := make([]*LVal, len(exprs))
	for i, expr := range exprs {
		var err error
		vals[i], err = rt.evalValue(expr, ctx)
		if err != nil {
			return nil, err
		}
	}
	return vals, nil
}

func opDefn(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	return rt.define(LUserFun, "defn", expr, ctx)
}

func opDefnr(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	return rt.define(LRecurFun, "defnr", expr, ctx)
}

// define implements defn and defnr.
func (rt *Runtime) define(typ LType, form string, expr *LExpr, ctx Context) (*LVal, error) {
	ns, ok := ctx.(*Namespace)
	if !ok {
		return nil, errPlace(CodeInvalidDefnExpressionPlace, form, "namespace")
	}
	name, err := formName(expr, 4)
	if err != nil {
		return nil, err
	}
	params, err := formParams(expr.Cells[2])
	if err != nil {
		return nil, err
	}
	fun := Fun(typ, name, params, expr.Cells[3], ns)
	if err := ns.Define(name, fun); err != nil {
		return nil, err
	}
	rt.log().Debug("function defined", "namespace", ns.Path, "name", name, "type", typ.String())
	return fun, nil
}

func opFn(rt *Runtime, expr *LExpr, ctx Context) (*LVal, error) {
	if len(expr.Cells) != 3 {
		return nil, errFormArity("fn", len(expr.Cells)-1, 2)
	}
	params, err := formParams(expr.Cells[1])
	if err != nil {
		return nil, err
	}
	return Fun(LAnonFun, "", params, expr.Cells[2], ctx), nil
}

// formName validates that expr has n cells and that its second cell is a
// plain identifier, which it returns.
func formName(expr *LExpr, n int) (string, error) {
	if len(expr.Cells) != n {
		return "", errFormArity(expr.Head(), len(expr.Cells)-1, n-1)
	}
	name := expr.Cells[1]
	if name.Type != ExprIdent || strings.Contains(name.Str, ".") || IsKeyword(name.Str) {
		return "", errInvalidExpression(expr, "invalid name")
	}
	return name.Str, nil
}

// formParams returns the names in a parameter list.
func formParams(expr *LExpr) ([]string, error) {
	if expr.Type != ExprList {
		return nil, errInvalidExpression(expr, "parameters must be a list")
	}
	params := make([]string, len(expr.Cells))
	seen := make(map[string]bool, len(expr.Cells))
	for i, p := range expr.Cells {
		if p.Type != ExprIdent || strings.Contains(p.Str, ".") || IsKeyword(p.Str) {
			return nil, errInvalidExpression(expr, "invalid parameter")
		}
		if seen[p.Str] {
			return nil, errInvalidExpression(expr, "duplicate parameter")
		}
		seen[p.Str] = true
		params[i] = p.Str
	}
	return params, nil
}

func errPlace(code string, form string, want string) error {
	return SyntaxError(code, ErrorData{"form": form},
		"%s expression must be evaluated in a %s", form, want)
}

func errFormArity(form string, actual int, expect int) error {
	return errArity(form, actual, expect)
}

func errLoopArgs(actual int, expect int) error {
	return SyntaxError(CodeIncorrectNumberOfLoopArgs, ErrorData{"actual": actual, "expect": expect},
		"loop expects %d arguments but got %d", expect, actual)
}
