// Copyright © 2026 The sexp authors

package lint

import (
	"strings"

	"github.com/sexplang/sexp/lisp"
)

// Place is the kind of context a form is evaluated in.
type Place int

const (
	// PlaceNamespace forms are evaluated against a namespace: the top level
	// of a file and the body of a namespace form.
	PlaceNamespace Place = iota
	// PlaceScope forms are evaluated against a local scope: the bodies of
	// do, functions and loops.
	PlaceScope
)

// Form is a list expression evaluated as a special form or an application.
type Form struct {
	Expr  *lisp.LExpr
	Place Place
	// Namespace is the path of the innermost enclosing namespace form as
	// written, or "" outside any namespace form.
	Namespace string
	// Top is true for the direct elements of a file or a namespace body.
	Top   bool
	Depth int
}

// WalkForms calls fn for every form in exprs, depth-first.  Parameter lists
// and the argument list of loop are not forms, though the expressions inside
// a loop argument list are.
func WalkForms(exprs []*lisp.LExpr, fn func(f *Form)) {
	for _, expr := range exprs {
		walkForm(expr, PlaceNamespace, "", true, 0, fn)
	}
}

func walkForm(expr *lisp.LExpr, place Place, ns string, top bool, depth int, fn func(*Form)) {
	if expr.Type != lisp.ExprList || len(expr.Cells) == 0 {
		return
	}
	fn(&Form{Expr: expr, Place: place, Namespace: ns, Top: top, Depth: depth})

	cells := expr.Cells
	walk := func(exprs []*lisp.LExpr, place Place, ns string, top bool) {
		for _, c := range exprs {
			walkForm(c, place, ns, top, depth+1, fn)
		}
	}
	switch expr.Head() {
	case "namespace":
		if len(cells) > 1 && cells[1].Type == lisp.ExprIdent {
			ns = cells[1].Str
		}
		walk(tail(cells, 2), PlaceNamespace, ns, true)
	case "defn", "defnr":
		walk(tail(cells, 3), PlaceScope, ns, false)
	case "fn":
		walk(tail(cells, 2), PlaceScope, ns, false)
	case "loop":
		if len(cells) > 2 && cells[2].Type == lisp.ExprList {
			walk(cells[2].Cells, place, ns, false)
		}
		walk(tail(cells, 3), PlaceScope, ns, false)
	case "do":
		walk(cells[1:], PlaceScope, ns, false)
	case "use":
	default:
		walk(cells, place, ns, false)
	}
}

func tail(cells []*lisp.LExpr, n int) []*lisp.LExpr {
	if len(cells) < n {
		return nil
	}
	return cells[n:]
}

// ArgCount returns the number of arguments in a form (excluding the head).
func ArgCount(expr *lisp.LExpr) int {
	if len(expr.Cells) <= 1 {
		return 0
	}
	return len(expr.Cells) - 1
}

// isPlainName reports whether expr can name a definition or a parameter.
func isPlainName(expr *lisp.LExpr) bool {
	return expr.Type == lisp.ExprIdent && !strings.Contains(expr.Str, ".") && !lisp.IsKeyword(expr.Str)
}
