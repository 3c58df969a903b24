// Copyright © 2026 The sexp authors

package lint

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
)

// AnalyzerIfArity checks that `if` has exactly 3 arguments (condition, then, else).
var AnalyzerIfArity = &Analyzer{
	Name:     "if-arity",
	Doc:      "Check that `if` has exactly 3 arguments: condition, then-branch, else-branch.\n\nThere is no one-armed if; every if must produce a value on both branches.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkForms(pass.Exprs, func(f *Form) {
			if f.Expr.Head() != "if" {
				return
			}
			argc := ArgCount(f.Expr)
			if argc == 3 {
				return
			}
			if argc < 3 {
				pass.Reportf(f.Expr.Source, "if requires 3 arguments (condition, then, else), got too few (%d)", argc)
			} else {
				pass.Reportf(f.Expr.Source, "if requires 3 arguments (condition, then, else), got too many (%d)", argc)
			}
		})
		return nil
	},
}

// AnalyzerDefnStructure checks for malformed function definitions.
var AnalyzerDefnStructure = &Analyzer{
	Name:     "defn-structure",
	Doc:      "Check for malformed `defn`, `defnr` and `fn` forms.\n\nA definition requires a plain name, a list of distinct plain parameter names, and exactly one body expression.  Use do to sequence several expressions.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkForms(pass.Exprs, func(f *Form) {
			expr := f.Expr
			head := expr.Head()
			var params *lisp.LExpr
			switch head {
			case "defn", "defnr":
				if argc := ArgCount(expr); argc != 3 {
					pass.Reportf(expr.Source, "%s requires a name, a parameter list and a body (got %d arguments)", head, argc)
					return
				}
				if name := expr.Cells[1]; !isPlainName(name) {
					pass.Reportf(locationOf(name, expr), "%s name must be an identifier without dots: %s", head, name)
				}
				params = expr.Cells[2]
			case "fn":
				if argc := ArgCount(expr); argc != 2 {
					pass.Reportf(expr.Source, "fn requires a parameter list and a body (got %d arguments)", argc)
					return
				}
				params = expr.Cells[1]
			default:
				return
			}
			if params.Type != lisp.ExprList {
				pass.Reportf(locationOf(params, expr), "%s parameters must be a list, got %s", head, params.Type)
				return
			}
			seen := make(map[string]bool, len(params.Cells))
			for _, p := range params.Cells {
				if !isPlainName(p) {
					pass.Reportf(locationOf(p, expr), "%s parameter must be an identifier without dots: %s", head, p)
					continue
				}
				if seen[p.Str] {
					pass.Reportf(locationOf(p, expr), "%s parameter %s is repeated", head, p.Str)
				}
				seen[p.Str] = true
			}
		})
		return nil
	},
}

// AnalyzerFormPlace checks that definitions and local bindings appear where
// they can be evaluated.
var AnalyzerFormPlace = &Analyzer{
	Name:     "form-place",
	Doc:      "Check that definitions and bindings are used in the right context.\n\n`const`, `defn`, `defnr` and `use` define names in a namespace and are only valid at the top level of a file or in a namespace body.  `let` and `set` bind local names and are only valid inside do, function and loop bodies.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkForms(pass.Exprs, func(f *Form) {
			switch head := f.Expr.Head(); head {
			case "const", "defn", "defnr", "use":
				if f.Place == PlaceScope {
					pass.Reportf(f.Expr.Source, "%s is only valid at namespace level", head)
				}
			case "let", "set":
				if f.Place == PlaceNamespace {
					pass.Reportf(f.Expr.Source, "%s is only valid inside a do block or a function or loop body", head)
				}
			}
		})
		return nil
	},
}

// AnalyzerLoopControl checks the placement of break and recur.
var AnalyzerLoopControl = &Analyzer{
	Name:     "loop-control",
	Doc:      "Check the placement of `break` and `recur`.\n\nEvery tail branch of a loop or defnr body must end in break or recur, and break and recur may appear nowhere else.  The first problem in each top-level expression is reported.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		for _, expr := range pass.Exprs {
			err := lisp.CheckLoopControl(expr)
			if err == nil {
				continue
			}
			lerr, ok := lisp.AsError(err)
			if !ok {
				return err
			}
			src := lerr.Source
			if src == nil {
				src = expr.Source
			}
			pass.Reportf(src, "%s", lerr.Message)
		}
		return nil
	},
}

// AnalyzerNativeArity checks calls to native functions by their full name.
var AnalyzerNativeArity = &Analyzer{
	Name:     "native-arity",
	Doc:      "Check calls to native functions.\n\nNative functions have fixed arity.  This check catches calls with the wrong number of arguments and calls to names missing from a native namespace.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		natives, err := nativeRegistry()
		if err != nil {
			return err
		}
		WalkForms(pass.Exprs, func(f *Form) {
			name := f.Expr.Head()
			if !strings.Contains(name, ".") || lisp.IsRelativeName(name) {
				return
			}
			path, _, err := lisp.SplitFullName(name)
			if err != nil || !natives.HasNamespace(path) {
				return
			}
			fun, err := natives.Lookup(name)
			if err != nil {
				pass.Reportf(f.Expr.Source, "unknown native function %s", name)
				return
			}
			if argc := ArgCount(f.Expr); argc != fun.Fun.Arity() {
				pass.Reportf(f.Expr.Source, "%s expects %d arguments, got %d", name, fun.Fun.Arity(), argc)
			}
		})
		return nil
	},
}

// AnalyzerRedefinition checks for names defined twice in one namespace.
var AnalyzerRedefinition = &Analyzer{
	Name:     "redefinition",
	Doc:      "Check for names defined more than once in a namespace.\n\nNamespace identifiers are immutable once bound; a second `const`, `defn` or `defnr` of the same name fails at evaluation time.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		defs := make(map[string]*lisp.LExpr)
		WalkForms(pass.Exprs, func(f *Form) {
			switch f.Expr.Head() {
			case "const", "defn", "defnr":
			default:
				return
			}
			if !f.Top || len(f.Expr.Cells) < 2 || !isPlainName(f.Expr.Cells[1]) {
				return
			}
			key := f.Namespace + " " + f.Expr.Cells[1].Str
			prev, ok := defs[key]
			if !ok {
				defs[key] = f.Expr
				return
			}
			d := Diagnostic{
				Pos:     positionOf(f.Expr.Source),
				Message: fmt.Sprintf("%s is already defined in this namespace", f.Expr.Cells[1].Str),
			}
			if prev.Source != nil {
				d.Notes = append(d.Notes, "previous definition at "+prev.Source.String())
			}
			pass.Report(d)
		})
		return nil
	},
}

var (
	nativesOnce sync.Once
	nativeReg   *lisp.Registry
	nativesErr  error
)

// nativeRegistry returns a registry holding only the native namespaces.
func nativeRegistry() (*lisp.Registry, error) {
	nativesOnce.Do(func() {
		nativeReg = lisp.NewRegistry()
		nativesErr = lisp.RegisterNatives(nativeReg)
	})
	return nativeReg, nativesErr
}

// locationOf returns the best source location for a node, falling back to
// the enclosing form.
func locationOf(expr *lisp.LExpr, fallback *lisp.LExpr) *token.Location {
	if expr.Source != nil && expr.Source.Line > 0 {
		return expr.Source
	}
	return fallback.Source
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerIfArity,
		AnalyzerDefnStructure,
		AnalyzerFormPlace,
		AnalyzerLoopControl,
		AnalyzerNativeArity,
		AnalyzerRedefinition,
	}
}

// AnalyzerNames returns the sorted names of all default analyzers.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}
