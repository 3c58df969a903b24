// Copyright © 2026 The sexp authors

package diagnostic

import (
	"fmt"

	"github.com/sexplang/sexp/lisp"
)

// hintFunc derives a help line from the structured payload of an error.  It
// returns the empty string when the payload lacks what it needs.
type hintFunc func(data lisp.ErrorData) string

var hints = map[string]hintFunc{
	lisp.CodeIdentifierNotFound: func(data lisp.ErrorData) string {
		return withString(data, "name", "define %s with const, let or defn before it is used")
	},
	lisp.CodeIdentifierAlreadyExist: func(data lisp.ErrorData) string {
		return withString(data, "name", "%s is already bound at this level; set changes an existing let binding")
	},
	lisp.CodeNamespaceNotFound: func(data lisp.ErrorData) string {
		path, ok := data["namePath"].(string)
		if !ok {
			return ""
		}
		return fmt.Sprintf("create it with (namespace %s ...) before referring to its names", path)
	},
	lisp.CodeIncorrectNumberOfParameters: func(data lisp.ErrorData) string {
		name, _ := data["name"].(string)
		expect, ok := data["expect"].(int)
		if name == "" || !ok {
			return ""
		}
		return fmt.Sprintf("%s takes %s", name, plural(expect, "argument"))
	},
	lisp.CodeIncorrectNumberOfLoopArgs: func(data lisp.ErrorData) string {
		expect, ok := data["expect"].(int)
		if !ok {
			return ""
		}
		return fmt.Sprintf("give one value for each of the %s of the loop", plural(expect, "parameter"))
	},
	lisp.CodeInvalidConstExpressionPlace: placeHint("only at namespace level, not inside do, loop or a function body"),
	lisp.CodeInvalidDefnExpressionPlace:  placeHint("only at namespace level, not inside do, loop or a function body"),
	lisp.CodeInvalidUseExpressionPlace:   placeHint("only at namespace level"),
	lisp.CodeInvalidLetExpressionPlace:   placeHint("only inside do, loop or a function body; use const at namespace level"),
	lisp.CodeInvalidSetExpressionPlace:   placeHint("only inside do, loop or a function body, on a name bound by let or a parameter"),
	lisp.CodeRelativePathError: func(data lisp.ErrorData) string {
		return withString(data, "relativePath", "each parent. ascends one namespace level and %s ascends past the top")
	},
	lisp.CodeInvalidLoopBody:                        constHint("end every branch of the body with (break value) or (recur args...)"),
	lisp.CodeInvalidLoopControlPlace:                constHint("break and recur may only end a branch of a loop or defnr body"),
	lisp.CodeRequireLoopReturnOneValue:              constHint("break takes exactly one value"),
	lisp.CodeRequireRecursionFunctionReturnOneValue: constHint("break takes exactly one value"),
	lisp.CodeUnmatchedParen:                         constHint("the list opened here is never closed"),
	lisp.CodeIdentifierNotAFunction: func(data lisp.ErrorData) string {
		return withString(data, "name", "%s is not a function and cannot be applied")
	},
	lisp.CodeNotImplement: func(data lisp.ErrorData) string {
		return withString(data, "name", "%s is declared but not implemented; native.i64 and native.f64 hold the implemented operations")
	},
	lisp.CodeStackOverflow: constHint("iterate with loop or defnr, which run in constant stack space"),
}

// Hint returns a help line for err derived from its code and data, or the
// empty string.
func Hint(err error) string {
	e, ok := lisp.AsError(err)
	if !ok {
		return ""
	}
	fn, ok := hints[e.Code]
	if !ok {
		return ""
	}
	return fn(e.Data)
}

func constHint(text string) hintFunc {
	return func(lisp.ErrorData) string { return text }
}

func placeHint(where string) hintFunc {
	return func(data lisp.ErrorData) string {
		return withString(data, "form", "%s is valid "+where)
	}
}

func withString(data lisp.ErrorData, key string, format string) string {
	s, ok := data[key].(string)
	if !ok || s == "" {
		return ""
	}
	return fmt.Sprintf(format, s)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
