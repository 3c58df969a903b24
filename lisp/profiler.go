// Copyright © 2026 The sexp authors

package lisp

import "github.com/sexplang/sexp/parser/token"

// Version is the interpreter version reported by tools.
const Version = "0.1"

// Profiler observes function applications.  Implementations are found in
// package lisp/x/profiler.
type Profiler interface {
	// Start marks the beginning of an application of fun at the call site
	// src.  The returned function marks its end.
	Start(fun *LVal, src *token.Location) func()
}
