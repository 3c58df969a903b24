// Copyright © 2026 The sexp authors

package profiler

import (
	"strings"

	"github.com/sexplang/sexp/lisp"
)

// SkipFilter returns true for functions which should not be traced.
type SkipFilter func(fun *lisp.LVal) bool

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithNamespaceFilter restricts tracing to functions defined in the given
// namespaces or in namespaces nested below them.
func WithNamespaceFilter(paths ...string) Option {
	return WithSkipFilter(func(fun *lisp.LVal) bool {
		return !inNamespace(fun.Fun.Namespace, paths)
	})
}

func inNamespace(ns string, paths []string) bool {
	for _, path := range paths {
		if ns == path || strings.HasPrefix(ns, path+".") {
			return true
		}
	}
	return false
}
