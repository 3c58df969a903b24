// Copyright © 2026 The sexp authors

// Package help renders documentation for the special forms of the language
// and the functions registered in an interpreter.
package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sexplang/sexp/lisp"
)

// Width is the column at which documentation text is wrapped.
const Width = 72

// RenderNamespaceList writes a summary of all namespaces in reg to w.  Each
// namespace is listed with the number of names it holds.
func RenderNamespaceList(w io.Writer, reg *lisp.Registry) error {
	for _, path := range reg.Paths() {
		ns, err := reg.GetNamespace(path)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %-12s (%d names)\n", path, len(ns.Names())); err != nil {
			return err
		}
	}
	return nil
}

// RenderNamespace writes to w documentation for every name in the namespace
// at path.
func RenderNamespace(w io.Writer, reg *lisp.Registry, path string) error {
	ns, err := reg.GetNamespace(path)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "namespace %s\n\n", ns.Path); err != nil {
		return err
	}
	for i, name := range ns.Names() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		v, err := ns.Lookup(name)
		if err != nil {
			return err
		}
		if err := renderVal(w, name, v); err != nil {
			return fmt.Errorf("%s.%s: %w", path, name, err)
		}
	}
	return nil
}

// RenderName writes to w documentation for query, which is a keyword, a full
// name, or a name in the default namespace of env.
func RenderName(w io.Writer, env *lisp.Env, query string) error {
	for _, op := range lisp.SpecialOps() {
		if op.Name == query {
			return renderSpecialOp(w, op)
		}
	}
	var v *lisp.LVal
	var err error
	if strings.Contains(query, ".") {
		v, err = env.Registry().Lookup(query)
	} else {
		v, err = env.User.Lookup(query)
	}
	if err != nil {
		return err
	}
	return renderVal(w, query, v)
}

// RenderSpecialOps writes to w documentation for every special form.
func RenderSpecialOps(w io.Writer) error {
	for i, op := range lisp.SpecialOps() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderSpecialOp(w, op); err != nil {
			return err
		}
	}
	return nil
}

func renderSpecialOp(w io.Writer, op *lisp.SpecialOp) error {
	if _, err := fmt.Fprintf(w, "special-op %s\n", op.Usage); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, cleanDocstring(op.Doc))
	return err
}

func renderVal(w io.Writer, name string, v *lisp.LVal) error {
	if !v.IsFunction() {
		_, err := fmt.Fprintf(w, "%s %s %v\n", v.Type, name, v)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", v.Type, signature(name, v.Fun)); err != nil {
		return err
	}
	if doc := cleanDocstring(v.Fun.Doc); doc != "" {
		_, err := fmt.Fprintln(w, doc)
		return err
	}
	return nil
}

// signature returns the form of an application of fun.  Natives have no
// parameter names so their arguments are numbered.
func signature(name string, fun *lisp.FunData) string {
	parts := []string{name}
	if fun.Builtin != nil {
		for i := 0; i < fun.Arity(); i++ {
			parts = append(parts, fmt.Sprintf("x%d", i+1))
		}
	} else {
		parts = append(parts, fun.Params...)
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	if doc[0] == '\n' {
		doc = doc[1:]
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), Width), 2)
	return strings.TrimSuffix(doc, "\n")
}

// dedentDoc removes common leading whitespace from all non-empty lines.  The
// first line of a raw string literal has no indentation of its own and is
// ignored when computing the common prefix.  Tabs are normalized to spaces.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")
	minWS := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if minWS <= 0 {
		return strings.Join(lines, "\n")
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		} else {
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
