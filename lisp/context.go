// Copyright © 2026 The sexp authors

package lisp

import (
	"sort"
	"sync"
)

// Context is an identifier container that expressions are evaluated
// against.  There are two kinds of Context.  A *Namespace is flat and never
// consults another container.  A *Scope chains to a parent Context and
// inherits its identifiers.
type Context interface {
	// Define binds name to v at this level.  Define fails if name is already
	// bound at this level.
	Define(name string, v *LVal) error
	// Exists reports whether name is visible from this context.
	Exists(name string) bool
	// Lookup returns the value bound to name.
	Lookup(name string) (*LVal, error)
	// Namespace returns the Namespace at the root of the context chain.
	Namespace() *Namespace
}

func errAlreadyExist(name string) error {
	return IdentifierError(CodeIdentifierAlreadyExist, ErrorData{"name": name},
		"identifier already exists: %s", name)
}

func errNotFound(name string) error {
	return IdentifierError(CodeIdentifierNotFound, ErrorData{"name": name},
		"identifier not found: %s", name)
}

// Namespace is a flat identifier container addressed by a dotted path.  It
// holds constants, top-level functions and native functions.  A Namespace is
// safe for concurrent use.
type Namespace struct {
	Path string
	// Module is the name substituted for the module. prefix of relative
	// names evaluated in the namespace.
	Module string

	mu  sync.RWMutex
	ids map[string]*LVal
}

var _ Context = (*Namespace)(nil)

// NewNamespace returns an empty namespace.  Namespaces are normally created
// through a Registry.
func NewNamespace(path string) *Namespace {
	return &Namespace{
		Path:   path,
		Module: path,
		ids:    make(map[string]*LVal),
	}
}

func (ns *Namespace) Define(name string, v *LVal) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, ok := ns.ids[name]; ok {
		return errAlreadyExist(name)
	}
	ns.ids[name] = v
	return nil
}

func (ns *Namespace) Exists(name string) bool {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	_, ok := ns.ids[name]
	return ok
}

func (ns *Namespace) Lookup(name string) (*LVal, error) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.ids[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return v, nil
}

func (ns *Namespace) Namespace() *Namespace {
	return ns
}

// Names returns the sorted names of all identifiers in ns.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	names := make([]string, 0, len(ns.ids))
	for name := range ns.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefineNative binds a native function to name.
func (ns *Namespace) DefineNative(name string, arity int, fn LBuiltin, doc string) error {
	v := Native(name, arity, fn)
	v.Fun.Namespace = ns.Path
	v.Fun.Doc = doc
	return ns.Define(name, v)
}

// Scope is a lexical identifier container created for each do block, loop
// iteration and function activation.  Lookups that fail in a Scope continue
// in its parent.  A Scope does not own its parent and a parent never
// references its children.
type Scope struct {
	parent Context
	ns     *Namespace
	vars   map[string]*LVal
}

var _ Context = (*Scope)(nil)

// NewScope returns an empty Scope whose parent is parent.
func NewScope(parent Context) *Scope {
	return &Scope{
		parent: parent,
		ns:     parent.Namespace(),
		vars:   make(map[string]*LVal),
	}
}

// Parent returns the parent context of s.
func (s *Scope) Parent() Context {
	return s.parent
}

// Define binds name in s.  Define does not consider the parent of s, so an
// identifier of an enclosing context may be shadowed.
func (s *Scope) Define(name string, v *LVal) error {
	if _, ok := s.vars[name]; ok {
		return errAlreadyExist(name)
	}
	s.vars[name] = v
	return nil
}

func (s *Scope) Exists(name string) bool {
	_, err := s.Lookup(name)
	return err == nil
}

func (s *Scope) Lookup(name string) (*LVal, error) {
	for sc := s; ; {
		if v, ok := sc.vars[name]; ok {
			return v, nil
		}
		switch p := sc.parent.(type) {
		case *Scope:
			sc = p
		case nil:
			return nil, errNotFound(name)
		default:
			return p.Lookup(name)
		}
	}
}

func (s *Scope) Namespace() *Namespace {
	return s.ns
}

// Assign mutates the nearest binding of name in the chain of scopes starting
// at s.  Assign never creates a binding and never modifies a Namespace.
func (s *Scope) Assign(name string, v *LVal) error {
	for sc := s; sc != nil; {
		if _, ok := sc.vars[name]; ok {
			sc.vars[name] = v
			return nil
		}
		p, ok := sc.parent.(*Scope)
		if !ok {
			break
		}
		sc = p
	}
	return errNotFound(name)
}
