// Copyright © 2026 The sexp authors

package lisp

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Relative path prefixes recognized by NormalizeFullName.
const (
	prefixModule  = "module."
	prefixCurrent = "current."
	prefixParent  = "parent."
)

// Registry owns every Namespace of one interpreter instance, keyed by dotted
// path.  A Registry is safe for concurrent use.
type Registry struct {
	Logger *slog.Logger

	mu         sync.RWMutex
	namespaces map[string]*Namespace
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		namespaces: make(map[string]*Namespace),
	}
}

// CreateNamespace returns the namespace at path, creating it if necessary.
// A namespace created by CreateNamespace is the root of its own module.
func (r *Registry) CreateNamespace(path string) *Namespace {
	return r.createNamespace(path, path)
}

// createNamespace returns the namespace at path.  If the namespace does not
// exist it is created as a member of module.
func (r *Registry) createNamespace(path string, module string) *Namespace {
	r.mu.RLock()
	ns, ok := r.namespaces[path]
	r.mu.RUnlock()
	if ok {
		return ns
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ns, ok := r.namespaces[path]; ok {
		return ns
	}
	ns = NewNamespace(path)
	ns.Module = module
	r.namespaces[path] = ns
	if r.Logger != nil {
		r.Logger.Debug("namespace created", "path", path, "module", module)
	}
	return ns
}

// GetNamespace returns the namespace at path.
func (r *Registry) GetNamespace(path string) (*Namespace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.namespaces[path]
	if !ok {
		return nil, IdentifierError(CodeNamespaceNotFound, ErrorData{"namePath": path},
			"namespace not found: %s", path)
	}
	return ns, nil
}

// HasNamespace reports whether a namespace exists at path.
func (r *Registry) HasNamespace(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.namespaces[path]
	return ok
}

// Paths returns the sorted paths of all namespaces.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.namespaces))
	for path := range r.namespaces {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Lookup resolves a full name of the form namePath.name.
func (r *Registry) Lookup(fullName string) (*LVal, error) {
	path, name, err := SplitFullName(fullName)
	if err != nil {
		return nil, err
	}
	ns, err := r.GetNamespace(path)
	if err != nil {
		return nil, err
	}
	return ns.Lookup(name)
}

// SplitFullName splits fullName at its last dot into a namespace path and an
// identifier name.  Neither part may be empty.
func SplitFullName(fullName string) (namePath string, name string, err error) {
	pos := strings.LastIndexByte(fullName, '.')
	if pos <= 0 || pos == len(fullName)-1 {
		return "", "", SyntaxError(CodeInvalidFullName, ErrorData{"fullName": fullName},
			"invalid identifier full name: %s", fullName)
	}
	return fullName[:pos], fullName[pos+1:], nil
}

// IsRelativeName reports whether fullName begins with one of the relative
// path prefixes module., current. or parent.
func IsRelativeName(fullName string) bool {
	return strings.HasPrefix(fullName, prefixModule) ||
		strings.HasPrefix(fullName, prefixCurrent) ||
		strings.HasPrefix(fullName, prefixParent)
}

// NormalizeFullName rewrites a relative full name into an absolute one.  A
// module. prefix is replaced by moduleName, current. by currentPath, and each
// leading parent. strips one trailing component of currentPath.  Names
// without a relative prefix are returned unchanged.
func NormalizeFullName(fullName string, moduleName string, currentPath string) (string, error) {
	switch {
	case strings.HasPrefix(fullName, prefixModule):
		return moduleName + fullName[len(prefixModule)-1:], nil
	case strings.HasPrefix(fullName, prefixCurrent):
		return currentPath + fullName[len(prefixCurrent)-1:], nil
	case strings.HasPrefix(fullName, prefixParent):
		rest := fullName
		prefix := currentPath
		for strings.HasPrefix(rest, prefixParent) {
			rest = rest[len(prefixParent):]
			pos := strings.LastIndexByte(prefix, '.')
			if pos < 0 {
				return "", SyntaxError(CodeRelativePathError, ErrorData{"relativePath": fullName},
					"relative path out of range: %s", fullName)
			}
			prefix = prefix[:pos]
		}
		return prefix + "." + rest, nil
	}
	return fullName, nil
}
