// Copyright © 2026 The sexp authors

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespace(t *testing.T) {
	ns := NewNamespace("foo.bar")
	assert.Equal(t, "foo.bar", ns.Path)
	assert.Equal(t, "foo.bar", ns.Module)
	assert.Same(t, ns, ns.Namespace())

	require.NoError(t, ns.Define("a", Number(1)))
	assert.True(t, ns.Exists("a"))
	assert.False(t, ns.Exists("b"))

	err := ns.Define("a", Number(2))
	assert.Equal(t, CodeIdentifierAlreadyExist, ErrorCode(err))
	v, err := ns.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num)

	_, err = ns.Lookup("b")
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindIdentifier, lerr.Kind)
	assert.Equal(t, ErrorData{"name": "b"}, lerr.Data)

	require.NoError(t, ns.Define("c", Number(3)))
	assert.Equal(t, []string{"a", "c"}, ns.Names())
}

func TestScope(t *testing.T) {
	ns := NewNamespace("user")
	require.NoError(t, ns.Define("g", Number(0)))

	outer := NewScope(ns)
	inner := NewScope(outer)
	assert.Same(t, ns, inner.Namespace())
	assert.Equal(t, outer, inner.Parent())
	assert.Equal(t, Context(ns), outer.Parent())

	require.NoError(t, outer.Define("a", Number(1)))
	require.NoError(t, inner.Define("b", Number(2)))

	// lookups walk the chain through to the namespace
	for name, want := range map[string]float64{"a": 1, "b": 2, "g": 0} {
		v, err := inner.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, v.Num, name)
		assert.True(t, inner.Exists(name), name)
	}
	// parents never see their children
	_, err := outer.Lookup("b")
	assert.Equal(t, CodeIdentifierNotFound, ErrorCode(err))
	assert.False(t, outer.Exists("b"))

	// shadowing is allowed in a child but not at the same level
	require.NoError(t, inner.Define("a", Number(10)))
	err = inner.Define("a", Number(11))
	assert.Equal(t, CodeIdentifierAlreadyExist, ErrorCode(err))
	v, err := inner.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, 10.0, v.Num)
	v, err = outer.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Num)
}

func TestScopeAssign(t *testing.T) {
	ns := NewNamespace("user")
	require.NoError(t, ns.Define("g", Number(0)))
	outer := NewScope(ns)
	middle := NewScope(outer)
	inner := NewScope(middle)
	require.NoError(t, outer.Define("a", Number(1)))
	require.NoError(t, middle.Define("a", Number(2)))

	// the nearest binding is mutated
	require.NoError(t, inner.Assign("a", Number(3)))
	v, _ := middle.Lookup("a")
	assert.Equal(t, 3.0, v.Num)
	v, _ = outer.Lookup("a")
	assert.Equal(t, 1.0, v.Num)

	// assignment never creates a binding
	err := inner.Assign("z", Number(1))
	assert.Equal(t, CodeIdentifierNotFound, ErrorCode(err))
	assert.False(t, inner.Exists("z"))

	// assignment never reaches a namespace
	err = inner.Assign("g", Number(1))
	assert.Equal(t, CodeIdentifierNotFound, ErrorCode(err))
	v, _ = ns.Lookup("g")
	assert.Equal(t, 0.0, v.Num)
}

func TestDefineNative(t *testing.T) {
	ns := NewNamespace("ext")
	err := ns.DefineNative("twice", 1, func(args []*LVal) (*LVal, error) {
		return Number(2 * args[0].Num), nil
	}, "Doubles a number.")
	require.NoError(t, err)
	v, err := ns.Lookup("twice")
	require.NoError(t, err)
	assert.Equal(t, LNative, v.Type)
	assert.Equal(t, 1, v.Fun.Arity())
	assert.Equal(t, "ext.twice", v.Fun.QualifiedName())
	assert.Equal(t, "Doubles a number.", v.Fun.Doc)
	assert.Equal(t, "<native-function ext.twice>", v.String())
}
