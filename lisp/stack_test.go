// Copyright © 2026 The sexp authors

package lisp

import (
	"bytes"
	"testing"

	"github.com/sexplang/sexp/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallStack(t *testing.T) {
	ns := NewNamespace("user")
	f := Fun(LUserFun, "f", []string{"x"}, NumberExpr(1), ns)
	g := Fun(LAnonFun, "", nil, NumberExpr(1), NewScope(ns))
	add := Native("add", 2, nil)
	add.Fun.Namespace = "native.i64"

	s := &CallStack{}
	assert.Nil(t, s.Top())
	require.NoError(t, s.Push(&token.Location{File: "test", Line: 1, Col: 1}, f))
	require.NoError(t, s.Push(&token.Location{File: "test", Line: 2, Col: 3}, g))
	require.NoError(t, s.Push(nil, add))
	assert.Equal(t, 3, s.Height())
	assert.Equal(t, "native.i64.add", s.Top().QualifiedFunName())

	var buf bytes.Buffer
	_, err := s.DebugPrint(&buf)
	require.NoError(t, err)
	assert.Equal(t, `Stack Trace [3 frames -- entrypoint last]:
  height 2: native.i64.add [native-function]
  height 1: test:2:3: lambda [lambda]
  height 0: test:1:1: user.f [function]
`, buf.String())

	cp := s.Copy()
	frame := s.Pop()
	assert.Equal(t, "add", frame.Name)
	assert.Equal(t, 2, s.Height())
	assert.Equal(t, 3, cp.Height())

	s.Reset()
	assert.Equal(t, 0, s.Height())
	assert.Panics(t, func() { s.Pop() })
}

func TestCallStackHeight(t *testing.T) {
	f := Native("f", 0, nil)
	s := &CallStack{MaxHeightPhysical: 2}
	require.NoError(t, s.Push(nil, f))
	require.NoError(t, s.Push(nil, f))
	err := s.Push(nil, f)
	lerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStackOverflow, lerr.Code)
	assert.Equal(t, ErrorData{"height": 3}, lerr.Data)
	assert.Equal(t, 2, s.Height())

	s.Pop()
	assert.NoError(t, s.Push(nil, f))
}
