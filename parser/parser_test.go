// Copyright © 2026 The sexp authors

package parser

import (
	"strings"
	"testing"

	"github.com/sexplang/sexp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader_Standard(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader("(native.i64.add 1 2)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, lisp.ExprList, exprs[0].Type)
	_, ok := r.(lisp.LocationReader)
	assert.True(t, ok)
}

func TestNewReader_Combinator(t *testing.T) {
	r := NewReader(WithCombinator())
	exprs, err := r.Read("test", strings.NewReader("(native.i64.add 1 2) 42"))
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, lisp.ExprList, exprs[0].Type)
	assert.Equal(t, lisp.ExprNumber, exprs[1].Type)
}
