// Copyright © 2026 The sexp authors

package rdparser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/lexer"
	"github.com/sexplang/sexp/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser(t *testing.T) {
	tests := []struct {
		source string
		output string
		typ    lisp.ExprType
	}{
		{`0`, `0`, lisp.ExprNumber},
		{`12`, `12`, lisp.ExprNumber},
		{`0.3`, `0.3`, lisp.ExprNumber},
		{`-1`, `-1`, lisp.ExprNumber},
		{`1e3`, `1000`, lisp.ExprNumber},
		{`0x10`, `16`, lisp.ExprNumber},
		{`0b101`, `5`, lisp.ExprNumber},
		{`-Infinity`, `-Infinity`, lisp.ExprNumber},
		{`abc`, `abc`, lisp.ExprIdent},
		{`abc?`, `abc?`, lisp.ExprIdent},
		{`nan`, `nan`, lisp.ExprIdent},
		{`0x1g`, `0x1g`, lisp.ExprIdent},
		{`foo.bar.baz`, `foo.bar.baz`, lisp.ExprIdent},
		{`()`, `()`, lisp.ExprList},
		{`(1 2 3)`, `(1 2 3)`, lisp.ExprList},
		{`(foo)`, `(foo)`, lisp.ExprList},
		{`(a (b (c)) ())`, `(a (b (c)) ())`, lisp.ExprList},
		{"(native.i64.add\n\t1\r\n  2)", `(native.i64.add 1 2)`, lisp.ExprList},
	}

	for i, test := range tests {
		name := fmt.Sprintf("test%d", i)
		s := token.NewScanner(name, strings.NewReader(test.source))
		p := New(s)
		exprs, err := p.ParseProgram()
		if !assert.NoError(t, err, "test %d", i) {
			continue
		}
		if !assert.Len(t, exprs, 1, "test %d", i) {
			continue
		}
		testExprLocation(t, exprs[0])
		assert.Equal(t, test.output, exprs[0].String(), "test %d", i)
		assert.Equal(t, test.typ, exprs[0].Type, "test %d", i)
	}
}

func TestParseProgram(t *testing.T) {
	p := New(token.NewScanner("test", strings.NewReader(`
		(const a 1)
		(defn f (x) x)
		a
	`)))
	exprs, err := p.ParseProgram()
	require.NoError(t, err)
	require.Len(t, exprs, 3)
	assert.Equal(t, "(const a 1)", exprs[0].String())
	assert.Equal(t, "test:2:3", exprs[0].Source.String())
	assert.Equal(t, "(defn f (x) x)", exprs[1].String())
	assert.Equal(t, "a", exprs[2].String())
	assert.Equal(t, "test:4:3", exprs[2].Source.String())

	p = New(token.NewScanner("empty", strings.NewReader(" \n ")))
	exprs, err = p.ParseProgram()
	require.NoError(t, err)
	assert.Len(t, exprs, 0)
}

func TestParseTokens(t *testing.T) {
	toks, err := lexer.Tokenize("(a b) c (d)")
	require.NoError(t, err)

	expr, rest, err := Parse(toks)
	require.NoError(t, err)
	assert.Equal(t, "(a b)", expr.String())
	assert.Len(t, rest, 4)

	expr, rest, err = Parse(rest)
	require.NoError(t, err)
	assert.Equal(t, "c", expr.String())
	assert.Len(t, rest, 3)

	expr, rest, err = Parse(rest)
	require.NoError(t, err)
	assert.Equal(t, "(d)", expr.String())
	assert.Len(t, rest, 0)

	_, _, err = Parse(rest)
	assert.Equal(t, lisp.CodeUnexpectedEOF, lisp.ErrorCode(err))

	toks, err = lexer.Tokenize(") a")
	require.NoError(t, err)
	_, _, err = Parse(toks)
	assert.Equal(t, lisp.CodeUnexpectedToken, lisp.ErrorCode(err))

	toks, err = lexer.Tokenize("(a (b)")
	require.NoError(t, err)
	_, _, err = Parse(toks)
	assert.Equal(t, lisp.CodeUnmatchedParen, lisp.ErrorCode(err))
}

func TestParseDeterministic(t *testing.T) {
	sources := []string{
		`42`,
		`-0.5`,
		`ident.with.dots`,
		`()`,
		`(loop (i accu) (1 0) (if (native.i64.gt_s i 100) (break accu) (recur (native.i64.add i 1) (native.i64.add accu i))))`,
		`(namespace foo (const a 10) (defn f (x y) (do (let z x) (set z y) z)))`,
	}
	for i, src := range sources {
		toks, err := lexer.Tokenize(src)
		require.NoError(t, err, "test %d", i)
		first, rest, err := Parse(toks)
		require.NoError(t, err, "test %d", i)
		assert.Len(t, rest, 0, "test %d", i)
		for j := 0; j < 3; j++ {
			toks, err := lexer.Tokenize(src)
			require.NoError(t, err)
			again, _, err := Parse(toks)
			require.NoError(t, err)
			assert.True(t, first.Equal(again), "test %d: %v != %v", i, first, again)
		}
		// printing and re-reading preserves the structure
		toks, err = lexer.Tokenize(first.String())
		require.NoError(t, err, "test %d", i)
		printed, _, err := Parse(toks)
		require.NoError(t, err, "test %d", i)
		assert.True(t, first.Equal(printed), "test %d: %v != %v", i, first, printed)
	}
}

func testExprLocation(t *testing.T, expr *lisp.LExpr) {
	if expr.Source == nil {
		t.Errorf("expression missing source location: %v", expr)
	}
	for _, c := range expr.Cells {
		testExprLocation(t, c)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		source string
		errmsg string
	}{
		{`(1 2 3`, `test0:1:1: UNMATCHED_PAREN: unmatched (`},
		{`(1 2)
  )`, `test1:2:3: UNEXPECTED_TOKEN: unexpected token: ) ")"`},
		{"(a \x01)", `test2:1:4: INVALID_CHAR: invalid character '\x01'`},
		{"(a (b\n  (c)", `test3:1:4: UNMATCHED_PAREN: unmatched (`},
	}

	for i, test := range tests {
		name := fmt.Sprintf("test%d", i)
		p := New(token.NewScanner(name, strings.NewReader(test.source)))
		_, err := p.ParseProgram()
		if !assert.Error(t, err, "test %d", i) {
			continue
		}
		assert.Equal(t, test.errmsg, err.Error(), "test %d", i)
	}
}

func TestReader(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("file", strings.NewReader("(a) b"))
	require.NoError(t, err)
	assert.Len(t, exprs, 2)

	lr, ok := r.(lisp.LocationReader)
	require.True(t, ok)
	exprs, err = lr.ReadLocation("file", "/tmp/file.sexp", strings.NewReader("(a)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, "/tmp/file.sexp", exprs[0].Source.Path)
	assert.Equal(t, "file", exprs[0].Source.File)
}
