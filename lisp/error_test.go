// Copyright © 2026 The sexp authors

package lisp_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/sexptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorData(t *testing.T) {
	tests := []struct {
		setup []string
		expr  string
		kind  lisp.ErrorKind
		code  string
		data  lisp.ErrorData
		loc   string
	}{
		{
			setup: []string{`(const b 5)`},
			expr:  `(const b 1)`,
			kind:  lisp.KindIdentifier,
			code:  lisp.CodeIdentifierAlreadyExist,
			data:  lisp.ErrorData{"name": "b"},
			loc:   "eval:1:1",
		},
		{
			expr: `(builtin.val c)`,
			kind: lisp.KindIdentifier,
			code: lisp.CodeIdentifierNotFound,
			data: lisp.ErrorData{"name": "c"},
			loc:  "eval:1:14",
		},
		{
			expr: `(builtin.val foo.a)`,
			kind: lisp.KindIdentifier,
			code: lisp.CodeNamespaceNotFound,
			data: lisp.ErrorData{"namePath": "foo"},
			loc:  "eval:1:14",
		},
		{
			expr: `(do (native.i64.add 1))`,
			kind: lisp.KindSyntax,
			code: lisp.CodeIncorrectNumberOfParameters,
			data: lisp.ErrorData{"name": "native.i64.add", "actual": 1, "expect": 2},
			loc:  "eval:1:5",
		},
		{
			setup: []string{`(defn f (x y) x)`},
			expr:  `(f 1 2 3)`,
			kind:  lisp.KindSyntax,
			code:  lisp.CodeIncorrectNumberOfParameters,
			data:  lisp.ErrorData{"name": "f", "actual": 3, "expect": 2},
			loc:   "eval:1:1",
		},
		{
			expr: `(loop (i j) (1) (break i))`,
			kind: lisp.KindSyntax,
			code: lisp.CodeIncorrectNumberOfLoopArgs,
			data: lisp.ErrorData{"actual": 1, "expect": 2},
			loc:  "eval:1:1",
		},
		{
			expr: `(do (let a 1) (set b 2))`,
			kind: lisp.KindIdentifier,
			code: lisp.CodeIdentifierNotFound,
			data: lisp.ErrorData{"name": "b"},
			loc:  "eval:1:15",
		},
		{
			setup: []string{`(const foo 2)`},
			expr:  `(foo 1 2)`,
			kind:  lisp.KindEval,
			code:  lisp.CodeIdentifierNotAFunction,
			data:  lisp.ErrorData{"name": "foo"},
			loc:   "eval:1:1",
		},
		{
			expr: `(native.i32.add 1 2)`,
			kind: lisp.KindEval,
			code: lisp.CodeNotImplement,
			data: lisp.ErrorData{"name": "native.i32.add"},
			loc:  "eval:1:1",
		},
		{
			expr: `(let a 1)`,
			kind: lisp.KindSyntax,
			code: lisp.CodeInvalidLetExpressionPlace,
			data: lisp.ErrorData{"form": "let"},
			loc:  "eval:1:1",
		},
		{
			setup: []string{`(namespace foo (const a 1))`},
			expr:  `(namespace foo (builtin.val parent.parent.a))`,
			kind:  lisp.KindSyntax,
			code:  lisp.CodeRelativePathError,
			data:  lisp.ErrorData{"relativePath": "parent.parent.a"},
			loc:   "eval:1:29",
		},
		{
			expr: `(loop (i) (0) (if 1 (break i) i))`,
			kind: lisp.KindSyntax,
			code: lisp.CodeInvalidLoopBody,
			data: lisp.ErrorData{"form": "i"},
			loc:  "eval:1:31",
		},
		{
			expr: `(do (recur 1) 2)`,
			kind: lisp.KindSyntax,
			code: lisp.CodeInvalidLoopControlPlace,
			data: lisp.ErrorData{"form": "recur"},
			loc:  "eval:1:5",
		},
	}
	for i, test := range tests {
		env := sexptest.NewEnv(t)
		for _, expr := range test.setup {
			_, err := env.EvalString(expr)
			require.NoError(t, err, "test %d", i)
		}
		_, err := env.EvalString(test.expr)
		lerr, ok := lisp.AsError(err)
		if !assert.True(t, ok, "test %d: %v", i, err) {
			continue
		}
		assert.Equal(t, test.kind, lerr.Kind, "test %d", i)
		assert.Equal(t, test.code, lerr.Code, "test %d", i)
		assert.Equal(t, test.data, lerr.Data, "test %d", i)
		if assert.NotNil(t, lerr.Source, "test %d", i) {
			assert.Equal(t, test.loc, lerr.Source.String(), "test %d", i)
		}
		assert.NotEmpty(t, lerr.Message, "test %d", i)
	}
}

func TestErrorIs(t *testing.T) {
	env := sexptest.NewEnv(t)
	_, err := env.EvalString(`(const a 1)`)
	require.NoError(t, err)
	_, err = env.EvalString(`(const a 2)`)
	assert.True(t, errors.Is(err, lisp.ErrIdentifierAlreadyExist))
	assert.False(t, errors.Is(err, lisp.ErrIdentifierNotFound))

	_, err = env.EvalString(`(a)`)
	assert.True(t, errors.Is(err, lisp.ErrIdentifierNotAFunction))
	_, err = env.EvalString(`(native.f32.add 1 2)`)
	assert.True(t, errors.Is(err, lisp.ErrNotImplement))

	assert.Equal(t, "", lisp.ErrorCode(errors.New("plain")))
	_, ok := lisp.AsError(nil)
	assert.False(t, ok)
}

func TestErrorString(t *testing.T) {
	err := lisp.SyntaxError(lisp.CodeInvalidExpression, nil, "bad %s", "thing")
	assert.Equal(t, "INVALID_EXPRESSION: bad thing", err.Error())
	assert.NotNil(t, err.Data)
	assert.Equal(t, "SyntaxError", err.Kind.String())
	assert.Equal(t, "LexError", lisp.KindLex.String())
	assert.Equal(t, "IdentifierError", lisp.KindIdentifier.String())
	assert.Equal(t, "EvalError", lisp.KindEval.String())
}

func TestErrorTrace(t *testing.T) {
	env := sexptest.NewEnv(t)
	_, err := env.EvalString(`(defn f (x) (native.i64.add x))`)
	require.NoError(t, err)
	_, err = env.EvalString(`(f 1)`)
	lerr, ok := lisp.AsError(err)
	require.True(t, ok)
	require.NotNil(t, lerr.Stack)
	assert.Equal(t, "user.f", lerr.Stack.Top().QualifiedFunName())

	var buf bytes.Buffer
	_, err = lerr.WriteTrace(&buf)
	require.NoError(t, err)
	assert.Equal(t, `SyntaxError eval:1:13: INCORRECT_NUMBER_OF_PARAMETERS: native.i64.add expects 2 arguments but got 1
Stack Trace [1 frames -- entrypoint last]:
  height 0: eval:1:1: user.f [function]
`, buf.String())

	// errors raised outside of any function carry an empty stack
	_, err = env.EvalString(`(nosuch)`)
	lerr, ok = lisp.AsError(err)
	require.True(t, ok)
	buf.Reset()
	_, err = lerr.WriteTrace(&buf)
	require.NoError(t, err)
	assert.Equal(t, "IdentifierError eval:1:2: IDENTIFIER_NOT_FOUND: identifier not found: nosuch\n", buf.String())
}
