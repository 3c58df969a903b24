// Copyright © 2026 The sexp authors

package diagnostic_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sexplang/sexp/diagnostic"
	"github.com/sexplang/sexp/sexptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const program = `(defn f (x)
  (native.i64.add x))
(f 1)`

func TestFromError(t *testing.T) {
	env := sexptest.NewEnv(t)
	_, err := env.LoadString("prog.sexp", program)
	require.Error(t, err)

	d := diagnostic.FromError(err)
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "INCORRECT_NUMBER_OF_PARAMETERS", d.Code)
	assert.Equal(t, "native.i64.add expects 2 arguments but got 1", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, diagnostic.Span{File: "prog.sexp", Line: 2, Col: 3, Label: "SyntaxError"}, d.Spans[0])
	assert.Equal(t, []string{"in user.f at prog.sexp:3:1"}, d.Notes)

	r := &diagnostic.Renderer{
		Color:        diagnostic.ColorNever,
		SourceReader: diagnostic.Sources(map[string]string{"prog.sexp": program}),
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderError(&buf, err, "try again"))
	assert.Equal(t, `error[INCORRECT_NUMBER_OF_PARAMETERS]: native.i64.add expects 2 arguments but got 1
  --> prog.sexp:2:3
   |
 2 |    (native.i64.add x))
   |    ^^^^^^^^^^^^^^^ SyntaxError
   |
   = note: in user.f at prog.sexp:3:1
   = note: try again
   = help: native.i64.add takes 2 arguments
`, buf.String())
}

func TestHint(t *testing.T) {
	tests := []struct {
		program string
		code    string
		help    string
	}{
		{`(native.i64.add 1 nothing)`, "IDENTIFIER_NOT_FOUND",
			"define nothing with const, let or defn before it is used"},
		{`(const a 1) (const a 2)`, "IDENTIFIER_ALREADY_EXIST",
			"a is already bound at this level; set changes an existing let binding"},
		{`(builtin.val nosuch.a)`, "NAMESPACE_NOT_FOUND",
			"create it with (namespace nosuch ...) before referring to its names"},
		{`(builtin.not 1 2)`, "INCORRECT_NUMBER_OF_PARAMETERS", "builtin.not takes 1 argument"},
		{`(loop (i j) (1) (break i))`, "INCORRECT_NUMBER_OF_LOOP_ARGS",
			"give one value for each of the 2 parameters of the loop"},
		{`(do (const a 1))`, "INVALID_CONST_EXPRESSION_PLACE",
			"const is valid only at namespace level, not inside do, loop or a function body"},
		{`(let a 1)`, "INVALID_LET_EXPRESSION_PLACE",
			"let is valid only inside do, loop or a function body; use const at namespace level"},
		{`(builtin.val parent.parent.a)`, "RELATIVE_PATH_ERROR",
			"each parent. ascends one namespace level and parent.parent.a ascends past the top"},
		{`(loop (i) (1) i)`, "INVALID_LOOP_BODY",
			"end every branch of the body with (break value) or (recur args...)"},
		{`(native.i32.add 1 2)`, "NOT_IMPLEMENT",
			"native.i32.add is declared but not implemented; native.i64 and native.f64 hold the implemented operations"},
		{`(builtin.val 1 2 3 4)`, "INCORRECT_NUMBER_OF_PARAMETERS", "builtin.val takes 1 argument"},
	}
	for i, test := range tests {
		env := sexptest.NewEnv(t)
		_, err := env.LoadString("hint.sexp", test.program)
		require.Error(t, err, "test %d", i)
		d := diagnostic.FromError(err)
		assert.Equal(t, test.code, d.Code, "test %d", i)
		assert.Equal(t, test.help, d.Help, "test %d", i)
	}
	assert.Empty(t, diagnostic.Hint(errors.New("host failure")))
}

func TestFromHostError(t *testing.T) {
	d := diagnostic.FromError(errors.New("open missing.sexp: no such file"))
	assert.Equal(t, "open missing.sexp: no such file", d.Message)
	assert.Empty(t, d.Code)
	assert.Empty(t, d.Spans)
}
