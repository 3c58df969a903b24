// Copyright © 2026 The sexp authors

package formatter

import (
	"strings"
	"testing"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/rdparser"
	"github.com/sexplang/sexp/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formatTest struct {
	name     string
	input    string
	expected string
	config   *Config
}

func runFormatTests(t *testing.T, tests []formatTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			got, err := Format([]byte(tt.input), cfg)
			require.NoError(t, err, "Format failed")
			assert.Equal(t, tt.expected, string(got), "formatted output mismatch")

			// Formatting the output again must not change it.
			got2, err := Format(got, cfg)
			require.NoError(t, err, "Format (idempotency) failed")
			assert.Equal(t, string(got), string(got2), "not idempotent")

			roundTripEqual(t, tt.input, string(got))
		})
	}
}

// roundTripEqual parses two sources and compares the resulting expressions
// structurally.
func roundTripEqual(t *testing.T, original, formatted string) {
	t.Helper()
	parse := func(src string) string {
		exprs, err := rdparser.New(token.NewScannerString("test", src)).ParseProgram()
		require.NoError(t, err)
		parts := make([]string, len(exprs))
		for i, expr := range exprs {
			parts[i] = expr.String()
		}
		return strings.Join(parts, " ")
	}
	assert.Equal(t, parse(original), parse(formatted), "expressions differ after round-trip")
}

func TestIndentDefaultAlign(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			name:     "simple function call",
			input:    "(f x y)",
			expected: "(f x y)\n",
		},
		{
			name:     "spacing normalized",
			input:    "(  native.i64.add   1    2 )",
			expected: "(native.i64.add 1 2)\n",
		},
		{
			name:  "multiline first-arg align",
			input: "(native.i64.add 1\n2)",
			expected: "(native.i64.add 1\n" +
				strings.Repeat(" ", 16) + "2)\n",
		},
		{
			name:  "first arg on new line uses body indent",
			input: "(util.twice\nf\n     x)",
			expected: "(util.twice\n" +
				"  f\n" +
				"  x)\n",
		},
		{
			name:  "closing paren pulled up",
			input: "(f 1\n   2\n)",
			expected: "(f 1\n" +
				"   2)\n",
		},
	})
}

func TestIndentSpecialForms(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			name:     "defn single line stays single",
			input:    "(defn   add  (x   y)   (native.i64.add x y))",
			expected: "(defn add (x y) (native.i64.add x y))\n",
		},
		{
			name:  "defn body indent",
			input: "(defn add (x y)\n(native.i64.add x y))",
			expected: "(defn add (x y)\n" +
				"  (native.i64.add x y))\n",
		},
		{
			name:  "defnr body indent",
			input: "(defnr countdown (n)\n        (if (native.i64.eq n 0)\n(break 0)\n(recur (native.i64.sub n 1))))",
			expected: "(defnr countdown (n)\n" +
				"  (if (native.i64.eq n 0)\n" +
				"    (break 0)\n" +
				"    (recur (native.i64.sub n 1))))\n",
		},
		{
			name:  "loop headers stay on the first line",
			input: "(loop (i acc) (0 1)\n(break acc))",
			expected: "(loop (i acc) (0 1)\n" +
				"  (break acc))\n",
		},
		{
			name:  "header arg on new line",
			input: "(loop (i acc)\n(0 1)\n(break acc))",
			expected: "(loop (i acc)\n" +
				"  (0 1)\n" +
				"  (break acc))\n",
		},
		{
			name:  "fn body indent",
			input: "(fn (x)\n(f x))",
			expected: "(fn (x)\n" +
				"  (f x))\n",
		},
		{
			name:  "do indents every form",
			input: "(do (let a 1)\n(set a 2)\na)",
			expected: "(do (let a 1)\n" +
				"  (set a 2)\n" +
				"  a)\n",
		},
		{
			name:  "nested namespace body",
			input: "(namespace util\n(const a 1)\n\n\n(defn f (x)\nx))",
			expected: "(namespace util\n" +
				"  (const a 1)\n" +
				"\n" +
				"  (defn f (x)\n" +
				"    x))\n",
		},
		{
			name:  "qualified def name",
			input: "(util.defthing a (x)\nx)",
			expected: "(util.defthing a (x)\n" +
				"  x)\n",
		},
	})
}

func TestDataLists(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			name:     "empty list",
			input:    "(defn f ( ) 0)",
			expected: "(defn f () 0)\n",
		},
		{
			name:  "first element on new line",
			input: "(loop (i acc) (\n0 1)\n(break acc))",
			expected: "(loop (i acc) (\n" +
				"               0 1)\n" +
				"  (break acc))\n",
		},
		{
			name:  "elements align inside bracket",
			input: "(f (1\n2))",
			expected: "(f (1\n" +
				"    2))\n",
		},
	})
}

func TestTopLevel(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			name:     "empty source",
			input:    "  \n\n",
			expected: "",
		},
		{
			name:  "forms on one line are split",
			input: "(const a 1) (const b 2)",
			expected: "(const a 1)\n" +
				"(const b 2)\n",
		},
		{
			name:  "blank lines clamped",
			input: "(const a 1)\n\n\n\n(const b 2)\n\n\n",
			expected: "(const a 1)\n" +
				"\n" +
				"(const b 2)\n",
		},
		{
			name:     "number spelling kept",
			input:    "(const mask 0xff)",
			expected: "(const mask 0xff)\n",
		},
	})
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IndentSize = 4
	cfg.MaxBlankLines = 0
	runFormatTests(t, []formatTest{
		{
			name:  "indent size",
			input: "(do\n1\n2)",
			expected: "(do\n" +
				"    1\n" +
				"    2)\n",
			config: cfg,
		},
		{
			name:  "no blank lines",
			input: "(const a 1)\n\n(const b 2)",
			expected: "(const a 1)\n" +
				"(const b 2)\n",
			config: cfg,
		},
	})
}

func TestRuleFor(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name  string
		style IndentStyle
		args  int
	}{
		{"defn", IndentSpecial, 2},
		{"loop", IndentSpecial, 2},
		{"if", IndentSpecial, 1},
		{"do", IndentBody, 0},
		{"deftable", IndentSpecial, 2},
		{"util.defthing", IndentSpecial, 2},
		{"native.i64.add", IndentAlign, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := cfg.RuleFor(tt.name)
			assert.Equal(t, tt.style, rule.Style)
			assert.Equal(t, tt.args, rule.HeaderArgs)
		})
	}
}

func TestFormatErrors(t *testing.T) {
	_, err := FormatFile([]byte("(const a 1)\n(const b"), "broken.sexp", nil)
	require.Error(t, err)
	assert.Equal(t, lisp.CodeUnmatchedParen, lisp.ErrorCode(err))
	lerr, ok := lisp.AsError(err)
	require.True(t, ok)
	require.NotNil(t, lerr.Source)
	assert.Equal(t, "broken.sexp", lerr.Source.File)
	assert.Equal(t, 2, lerr.Source.Line)

	_, err = Format([]byte("(f))"), nil)
	assert.Equal(t, lisp.CodeUnexpectedToken, lisp.ErrorCode(err))
}
