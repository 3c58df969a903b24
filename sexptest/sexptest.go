// Copyright © 2026 The sexp authors

// Package sexptest runs table driven tests of interpreter behavior.
package sexptest

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser"
)

// TestSequence is a sequence of expressions which are evaluated sequentially
// by one interpreter.
type TestSequence []struct {
	Expr string // a single expression
	// Result is the printed value of Expr, or the code of the error it
	// produced.
	Result string
}

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// DefaultConfig returns the interpreter configuration used by RunTestSuite.
func DefaultConfig(t testing.TB) []lisp.Config {
	return []lisp.Config{
		lisp.WithMaximumPhysicalStackHeight(25000),
		lisp.WithReader(parser.NewReader()),
		lisp.WithStderr(NewLogger(t)),
	}
}

// NewEnv returns an interpreter configured with DefaultConfig followed by
// config.
func NewEnv(t testing.TB, config ...lisp.Config) *lisp.Env {
	env, err := lisp.NewEnv(append(DefaultConfig(t), config...)...)
	if err != nil {
		t.Fatalf("failed to initialize interpreter: %v", err)
	}
	return env
}

// Result returns the printed form of v or the code of err.
func Result(v *lisp.LVal, err error) string {
	if err != nil {
		if code := lisp.ErrorCode(err); code != "" {
			return code
		}
		return err.Error()
	}
	return v.String()
}

// RunTestSuite runs each TestSequence in tests on an isolated interpreter.
func RunTestSuite(t *testing.T, tests TestSuite, config ...lisp.Config) {
	for i, test := range tests {
		env := NewEnv(t, config...)
		for j, expr := range test.TestSequence {
			result := Result(env.EvalString(expr.Expr))
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
		}
		env.Runtime.Stderr.(*Logger).Flush()
	}
}

// LispError reports err on t along with its stack trace.
func LispError(t testing.TB, err error) {
	lerr, ok := lisp.AsError(err)
	if !ok {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// BenchmarkParse returns a benchmark which parses the file at path with the
// reader returned by r.
func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that evaluates the expressions
// parsed from source in a fresh interpreter.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	loader, err := lisp.TextLoader(parser.NewReader(), "benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := lisp.NewEnv(
			lisp.WithMaximumPhysicalStackHeight(25000),
			lisp.WithStderr(io.Discard),
		)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		_, err = loader(env)
		b.StopTimer()
		if err != nil {
			b.Fatal(err)
		}
	}
}
