// Copyright © 2026 The sexp authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRunFlags sets run flags for the duration of a test.
func setRunFlags(t *testing.T, expression, print bool, modules []string) {
	t.Cleanup(func() {
		runExpression, runPrint, runModules = false, false, nil
		runCallgrind, runCPUProfile = "", ""
	})
	runExpression, runPrint, runModules = expression, print, modules
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))
	return path
}

func TestRunExpressions(t *testing.T) {
	setRunFlags(t, true, true, nil)
	var stdout, stderr bytes.Buffer
	err := runSources(&stdout, &stderr, []string{
		`(defn sq (x) (native.i64.mul x x))`,
		`(sq 12)`,
	})
	require.NoError(t, err)
	assert.Equal(t, "<function user.sq>\n144\n", stdout.String())
}

func TestRunExpressionError(t *testing.T) {
	setRunFlags(t, true, false, nil)
	var stdout, stderr bytes.Buffer
	err := runSources(&stdout, &stderr, []string{`(native.i64.add 1 nothing)`})
	assert.ErrorIs(t, err, errRendered)
	assert.Contains(t, stderr.String(), "error[IDENTIFIER_NOT_FOUND]: identifier not found: nothing\n  --> expr1:1:19\n")
	assert.Contains(t, stderr.String(), " 1 |  (native.i64.add 1 nothing)\n")
}

func TestRunReaders(t *testing.T) {
	for _, combinator := range []bool{false, true} {
		viper.Set("combinator", combinator)
		setRunFlags(t, true, true, nil)

		var stdout, stderr bytes.Buffer
		err := runSources(&stdout, &stderr, []string{`(native.i64.add 1 2) (native.i64.sub 5 1)`})
		require.NoError(t, err, "combinator=%v", combinator)
		assert.Equal(t, "4\n", stdout.String(), "combinator=%v", combinator)

		stdout.Reset()
		err = runSources(&stdout, &stderr, []string{`(native.i64.add 1 2`})
		assert.ErrorIs(t, err, errRendered, "combinator=%v", combinator)
		assert.Contains(t, stderr.String(), "error[UNMATCHED_PAREN]", "combinator=%v", combinator)
		assert.Empty(t, stdout.String(), "combinator=%v", combinator)

		stderr.Reset()
		err = runSources(&stdout, &stderr, []string{"(native.i64.add 1 2))\n"})
		assert.ErrorIs(t, err, errRendered, "combinator=%v", combinator)
		assert.Contains(t, stderr.String(), "error[UNEXPECTED_TOKEN]", "combinator=%v", combinator)
		assert.Contains(t, stderr.String(), "--> expr1:1:21\n", "combinator=%v", combinator)
		assert.Empty(t, stdout.String(), "combinator=%v", combinator)
	}
	viper.Set("combinator", false)
}

func TestRunFilesAndModules(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "lib/mathx.sexp", `(const two 2) (defn double (x) (native.i64.mul x module.two))`)
	writeFile(t, dir, "src/a.sexp", `(use mathx.double) (const a (double 3))`)
	writeFile(t, dir, "src/sub/b.sexp", `(native.i64.add a 1)`)
	writeFile(t, dir, "src/notes.txt", `not source`)

	setRunFlags(t, false, true, []string{lib})
	var stdout, stderr bytes.Buffer
	err := runSources(&stdout, &stderr, []string{filepath.Join(dir, "src") + "/..."})
	require.NoError(t, err, stderr.String())
	assert.Equal(t, "6\n7\n", stdout.String())
}

func TestRunFileError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.sexp", "(const a 1)\n(const a 2)\n")
	setRunFlags(t, false, false, nil)
	var stdout, stderr bytes.Buffer
	err := runSources(&stdout, &stderr, []string{path})
	assert.ErrorIs(t, err, errRendered)
	assert.Contains(t, stderr.String(), "error[IDENTIFIER_ALREADY_EXIST]")
	assert.Contains(t, stderr.String(), " 2 |  (const a 2)\n")

	err = runSources(&stdout, &stderr, []string{filepath.Join(dir, "missing.sexp")})
	assert.True(t, os.IsNotExist(err))
}

func TestRunCallgrind(t *testing.T) {
	dir := t.TempDir()
	setRunFlags(t, true, false, nil)
	runCallgrind = filepath.Join(dir, "callgrind.out")
	var stdout, stderr bytes.Buffer
	err := runSources(&stdout, &stderr, []string{`(defn f () 1) (f)`})
	require.NoError(t, err)
	b, err := os.ReadFile(runCallgrind)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "fn=(2) user.f\n"))

	runCPUProfile = filepath.Join(dir, "cpu.out")
	err = runSources(&stdout, &stderr, []string{`1`})
	assert.Error(t, err)
}
