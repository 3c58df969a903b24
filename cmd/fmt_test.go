// Copyright © 2026 The sexp authors

package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setFmtFlags sets fmt flags for the duration of a test.
func setFmtFlags(t *testing.T, write, diff, list bool) {
	t.Cleanup(func() {
		fmtWrite, fmtDiff, fmtList, fmtIndentSize = false, false, false, 2
	})
	fmtWrite, fmtDiff, fmtList, fmtIndentSize = write, diff, list, 2
}

const (
	unformatted = "(defn add (x y)\n(native.i64.add x y))\n"
	formatted   = "(defn add (x y)\n  (native.i64.add x y))\n"
)

func TestFmtStdin(t *testing.T) {
	setFmtFlags(t, false, false, false)
	var stdout, stderr bytes.Buffer
	err := fmtSources(strings.NewReader(unformatted), &stdout, &stderr, nil)
	require.NoError(t, err)
	assert.Equal(t, formatted, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestFmtStdinError(t *testing.T) {
	setFmtFlags(t, false, false, false)
	var stdout, stderr bytes.Buffer
	err := fmtSources(strings.NewReader("(f (g 1)"), &stdout, &stderr, nil)
	assert.ErrorIs(t, err, errRendered)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "error[UNMATCHED_PAREN]")
	assert.Contains(t, stderr.String(), "--> <stdin>:1:1\n")
}

func TestFmtWrite(t *testing.T) {
	setFmtFlags(t, true, false, false)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sexp", unformatted)
	b := writeFile(t, dir, "sub/b.sexp", formatted)

	var stdout, stderr bytes.Buffer
	err := fmtSources(nil, &stdout, &stderr, []string{dir + "/..."})
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	for _, path := range []string{a, b} {
		text, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, formatted, string(text), path)
	}
}

func TestFmtList(t *testing.T) {
	setFmtFlags(t, false, false, true)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sexp", unformatted)
	writeFile(t, dir, "b.sexp", formatted)

	var stdout, stderr bytes.Buffer
	err := fmtSources(nil, &stdout, &stderr, []string{dir + "/..."})
	assert.ErrorIs(t, err, errRendered)
	assert.Equal(t, a+"\n", stdout.String())

	text, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, unformatted, string(text), "list mode must not rewrite files")
}

func TestFmtDiff(t *testing.T) {
	setFmtFlags(t, false, true, false)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.sexp", unformatted)

	var stdout, stderr bytes.Buffer
	err := fmtSources(nil, &stdout, &stderr, []string{a})
	require.NoError(t, err)
	assert.Equal(t, "--- "+a+"\n"+
		"+++ "+a+"\n"+
		" (defn add (x y)\n"+
		"-(native.i64.add x y))\n"+
		"+  (native.i64.add x y))\n", stdout.String())
}

func TestFmtFileErrors(t *testing.T) {
	setFmtFlags(t, false, false, false)
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.sexp", "(const a 1)\n(const b")
	good := writeFile(t, dir, "good.sexp", formatted)

	var stdout, stderr bytes.Buffer
	err := fmtSources(nil, &stdout, &stderr, []string{bad, good})
	assert.ErrorIs(t, err, errRendered)
	assert.Equal(t, formatted, stdout.String())
	assert.Contains(t, stderr.String(), "error[UNMATCHED_PAREN]")
	assert.Contains(t, stderr.String(), "bad.sexp:2:1\n")
}
