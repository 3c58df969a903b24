// Copyright © 2026 The sexp authors

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sexplang/sexp/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setLintFlags sets lint flags for the duration of a test.
func setLintFlags(t *testing.T, json bool, checks string, list bool) {
	t.Cleanup(func() {
		lintJSON, lintChecks, lintListAll = false, "", false
	})
	lintJSON, lintChecks, lintListAll = json, checks, list
}

func TestLintList(t *testing.T) {
	setLintFlags(t, false, "", true)
	var stdout, stderr bytes.Buffer
	require.NoError(t, lintSources(nil, &stdout, &stderr, nil))
	assert.Equal(t, strings.Join(lint.AnalyzerNames(), "\n")+"\n", stdout.String())
}

func TestLintClean(t *testing.T) {
	setLintFlags(t, false, "", false)
	dir := t.TempDir()
	writeFile(t, dir, "a.sexp", "(defn add (x y) (native.i64.add x y))\n(add 1 2)\n")

	var stdout, stderr bytes.Buffer
	require.NoError(t, lintSources(nil, &stdout, &stderr, []string{dir + "/..."}))
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestLintFindings(t *testing.T) {
	setLintFlags(t, false, "", false)
	dir := t.TempDir()
	path := writeFile(t, dir, "a.sexp", "(defn f (x)\n  (if x 1))\n")

	var stdout, stderr bytes.Buffer
	err := lintSources(nil, &stdout, &stderr, []string{path})
	assert.ErrorIs(t, err, errRendered)
	assert.Equal(t, "error: if requires 3 arguments (condition, then, else), got too few (2) (if-arity)\n"+
		"  --> "+path+":2:3\n"+
		"   |\n"+
		" 2 |    (if x 1))\n"+
		"   |    ^^^\n"+
		"   |\n", stderr.String())
}

func TestLintStdinJSON(t *testing.T) {
	setLintFlags(t, true, "native-arity", false)
	var stdout, stderr bytes.Buffer
	err := lintSources(strings.NewReader("(let x 1)\n(native.i64.add 1)"), &stdout, &stderr, nil)
	assert.ErrorIs(t, err, errRendered)

	var diags []lint.Diagnostic
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, "native-arity", diags[0].Analyzer)
	assert.Equal(t, lint.Position{File: "<stdin>", Line: 2, Col: 1}, diags[0].Pos)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
}

func TestLintParseError(t *testing.T) {
	setLintFlags(t, false, "", false)
	var stdout, stderr bytes.Buffer
	err := lintSources(strings.NewReader("(f"), &stdout, &stderr, nil)
	assert.ErrorIs(t, err, errRendered)
	assert.Contains(t, stderr.String(), "error[UNMATCHED_PAREN]")
}

func TestLintUnknownCheck(t *testing.T) {
	setLintFlags(t, false, "if-arity,nope,bogus", false)
	var stdout, stderr bytes.Buffer
	err := lintSources(strings.NewReader("(f)"), &stdout, &stderr, nil)
	require.Error(t, err)
	assert.Equal(t, "unknown check: bogus, nope", err.Error())
}
