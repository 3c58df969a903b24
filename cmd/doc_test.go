// Copyright © 2026 The sexp authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/sexptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDoc(t *testing.T, args []string, opts ...Option) (string, error) {
	t.Helper()
	cmd := DocCommand(opts...)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDocCommand_DefaultFlags(t *testing.T) {
	cmd := DocCommand()
	assert.Equal(t, "doc [flags] QUERY", cmd.Use)
	for _, name := range []string{"namespace", "source-file", "list-namespaces", "special-forms", "guide"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestDocCommand(t *testing.T) {
	out, err := runDoc(t, []string{"builtin.not"})
	require.NoError(t, err)
	assert.Equal(t, "native-function (builtin.not x1)\n  Returns 1 if the argument is 0 and 0 otherwise.\n", out)

	out, err = runDoc(t, []string{"-n", "builtin"})
	require.NoError(t, err)
	assert.Contains(t, out, "namespace builtin\n")
	assert.Contains(t, out, "native-function (val x1)\n")

	out, err = runDoc(t, []string{"-l"})
	require.NoError(t, err)
	assert.Contains(t, out, "  native.i64   ")

	out, err = runDoc(t, []string{"-s"})
	require.NoError(t, err)
	assert.Contains(t, out, "special-op (recur args...)\n")

	out, err = runDoc(t, []string{"-g"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# The sexp language\n"))
	assert.Contains(t, out, "(loop (params...) (args...) body)")

	_, err = runDoc(t, []string{"nothing"})
	assert.Equal(t, lisp.CodeIdentifierNotFound, lisp.ErrorCode(err))
}

func TestDocCommand_SourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.sexp")
	require.NoError(t, os.WriteFile(path, []byte("(defn double (x) (native.i64.mul x 2))\n"), 0600))
	out, err := runDoc(t, []string{"-f", path, "double"})
	require.NoError(t, err)
	assert.Equal(t, "function (double x)\n", out)

	require.NoError(t, os.WriteFile(path, []byte("(defn double (x)\n"), 0600))
	_, err = runDoc(t, []string{"-f", path, "double"})
	assert.ErrorIs(t, err, errRendered)
}

func TestDocCommand_WithEnvInjectsEnv(t *testing.T) {
	env := sexptest.NewEnv(t)
	ns, err := env.Namespace("user")
	require.NoError(t, err)
	require.NoError(t, ns.DefineNative("helper", 1, func(args []*lisp.LVal) (*lisp.LVal, error) {
		return args[0], nil
	}, "Helps the host."))

	out, err := runDoc(t, []string{"helper"}, WithEnv(env))
	require.NoError(t, err)
	assert.Equal(t, "native-function (helper x1)\n  Helps the host.\n", out)
}
