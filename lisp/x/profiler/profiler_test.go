// Copyright © 2026 The sexp authors

package profiler_test

import (
	"testing"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/sexptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `(defn addIt (x y) (native.i64.add x y))
(defnr countdown (n) (if (native.i64.eq n 0) (break 0) (recur (native.i64.sub n 1))))
(namespace util (defn twice (f x) (f (f x))))
(util.twice (fn (x) (addIt x 1)) (addIt (addIt 1 2) (countdown 3)))`

type enabler interface {
	Enable() error
	Complete() error
}

// runProfiled enables p, evaluates testSource, and completes the profile.
func runProfiled(t *testing.T, env *lisp.Env, p enabler) {
	t.Helper()
	require.NoError(t, p.Enable())
	v, err := env.LoadString("test.sexp", testSource)
	require.NoError(t, err)
	assert.Equal(t, "5", v.String())
	assert.NoError(t, p.Complete())
}

func newEnv(t *testing.T) *lisp.Env {
	return sexptest.NewEnv(t)
}
