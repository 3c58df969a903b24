// Copyright © 2026 The sexp authors

package cmd

import (
	"context"
	"errors"
	"os"
	"runtime/pprof"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/lisp/x/profiler"
)

// startProfiling enables the profiler selected by run flags.  The returned
// function completes the profile.
func startProfiling(rt *lisp.Runtime) (func() error, error) {
	switch {
	case runCallgrind != "" && runCPUProfile != "":
		return nil, errors.New("at most one profile may be written")
	case runCallgrind != "":
		p := profiler.NewCallgrindProfiler(rt)
		if err := p.SetFile(runCallgrind); err != nil {
			return nil, err
		}
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return p.Complete, nil
	case runCPUProfile != "":
		f, err := os.Create(runCPUProfile) //#nosec G304
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close() //nolint:errcheck,gosec // already failing
			return nil, err
		}
		p := profiler.NewPprofAnnotator(rt, context.Background())
		if err := p.Enable(); err != nil {
			pprof.StopCPUProfile()
			f.Close() //nolint:errcheck,gosec // already failing
			return nil, err
		}
		return func() error {
			err := p.Complete()
			pprof.StopCPUProfile()
			return errors.Join(err, f.Close())
		}, nil
	}
	return func() error { return nil }, nil
}
