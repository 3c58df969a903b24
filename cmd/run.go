// Copyright © 2026 The sexp authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sexplang/sexp/lisp"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
	runModules    []string
	runCallgrind  string
	runCPUProfile string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run sexp code",
	Long: `Run sexp code supplied via the command line or files.

Files are evaluated in order in the default namespace.  A pattern ending
in "/..." expands to every .sexp file below a directory.  Modules named by
-m are loaded first, in order, each under the base name of its file, so
that later files can import them with use.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSources(cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func runSources(stdout, stderr io.Writer, args []string) error {
	env, cancel, err := newEnv(stderr)
	if err != nil {
		return err
	}
	defer cancel()
	complete, err := startProfiling(env.Runtime)
	if err != nil {
		return err
	}

	err = runAll(stdout, stderr, env, args)
	if perr := complete(); err == nil && perr != nil {
		return perr
	}
	return err
}

func runAll(stdout, stderr io.Writer, env *lisp.Env, args []string) error {
	for _, path := range runModules {
		if err := loadFile(stderr, path, func(f io.Reader) (*lisp.LVal, error) {
			return env.LoadModule(moduleName(path), path, f)
		}); err != nil {
			return err
		}
	}
	if runExpression {
		for i, text := range args {
			name := "expr" + strconv.Itoa(i+1)
			v, err := env.LoadString(name, text)
			if err != nil {
				return renderError(stderr, err, map[string]string{name: text})
			}
			if runPrint {
				fmt.Fprintln(stdout, v) //nolint:errcheck // best-effort output
			}
		}
		return nil
	}
	paths, err := expandArgs(args)
	if err != nil {
		return err
	}
	for _, path := range paths {
		var v *lisp.LVal
		if err := loadFile(stderr, path, func(f io.Reader) (*lisp.LVal, error) {
			var err error
			v, err = env.LoadLocation(path, path, f)
			return v, err
		}); err != nil {
			return err
		}
		if runPrint {
			fmt.Fprintln(stdout, v) //nolint:errcheck // best-effort output
		}
	}
	return nil
}

// loadFile opens path and passes it to load, rendering interpreter errors.
func loadFile(stderr io.Writer, path string, load func(io.Reader) (*lisp.LVal, error)) error {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only
	if _, err := load(f); err != nil {
		if _, ok := lisp.AsError(err); ok {
			return renderError(stderr, err, nil)
		}
		return err
	}
	return nil
}

func init() {
	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as sexp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the value of each argument to stdout")
	runCmd.Flags().StringSliceVarP(&runModules, "module", "m", nil,
		"Load a module file before running arguments (repeatable)")
	runCmd.Flags().StringVar(&runCallgrind, "profile-callgrind", "",
		"Write a callgrind profile of function applications to a file")
	runCmd.Flags().StringVar(&runCPUProfile, "profile-cpu", "",
		"Write a pprof CPU profile labeled by function to a file")
}
