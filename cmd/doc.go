// Copyright © 2026 The sexp authors

package cmd

import (
	"bufio"
	"bytes"
	"io"

	"github.com/sexplang/sexp/docs"
	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/lisp/x/help"
	"github.com/spf13/cobra"
)

// DocCommand returns a command which shows documentation for the special
// forms and the functions of an interpreter.
func DocCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var (
		docNamespace bool
		docSource    string
		docList      bool
		docSpecial   bool
		docGuide     bool
	)
	cmd := &cobra.Command{
		Use:   "doc [flags] QUERY",
		Short: "Show documentation for special forms, functions, and namespaces",
		Long: `Show built-in documentation for special forms, native functions, and
the functions of loaded source files.

By default, looks up a keyword, a full name, or a name in the user
namespace. Use -n to list every name in a namespace. Use -f to load a
source file first (useful for documenting your own code).

Examples:
  sexp doc loop                   Show docs for the loop special form
  sexp doc native.i64.shr_u       Show docs for a native function
  sexp doc -n native.f64          List the native.f64 namespace
  sexp doc -f lib.sexp double     Load a file, then show docs for double
  sexp doc -l                     List all namespaces
  sexp doc -s                     List all special forms
  sexp doc -g                     Show the language guide`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if docGuide {
				_, err := io.WriteString(out, docs.LangGuide)
				return err
			}
			if docSpecial {
				return help.RenderSpecialOps(out)
			}
			env := cfg.env
			if env == nil {
				// environment output is discarded but a buffer is maintained
				// in case of an error while loading user source files.
				errbuf := &bytes.Buffer{}
				var err error
				env, err = docEnv(errbuf, docSource)
				if err != nil {
					_, _ = cmd.ErrOrStderr().Write(errbuf.Bytes())
					return err
				}
			}
			if docList {
				return help.RenderNamespaceList(out, env.Registry())
			}
			if len(args) != 1 {
				_ = cmd.Help()
				return errRendered
			}
			if docNamespace {
				return help.RenderNamespace(out, env.Registry(), args[0])
			}
			return help.RenderName(out, env, args[0])
		},
	}
	cmd.Flags().BoolVarP(&docNamespace, "namespace", "n", false,
		"Interpret the argument as a namespace path.")
	cmd.Flags().StringVarP(&docSource, "source-file", "f", "",
		"Evaluate a source file before querying documentation.")
	cmd.Flags().BoolVarP(&docList, "list-namespaces", "l", false,
		"List all namespaces with the number of names they hold.")
	cmd.Flags().BoolVarP(&docSpecial, "special-forms", "s", false,
		"List all special forms.")
	cmd.Flags().BoolVarP(&docGuide, "guide", "g", false,
		"Show the language guide.")
	return cmd
}

func docEnv(stderr *bytes.Buffer, source string) (*lisp.Env, error) {
	env, cancel, err := newEnv(stderr)
	if err != nil {
		return nil, err
	}
	defer cancel()
	if source == "" {
		return env, nil
	}
	err = loadFile(stderr, source, func(f io.Reader) (*lisp.LVal, error) {
		return env.LoadLocation(source, source, f)
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}
