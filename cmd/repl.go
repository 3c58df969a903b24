// Copyright © 2026 The sexp authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/sexplang/sexp/diagnostic"
	"github.com/sexplang/sexp/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive sexp REPL",
	Long: `Start an interactive read-eval-print loop.

Input is evaluated in the user namespace.  An expression may span several
lines; input continues until its parentheses balance.  Line editing, tab
completion of names and command history are supported via readline.  Use
Ctrl-D to exit and Ctrl-C to discard pending input.

Example REPL session:
  sexp> (defn square (x) (native.i64.mul x x))
  <function user.square>
  sexp> (square 5)
  25
  sexp> (loop (i acc) (0 0)
          (if (native.i64.eq i 5) (break acc)
              (recur (native.i64.add i 1) (native.i64.add acc i))))
  10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, cancel, err := envConfig(os.Stderr)
		if err != nil {
			return err
		}
		defer cancel()
		return repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithEnvConfig(config...),
			repl.WithColor(diagnostic.ParseColorMode(viper.GetString("color"))))
	},
}
