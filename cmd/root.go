// Copyright © 2026 The sexp authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// errRendered is returned by commands which have already reported their
// failure to the user.
var errRendered = errors.New("error already rendered")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sexp",
	Short: "sexp: an embeddable S-expression interpreter",
	Long: `sexp is an embeddable S-expression interpreter implemented in Go. It
provides a standalone CLI for running and exploring sexp programs.

Getting started:
  sexp run file.sexp                  Run a source file
  sexp run -e '(native.i64.add 1 2)'  Evaluate an expression
  sexp run -m lib/math.sexp app.sexp  Load modules in dependency order
  sexp repl                           Start an interactive REPL
  sexp doc native.f64.sqrt            Show documentation for a function
  sexp doc -n native.i64              List a namespace

Language overview:
  Every value is a number or a function.  1 is true and 0 is false.
  Identifiers live in namespaces and are addressed by dotted full names
  such as native.i64.add.  Names starting with module., current. or
  parent. are resolved relative to the enclosing namespace.
  Functions are defined with (defn name (params) body).  Iteration uses
  (loop (params) (args) body) or (defnr name (params) body) with break
  and recur, which never grow the stack.

Configuration is read from $HOME/.sexp.yaml, or the file named by --config,
and from SEXP_ environment variables, e.g. SEXP_MAX_STEPS=100000.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRendered) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sexp.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String("log-level", "warn", "Interpreter log level: debug, info, warn or error.")
	flags.Int("max-depth", 0, "Maximum evaluation depth (0 for unlimited).")
	flags.Int("max-height", 25000, "Maximum call stack height (0 for unlimited).")
	flags.Int64("max-steps", 0, "Maximum evaluation steps per top-level form (0 for unlimited).")
	flags.Duration("timeout", 0, "Cancel evaluation after a duration (0 for none).")
	flags.Bool("combinator", false, "Parse with the combinator reader.")
	for _, name := range []string{"color", "log-level", "max-depth", "max-height", "max-steps", "timeout", "combinator"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(runCmd, replCmd, fmtCmd, lintCmd, DocCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".sexp" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".sexp")
	}

	viper.SetEnvPrefix("sexp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
