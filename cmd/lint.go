// Copyright © 2026 The sexp authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sexplang/sexp/lint"
	"github.com/spf13/cobra"
)

var (
	lintJSON    bool
	lintChecks  string
	lintListAll bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [files...]",
	Short: "Run static analysis checks on sexp source files",
	Long: `Run static analysis checks on sexp source files.

The linter reports forms which would fail when evaluated, similar to
"go vet" for Go.  Each check is an independent analyzer that examines the
parsed expressions.  The linter does NOT report style issues; use
"sexp fmt" for that.

With no files, reads from stdin. With files, analyzes each file and reports
all findings to stderr.

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `Examples:
  sexp lint file.sexp                       # Lint a single file
  sexp lint ./...                           # Lint every source file below .
  sexp lint --json file.sexp                # Output diagnostics as JSON
  sexp lint --checks=if-arity file.sexp     # Run only specific checks
  sexp lint --list                          # List available checks
  cat file.sexp | sexp lint                 # Lint from stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return lintSources(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func lintSources(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	if lintListAll {
		for _, name := range lint.AnalyzerNames() {
			fmt.Fprintln(stdout, name) //nolint:errcheck // best-effort output
		}
		return nil
	}

	analyzers, err := selectAnalyzers(lintChecks)
	if err != nil {
		return err
	}
	l := &lint.Linter{Analyzers: analyzers}

	var diags []lint.Diagnostic
	if len(args) == 0 {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		diags, err = l.LintFile(src, "<stdin>")
		if err != nil {
			return renderError(stderr, err, map[string]string{"<stdin>": string(src)})
		}
		return reportLint(stdout, stderr, diags, map[string]string{"<stdin>": string(src)})
	}

	paths, err := expandArgs(args)
	if err != nil {
		return err
	}
	for _, path := range paths {
		src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fileDiags, err := l.LintFile(src, path)
		if err != nil {
			return renderError(stderr, err, nil)
		}
		diags = append(diags, fileDiags...)
	}
	return reportLint(stdout, stderr, diags, nil)
}

// selectAnalyzers returns the default analyzers named in a comma-separated
// list, or all of them when checks is empty.
func selectAnalyzers(checks string) ([]*lint.Analyzer, error) {
	analyzers := lint.DefaultAnalyzers()
	if checks == "" {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		selected[strings.TrimSpace(name)] = true
	}
	var filtered []*lint.Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	if len(selected) > 0 {
		unknown := make([]string, 0, len(selected))
		for name := range selected {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown check: %s", strings.Join(unknown, ", "))
	}
	return filtered, nil
}

// reportLint writes diagnostics as JSON to stdout or renders them to stderr.
// Any finding yields errRendered.
func reportLint(stdout, stderr io.Writer, diags []lint.Diagnostic, texts map[string]string) error {
	if len(diags) == 0 {
		return nil
	}
	if lintJSON {
		if err := lint.FormatJSON(stdout, diags); err != nil {
			return err
		}
		return errRendered
	}
	_ = renderLintDiagnostics(stderr, diags, texts)
	return errRendered
}

func init() {
	lintCmd.Flags().BoolVar(&lintJSON, "json", false,
		"Output diagnostics as JSON.")
	lintCmd.Flags().StringVar(&lintChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	lintCmd.Flags().BoolVar(&lintListAll, "list", false,
		"List available checks and exit.")
}
