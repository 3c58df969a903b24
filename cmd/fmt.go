// Copyright © 2026 The sexp authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sexplang/sexp/formatter"
	"github.com/spf13/cobra"
)

var (
	fmtWrite      bool
	fmtDiff       bool
	fmtList       bool
	fmtIndentSize int
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [files...]",
	Short: "Format sexp source files",
	Long: `Format sexp source files, similar to gofmt for Go.

Normalizes whitespace and indentation and aligns forms according to Lisp
conventions.  Line breaks are kept.  The formatter is idempotent.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  sexp fmt file.sexp               Print formatted output
  sexp fmt -w ./...                Format all source files in place
  sexp fmt -d file.sexp            Show what would change
  sexp fmt -l ./...                List files needing formatting
  cat file.sexp | sexp fmt         Format from stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmtSources(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
	},
}

func fmtSources(stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	cfg := formatter.DefaultConfig()
	cfg.IndentSize = fmtIndentSize

	if len(args) == 0 {
		return fmtStdin(stdin, stdout, stderr, cfg)
	}

	paths, err := expandArgs(args)
	if err != nil {
		return err
	}
	var failed bool
	for _, path := range paths {
		changed, err := fmtFile(stdout, path, cfg)
		if err != nil {
			_ = renderError(stderr, err, nil)
			failed = true
		} else if fmtList && changed {
			failed = true
		}
	}
	if failed {
		return errRendered
	}
	return nil
}

func fmtStdin(stdin io.Reader, stdout, stderr io.Writer, cfg *formatter.Config) error {
	src, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	out, err := formatter.Format(src, cfg)
	if err != nil {
		return renderError(stderr, err, map[string]string{"<stdin>": string(src)})
	}
	_, err = stdout.Write(out)
	return err
}

func fmtFile(stdout io.Writer, path string, cfg *formatter.Config) (bool, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	out, err := formatter.FormatFile(src, path, cfg)
	if err != nil {
		return false, err
	}

	changed := string(src) != string(out)

	if fmtList {
		if changed {
			fmt.Fprintln(stdout, path) //nolint:errcheck // best-effort output
		}
		return changed, nil
	}

	if fmtDiff {
		if changed {
			printUnifiedDiff(stdout, path, src, out)
		}
		return changed, nil
	}

	if fmtWrite {
		if !changed {
			return false, nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return false, fmt.Errorf("%s: %w", path, err)
		}
		return true, os.WriteFile(path, out, info.Mode().Perm())
	}

	_, err = stdout.Write(out)
	return changed, err
}

// printUnifiedDiff writes a line-by-line diff.  Only the formatter's changes
// are expected, so lines are matched greedily in order.
func printUnifiedDiff(w io.Writer, path string, original, formatted []byte) {
	fmt.Fprintf(w, "--- %s\n", path) //nolint:errcheck // best-effort output
	fmt.Fprintf(w, "+++ %s\n", path) //nolint:errcheck // best-effort output

	origLines := splitLines(original)
	fmtLines := splitLines(formatted)

	i, j := 0, 0
	for i < len(origLines) || j < len(fmtLines) {
		switch {
		case i < len(origLines) && j < len(fmtLines) && origLines[i] == fmtLines[j]:
			fmt.Fprintf(w, " %s\n", origLines[i]) //nolint:errcheck // best-effort output
			i++
			j++
		case i < len(origLines):
			fmt.Fprintf(w, "-%s\n", origLines[i]) //nolint:errcheck // best-effort output
			i++
		default:
			fmt.Fprintf(w, "+%s\n", fmtLines[j]) //nolint:errcheck // best-effort output
			j++
		}
	}
}

func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false,
		"List files whose formatting differs from sexp fmt's.")
	fmtCmd.Flags().IntVar(&fmtIndentSize, "indent-size", 2,
		"Number of spaces per indentation level.")
}
