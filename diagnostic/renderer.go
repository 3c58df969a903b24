// Copyright © 2026 The sexp authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabWidth is the number of columns a tab occupies in a rendered snippet.
const tabWidth = 4

// Renderer formats diagnostics as annotated source snippets:
//
//	error[IDENTIFIER_NOT_FOUND]: identifier not found: y
//	  --> prog.sexp:2:3
//	   |
//	 2 |    (native.i64.add x y)
//	   |                      ^ IdentifierError
//	   |
//	   = help: define y with const, let or defn before it is used
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Sources returns a SourceReader which serves the named texts and never
// touches the file system.
func Sources(texts map[string]string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		text, ok := texts[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(text), nil
	}
}

// RenderError writes err to w as a Diagnostic.
func (r *Renderer) RenderError(w io.Writer, err error, notes ...string) error {
	d := FromError(err)
	d.Notes = append(d.Notes, notes...)
	return r.Render(w, d)
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	bw := bufio.NewWriter(w)
	out := &output{w: bw, p: choosePalette(r.Color, w)}

	out.header(d)
	for _, span := range d.Spans {
		r.span(out, span)
	}
	for _, note := range d.Notes {
		out.trailer("note", note)
	}
	if d.Help != "" {
		out.trailer("help", d.Help)
	}
	if out.err != nil {
		return out.err
	}
	return bw.Flush()
}

// output writes colored diagnostic text and keeps the first write error.
type output struct {
	w   io.Writer
	p   palette
	err error
}

func (out *output) printf(format string, v ...interface{}) {
	if out.err != nil {
		return
	}
	_, out.err = fmt.Fprintf(out.w, format, v...)
}

func (out *output) header(d Diagnostic) {
	color := out.p.boldRed
	switch d.Severity {
	case SeverityWarning:
		color = out.p.yellow
	case SeverityNote:
		color = out.p.boldCyan
	}
	title := d.Severity.String()
	if d.Code != "" {
		title += "[" + d.Code + "]"
	}
	out.printf("%s%s%s%s: %s%s%s\n", color, out.p.bold, title, out.p.reset, out.p.bold, d.Message, out.p.reset)
}

// gutter writes the line number column of a snippet, which is blank when
// number is empty.
func (out *output) gutter(width int, number string) {
	out.printf(" %s%*s |%s", out.p.boldBlue, width, number, out.p.reset)
}

func (out *output) trailer(kind string, text string) {
	out.printf("   %s=%s %s: %s\n", out.p.boldCyan, out.p.reset, kind, text)
}

func (r *Renderer) span(out *output, span Span) {
	out.printf("  %s-->%s %s\n", out.p.boldBlue, out.p.reset, spanLocation(span))

	source, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		out.printf("   %s|%s\n", out.p.boldBlue, out.p.reset)
		return
	}
	number := strconv.Itoa(span.Line)
	width := len(number)

	out.gutter(width, "")
	out.printf("\n")
	out.gutter(width, number)
	out.printf("  %s\n", strings.ReplaceAll(source, "\t", strings.Repeat(" ", tabWidth)))

	start, length := underline(source, span)
	out.gutter(width, "")
	out.printf("  %s%s%s%s", strings.Repeat(" ", start), out.p.boldRed, strings.Repeat("^", length), out.p.reset)
	if span.Label != "" {
		out.printf(" %s%s%s", out.p.boldRed, span.Label, out.p.reset)
	}
	out.printf("\n")
	out.gutter(width, "")
	out.printf("\n")
}

func spanLocation(span Span) string {
	switch {
	case span.Line <= 0:
		return span.File
	case span.Col <= 0:
		return fmt.Sprintf("%s:%d", span.File, span.Line)
	}
	return fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
}

// sourceLine returns line number line of file.
func (r *Renderer) sourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if line > len(lines) {
		return "", false
	}
	text := strings.TrimSuffix(lines[line-1], "\r")
	return text, text != ""
}

// underline returns the display column at which the underline of span
// starts in source and the number of carets.  Without an explicit end
// column the underline covers the token at the start column.  A span at an
// open parenthesis covers the head of the list.
func underline(source string, span Span) (start int, length int) {
	col := span.Col
	if col <= 0 {
		col = 1
	}
	end := span.EndCol
	if end <= 0 {
		end = tokenEnd(source, col)
	}
	if end < col {
		end = col
	}
	if col-1 <= len(source) {
		start = displayWidth(source[:col-1])
	}
	return start, end - col + 1
}

// tokenEnd returns the 1-based column of the last byte of the token
// starting at column col.  Tokens end at whitespace and parentheses.
func tokenEnd(source string, col int) int {
	i := col - 1
	if i < 0 || i >= len(source) {
		return col
	}
	if source[i] == '(' {
		i++
	}
	for i < len(source) {
		c, size := utf8.DecodeRuneInString(source[i:])
		if unicode.IsSpace(c) || c == '(' || c == ')' {
			break
		}
		i += size
	}
	if i <= col-1 {
		return col
	}
	return i
}

func displayWidth(s string) int {
	width := 0
	for _, c := range s {
		if c == '\t' {
			width += tabWidth
		} else {
			width++
		}
	}
	return width
}
