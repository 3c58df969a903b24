// Copyright © 2026 The sexp authors

package formatter

import (
	"bytes"

	"github.com/mattn/go-runewidth"
	"github.com/sexplang/sexp/lisp"
)

type printer struct {
	buf   bytes.Buffer
	cfg   *Config
	col   int  // current column (0-based)
	atBOL bool // at beginning of line
}

func newPrinter(cfg *Config) *printer {
	return &printer{
		cfg:   cfg,
		atBOL: true,
	}
}

// writeTopLevel writes top-level expressions, each starting on its own line.
func (p *printer) writeTopLevel(exprs []*lisp.LExpr) {
	for i, expr := range exprs {
		if i > 0 {
			p.newline()
			for j := 0; j < p.blankLinesBetween(exprs[i-1], expr); j++ {
				p.newline()
			}
		}
		p.writeExpr(expr)
	}
}

func (p *printer) writeExpr(expr *lisp.LExpr) {
	switch expr.Type {
	case lisp.ExprList:
		p.writeSExpr(expr)
	case lisp.ExprNumber:
		// Keep the source spelling of literals such as 0xff.
		if expr.Str != "" {
			p.writeString(expr.Str)
		} else {
			p.writeString(expr.String())
		}
	default:
		p.writeString(expr.String())
	}
}

// writeSExpr writes a list expression.  The line breaks of the source are
// preserved; the closing paren always follows the last child.
func (p *printer) writeSExpr(expr *lisp.LExpr) {
	if len(expr.Cells) == 0 {
		p.writeString("()")
		return
	}

	p.writeString("(")
	bracketCol := p.col - 1

	// For data lists (non-identifier head), preserve first-child-on-new-line.
	head := expr.Cells[0]
	isCall := head.Type == lisp.ExprIdent
	if !isCall && startsLine(expr, head) {
		p.newline()
		p.writeIndent(bracketCol + 1)
	}
	p.writeExpr(head)
	firstArgCol := p.col + 1

	rule := &IndentRule{Style: IndentAlign}
	if isCall {
		rule = p.cfg.RuleFor(head.Str)
	} else {
		// A parameter list or argument list.  Align subsequent elements
		// just inside the bracket.
		firstArgCol = bracketCol + 1
	}

	// When the first argument wraps to a new line, fall back to body indent
	// to avoid rightward drift from long names.
	if isCall && len(expr.Cells) > 1 && followsLine(head, expr.Cells[1]) {
		if rule.Style == IndentAlign {
			rule = &IndentRule{Style: IndentBody}
		}
	}

	for i := 1; i < len(expr.Cells); i++ {
		prev, child := expr.Cells[i-1], expr.Cells[i]
		onNewLine := followsLine(prev, child)
		childIndent := p.computeChildIndent(rule, i, firstArgCol, bracketCol, onNewLine)
		if onNewLine {
			p.newline()
			for j := 0; j < p.blankLinesBetween(prev, child); j++ {
				p.newline()
			}
			p.writeIndent(childIndent)
		} else {
			p.writeString(" ")
		}
		p.writeExpr(child)
	}
	p.writeString(")")
}

// computeChildIndent determines the indentation for child at index i.
// For IndentSpecial header args, if the child wraps to a new line, body indent
// is used instead of first-arg alignment to avoid rightward drift.
func (p *printer) computeChildIndent(rule *IndentRule, childIdx int, firstArgCol int, bracketCol int, onNewLine bool) int {
	switch rule.Style {
	case IndentBody:
		return bracketCol + p.cfg.IndentSize
	case IndentSpecial:
		if childIdx <= rule.HeaderArgs {
			if onNewLine {
				return bracketCol + p.cfg.IndentSize
			}
			return firstArgCol
		}
		return bracketCol + p.cfg.IndentSize
	default: // IndentAlign
		return firstArgCol
	}
}

// blankLinesBetween returns the number of blank lines separating two
// consecutive expressions in the source, clamped to the configured maximum.
func (p *printer) blankLinesBetween(prev, next *lisp.LExpr) int {
	if prev.Source == nil || next.Source == nil {
		return 0
	}
	n := next.Source.Line - lastLine(prev) - 1
	if n < 0 {
		return 0
	}
	if n > p.cfg.MaxBlankLines {
		n = p.cfg.MaxBlankLines
	}
	return n
}

// followsLine reports whether next began on a later line than prev ended.
func followsLine(prev, next *lisp.LExpr) bool {
	if prev.Source == nil || next.Source == nil {
		return false
	}
	return next.Source.Line > lastLine(prev)
}

// startsLine reports whether the first child of list began on a later line
// than the list's open paren.
func startsLine(list, first *lisp.LExpr) bool {
	if list.Source == nil || first.Source == nil {
		return false
	}
	return first.Source.Line > list.Source.Line
}

// lastLine returns the line of the last token with a known location in
// expr.  Closing parens carry no location so a list ends at its last child.
func lastLine(expr *lisp.LExpr) int {
	line := 0
	if expr.Source != nil {
		line = expr.Source.Line
	}
	for _, c := range expr.Cells {
		if n := lastLine(c); n > line {
			line = n
		}
	}
	return line
}

// writeIndent writes spaces to reach the desired column.
func (p *printer) writeIndent(col int) {
	if !p.atBOL {
		return
	}
	for i := 0; i < col; i++ {
		p.buf.WriteByte(' ')
	}
	p.col = col
	p.atBOL = false
}

// writeString writes a string without newlines, updating column tracking.
func (p *printer) writeString(s string) {
	if p.atBOL && s != "" {
		p.atBOL = false
	}
	p.buf.WriteString(s)
	p.col += runewidth.StringWidth(s)
}

// newline writes a newline and marks beginning of line.
func (p *printer) newline() {
	p.buf.WriteByte('\n')
	p.col = 0
	p.atBOL = true
}
