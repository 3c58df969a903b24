// Copyright © 2026 The sexp authors

/*
Package regexparser provides an alternative expression reader built from
parser combinators.

	expr := '(' <expr>* ')' | <atom>
	atom := a run of characters other than whitespace and parentheses,
	        which may contain '(' after its first character

It produces the same expression trees as package rdparser.
*/
package regexparser

import (
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	parsec "github.com/prataprc/goparsec"
	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
)

// NewReader returns a lisp.Reader.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

// Read implements lisp.Reader.
func (p *parsecReader) Read(name string, r io.Reader) ([]*lisp.LExpr, error) {
	return p.ReadLocation(name, "", r)
}

// ReadLocation implements lisp.LocationReader.
func (p *parsecReader) ReadLocation(name string, loc string, r io.Reader) ([]*lisp.LExpr, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		lerr := lisp.LexError(lisp.CodeReadError, nil, "%v", err)
		lerr.Err = err
		return nil, lerr
	}
	return parseSource(&source{file: name, path: loc, text: b})
}

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSExpr
	nodeSExprOUnmatched
)

var nodeTypeStrings = []string{
	nodeInvalid:         "INVALID",
	nodeTerm:            "TERM",
	nodeSExpr:           "SEXPR",
	nodeSExprOUnmatched: "SEXPROPENUNMATCHED",
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// ParseString parses every expression in text.
func ParseString(name string, text string) ([]*lisp.LExpr, error) {
	return parseSource(&source{file: name, text: []byte(text)})
}

func parseSource(src *source) ([]*lisp.LExpr, error) {
	if err := src.check(); err != nil {
		return nil, err
	}
	var exprs []*lisp.LExpr
	s := parsec.NewScanner(src.text)
	parser := newParsecParser(src)
	root, s := parser(s)
	for root != nil {
		switch node := root.(type) {
		case *lisp.LExpr:
			exprs = append(exprs, node)
		case error:
			return nil, node
		}
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		cursor := s.GetCursor()
		lerr := lisp.SyntaxError(lisp.CodeUnexpectedToken, nil, "unexpected token: %s %q",
			token.PAREN_R, src.text[cursor:cursor+1])
		lerr.Source = src.location(cursor)
		return nil, lerr
	}
	return exprs, nil
}

func newParsecParser(src *source) parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	atom := parsec.Token(`[^\s()][^\s)]*`, "ATOM")
	term := parsec.OrdChoice(src.astNode(nodeTerm), atom)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(src.astNode(nodeSExpr), openP, exprList, closeP)
	sexprOUnmatched := parsec.And(src.astNode(nodeSExprOUnmatched), openP, exprList, endOfInput())
	expr = parsec.OrdChoice(singleNode,
		term,
		sexpr,
		// Error matching cases come last because they have the lowest
		// precedence.
		sexprOUnmatched,
	)
	return expr
}

// singleNode unwraps the one node matched by an ordered choice so that each
// parsed expression is an *lisp.LExpr or an error rather than a node list.
func singleNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return nodes[0]
}

// endOfInput matches when only whitespace remains.  Unlike parsec.End it
// tolerates the trailing newline of a source file.
func endOfInput() parsec.Parser {
	return func(s parsec.Scanner) (parsec.ParsecNode, parsec.Scanner) {
		news := s.Clone()
		_, news = news.SkipWS()
		if news.Endof() {
			return parsec.NewTerminal("EOF", "", news.GetCursor()), news
		}
		return nil, s
	}
}

// source is the text being parsed along with the offsets of its lines, which
// are used to compute token locations.
type source struct {
	file  string
	path  string
	text  []byte
	lines []int
}

func (src *source) astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return src.newAST(t, nodes)
	}
}

func (src *source) newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	switch typ {
	case nodeTerm:
		term := nodes[0].(*parsec.Terminal)
		return lisp.AtomExpr(term.Value, src.location(term.Position))
	case nodeSExpr, nodeSExprOUnmatched:
		open := nodes[0].(*parsec.Terminal)
		var cells []*lisp.LExpr
		children, _ := nodes[1].([]parsec.ParsecNode)
		for _, c := range children {
			switch c := c.(type) {
			case error:
				return c
			case *lisp.LExpr:
				cells = append(cells, c)
			}
		}
		loc := src.location(open.Position)
		if typ == nodeSExprOUnmatched {
			lerr := lisp.SyntaxError(lisp.CodeUnmatchedParen, nil, "unmatched %s", open.Value)
			lerr.Source = loc
			return lerr
		}
		expr := lisp.ListExpr(cells...)
		expr.Source = loc
		return expr
	default:
		panic("unknown nodeType: " + typ.String())
	}
}

// check rejects text which the lexer would not accept, i.e. invalid utf-8
// and control characters other than whitespace.
func (src *source) check() error {
	for i := 0; i < len(src.text); {
		c, n := utf8.DecodeRune(src.text[i:])
		switch {
		case c == utf8.RuneError && n == 1:
			lerr := lisp.LexError(lisp.CodeInvalidUTF8, nil,
				"invalid utf-8 sequence in source text starting with byte %q", src.text[i])
			lerr.Source = src.location(i)
			return lerr
		case unicode.IsControl(c) && !strings.ContainsRune(" \t\n\r", c):
			lerr := lisp.LexError(lisp.CodeInvalidChar, lisp.ErrorData{"char": string(c)},
				"invalid character %q", c)
			lerr.Source = src.location(i)
			return lerr
		}
		i += n
	}
	return nil
}

// location converts a byte offset into a location with a line and a rune
// column.
func (src *source) location(pos int) *token.Location {
	if src.lines == nil {
		src.lines = []int{0}
		for i, b := range src.text {
			if b == '\n' {
				src.lines = append(src.lines, i+1)
			}
		}
	}
	line := sort.Search(len(src.lines), func(i int) bool { return src.lines[i] > pos }) - 1
	start := src.lines[line]
	return &token.Location{
		File: src.file,
		Path: src.path,
		Pos:  pos,
		Line: line + 1,
		Col:  utf8.RuneCount(src.text[start:pos]) + 1,
	}
}
