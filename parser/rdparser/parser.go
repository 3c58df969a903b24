// Copyright © 2026 The sexp authors

package rdparser

import (
	"io"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LExpr, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// ReadLocation implements lisp.LocationReader.
func (*reader) ReadLocation(name string, loc string, r io.Reader) ([]*lisp.LExpr, error) {
	s := token.NewScanner(name, r)
	s.SetPath(loc)
	p := New(s)
	return p.ParseProgram()
}

// Parse parses exactly one expression from the front of toks and returns it
// along with the tokens following it.
func Parse(toks []*token.Token) (*lisp.LExpr, []*token.Token, error) {
	stream := NewTokenSlice(toks)
	p := NewFromSource(NewTokenStreamSource(stream))
	expr, err := p.Parse()
	if err == io.EOF {
		lerr := lisp.SyntaxError(lisp.CodeUnexpectedEOF, nil, "unexpected end of input")
		lerr.Source = stream.eof.Source
		return nil, nil, lerr
	}
	if err != nil {
		return nil, nil, err
	}
	return expr, stream.Rest(), nil
}

// Parser is a recursive descent parser for expressions.
type Parser struct {
	src *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse is a generic entry point that is similar to ParseExpression but is
// capable of handling EOF before reading an expression.  Parse returns io.EOF
// when the stream holds no more expressions.
func (p *Parser) Parse() (*lisp.LExpr, error) {
	if p.src.IsEOF() {
		return nil, io.EOF
	}
	return p.ParseExpression()
}

// ParseProgram parses expressions until the token stream is exhausted.
func (p *Parser) ParseProgram() ([]*lisp.LExpr, error) {
	var exprs []*lisp.LExpr
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present in the input stream and will report
// unexpected EOF tokens encountered.
func (p *Parser) ParseExpression() (*lisp.LExpr, error) {
	switch p.PeekType() {
	case token.SYMBOL:
		return p.ParseAtom()
	case token.PAREN_L:
		return p.ParseList()
	case token.EOF:
		return nil, p.errorf(lisp.CodeUnexpectedEOF, p.PeekLocation(), "unexpected end of input")
	case token.ERROR, token.INVALID:
		p.ReadToken()
		return nil, p.scanError()
	default:
		tok := p.ReadToken()
		return nil, p.errorf(lisp.CodeUnexpectedToken, tok.Source, "unexpected token: %v", tok)
	}
}

// ParseAtom parses a symbol token as a number literal or an identifier.
func (p *Parser) ParseAtom() (*lisp.LExpr, error) {
	if !p.Accept(token.SYMBOL) {
		return nil, p.errorf(lisp.CodeUnexpectedToken, p.PeekLocation(), "expected symbol: %v", p.src.Peek())
	}
	return lisp.AtomExpr(p.TokenText(), p.Location()), nil
}

// ParseList parses a parenthesized list of expressions.  The empty list is
// valid.
func (p *Parser) ParseList() (*lisp.LExpr, error) {
	if !p.Accept(token.PAREN_L) {
		return nil, p.errorf(lisp.CodeUnexpectedToken, p.PeekLocation(), "expected %s: %v", token.PAREN_L, p.src.Peek())
	}
	open := p.src.Token
	expr := lisp.ListExpr()
	expr.Source = open.Source
	for {
		switch p.PeekType() {
		case token.EOF:
			return nil, p.errorf(lisp.CodeUnmatchedParen, open.Source, "unmatched %s", open.Text)
		case token.PAREN_R:
			p.ReadToken()
			return expr, nil
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		expr.Cells = append(expr.Cells, x)
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) PeekLocation() *token.Location {
	return p.src.Peek().Source
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) errorf(code string, loc *token.Location, format string, v ...interface{}) error {
	err := lisp.SyntaxError(code, nil, format, v...)
	err.Source = loc
	return err
}

// scanError returns the error behind the ERROR or INVALID token just read.
func (p *Parser) scanError() error {
	if err := p.src.Err(); err != nil {
		return err
	}
	code := lisp.CodeInvalidUTF8
	if p.TokenType() == token.INVALID {
		code = lisp.CodeInvalidChar
	}
	err := lisp.LexError(code, nil, "%s", p.TokenText())
	err.Source = p.Location()
	return err
}
