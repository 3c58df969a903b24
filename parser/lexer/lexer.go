// Copyright © 2026 The sexp authors

package lexer

import (
	"strings"
	"unicode"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/token"
)

const whitespace = " \t\n\r"

// Lexer splits source text into parenthesis and symbol tokens.
type Lexer struct {
	scanner *token.Scanner
	err     error
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// Tokenize returns every token in text, excluding the final EOF token.
func Tokenize(text string) ([]*token.Token, error) {
	lex := New(token.NewScannerString("tokenize", text))
	var toks []*token.Token
	for {
		tok := lex.ReadToken()
		switch tok.Type {
		case token.EOF:
			return toks, nil
		case token.ERROR, token.INVALID:
			return toks, lex.Err()
		}
		toks = append(toks, tok)
	}
}

// ReadToken returns the next token in the stream.  At the end of the stream
// ReadToken returns an EOF token.  If the stream cannot be tokenized an
// INVALID or ERROR token is returned and Err reports the cause.  Subsequent
// calls return the same failure.
func (lex *Lexer) ReadToken() *token.Token {
	if lex.err != nil {
		return lex.failure()
	}
	lex.scanner.AcceptSeqAny(whitespace)
	lex.scanner.Ignore()
	c, ok := lex.scanner.Peek()
	if !ok {
		if lex.scanner.EOF() {
			if err := lex.scanner.Err(); err != nil {
				return lex.emitError(lisp.CodeReadError, err)
			}
			return lex.scanner.EmitToken(token.EOF)
		}
		err := lex.scanner.ScanRune()
		return lex.emitError(lisp.CodeInvalidUTF8, err)
	}
	switch {
	case c == '(':
		lex.scanner.ScanRune()
		return lex.scanner.EmitToken(token.PAREN_L)
	case c == ')':
		lex.scanner.ScanRune()
		return lex.scanner.EmitToken(token.PAREN_R)
	case unicode.IsControl(c):
		lex.scanner.ScanRune()
		tok := lex.scanner.EmitToken(token.INVALID)
		lerr := lisp.LexError(lisp.CodeInvalidChar, lisp.ErrorData{"char": tok.Text},
			"invalid character %q", c)
		lerr.Source = tok.Source
		lex.err = lerr
		return tok
	}
	lex.scanner.AcceptSeq(isSymbolRune)
	return lex.scanner.EmitToken(token.SYMBOL)
}

// Err returns the error that stopped the lexer, if any.
func (lex *Lexer) Err() error {
	return lex.err
}

func (lex *Lexer) emitError(code string, err error) *token.Token {
	loc := lex.scanner.Loc()
	lerr := lisp.LexError(code, nil, "%v", err)
	lerr.Err = err
	lerr.Source = loc
	lex.err = lerr
	return &token.Token{Type: token.ERROR, Text: err.Error(), Source: loc}
}

func (lex *Lexer) failure() *token.Token {
	typ := token.ERROR
	if lisp.ErrorCode(lex.err) == lisp.CodeInvalidChar {
		typ = token.INVALID
	}
	var loc *token.Location
	if lerr, ok := lisp.AsError(lex.err); ok {
		loc = lerr.Source
	}
	return &token.Token{Type: typ, Text: lex.err.Error(), Source: loc}
}

// isSymbolRune reports whether c may continue a symbol.  Symbols end at
// whitespace, a closing parenthesis or a control character.
func isSymbolRune(c rune) bool {
	return c != ')' && !strings.ContainsRune(whitespace, c) && !unicode.IsControl(c)
}
