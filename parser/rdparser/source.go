// Copyright © 2026 The sexp authors

package rdparser

import (
	"github.com/sexplang/sexp/parser/lexer"
	"github.com/sexplang/sexp/parser/token"
)

// TokenStream is an arbitrary sequence of tokens.  Typically, a TokenStream
// will be a *lexer.Lexer but a slice of tokens which has already been lexed
// works as well.
type TokenStream interface {
	// ReadToken returns the next token from an input source.  When no more
	// tokens can be generated ReadToken returns a token with type token.EOF.
	// After a failure a TokenStream must return a token with type
	// token.ERROR or token.INVALID whenever called.
	ReadToken() *token.Token
}

// errStream is implemented by token streams which can explain an ERROR or
// INVALID token.
type errStream interface {
	Err() error
}

// TokenGenerator implements TokenStream.  The function will be called any time
// a TokenSource wants a token.
type TokenGenerator func() *token.Token

// ReadToken implements TokenStream.
func (fn TokenGenerator) ReadToken() *token.Token {
	return fn()
}

// TokenSlice is a TokenStream over tokens which have already been read.
type TokenSlice struct {
	toks []*token.Token
	eof  *token.Token
}

// NewTokenSlice returns a TokenStream which returns toks in order followed by
// EOF.
func NewTokenSlice(toks []*token.Token) *TokenSlice {
	eof := &token.Token{Type: token.EOF, Source: &token.Location{Pos: -1}}
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		if last.Type == token.EOF {
			eof = last
			toks = toks[:len(toks)-1]
		} else if last.Source != nil {
			loc := *last.Source
			loc.Pos += len(last.Text)
			loc.Col += len(last.Text)
			eof = &token.Token{Type: token.EOF, Source: &loc}
		}
	}
	return &TokenSlice{toks: toks, eof: eof}
}

// ReadToken implements TokenStream.
func (s *TokenSlice) ReadToken() *token.Token {
	if len(s.toks) == 0 {
		return s.eof
	}
	tok := s.toks[0]
	s.toks = s.toks[1:]
	return tok
}

// Rest returns the tokens which have not been read.
func (s *TokenSlice) Rest() []*token.Token {
	return s.toks
}

// TokenSource abstracts a TokenStream by adding "memory" and providing methods
// to process the stream's tokens with one token of lookahead.
type TokenSource struct {
	lex   TokenStream
	Token *token.Token
	peek  *token.Token
}

func NewTokenStreamSource(stream TokenStream) *TokenSource {
	return &TokenSource{
		lex: stream,
	}
}

// NewTokenSource initializes and returns a new TokenSource that scans tokens
// from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return NewTokenStreamSource(lexer.New(scanner))
}

func (s *TokenSource) Peek() *token.Token {
	if s.peek == nil {
		s.peek = s.lex.ReadToken()
	}
	return s.peek
}

func (s *TokenSource) Accept(fn func(*token.Token) bool) bool {
	if fn(s.Peek()) {
		s.scan()
		return true
	}
	return false
}

func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	for _, typ := range typ {
		if s.Peek().Type == typ {
			s.scan()
			return true
		}
	}
	return false
}

func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.scan()
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}

// Err returns the error explaining a failed token stream, if the stream can
// provide one.
func (s *TokenSource) Err() error {
	if es, ok := s.lex.(errStream); ok {
		return es.Err()
	}
	return nil
}

func (s *TokenSource) scan() {
	s.Token = s.Peek()
	s.peek = nil
}
