// Copyright © 2026 The sexp authors

package token

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream (io.Reader).
// The input is buffered in full so that location information is exact for
// every token, including the column.
type Scanner struct {
	file    string
	path    string
	buf     []byte
	readErr error

	start     int // byte offset of the current token
	next      int // byte offset of the rune following c
	c         rune
	line      int // line of the rune at next
	col       int // column of the rune at next
	startLine int
	startCol  int
}

// NewScanner initializes and returns a new Scanner.  A read error on r is
// reported through Err after the successfully read prefix has been scanned.
func NewScanner(file string, r io.Reader) *Scanner {
	buf, err := io.ReadAll(r)
	s := newScannerBytes(file, buf)
	s.readErr = err
	return s
}

// NewScannerString returns a Scanner over text.
func NewScannerString(file string, text string) *Scanner {
	return newScannerBytes(file, []byte(text))
}

func newScannerBytes(file string, buf []byte) *Scanner {
	return &Scanner{
		file:      file,
		buf:       buf,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// SetPath associates a physical location (e.g. filesystem path) with s.
func (s *Scanner) SetPath(path string) {
	s.path = path
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.next])
}

// Rune returns the last rune scanned.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned.  Peek returns a false second value
// at EOF or when the next bytes are not a valid utf-8 sequence.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.buf) {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	if c == utf8.RuneError && n == 1 {
		return utf8.RuneError, false
	}
	return c, true
}

// ScanRune scans the next rune into the current token.  ScanRune returns
// io.EOF when the input is exhausted.
func (s *Scanner) ScanRune() error {
	if s.next >= len(s.buf) {
		if s.readErr != nil {
			return s.readErr
		}
		return io.EOF
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	if c == utf8.RuneError && n == 1 {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.next])
	}
	s.c = c
	s.next += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Err returns an error encountered while reading the input stream.
func (s *Scanner) Err() error {
	return s.readErr
}

// EOF returns true when all input has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.buf)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqAny(charset string) int {
	var n int
	for s.AcceptAny(charset) {
		n++
	}
	return n
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the next rune to be scanned.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.next,
		Line: s.line,
		Col:  s.col,
	}
}
