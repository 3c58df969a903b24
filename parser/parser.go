// Copyright © 2026 The sexp authors

package parser

import (
	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser/rdparser"
	"github.com/sexplang/sexp/parser/regexparser"
)

// ReaderOption configures the reader returned by NewReader.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	combinator bool
}

// WithCombinator selects the parser combinator reader from package
// regexparser instead of the default recursive descent reader.
func WithCombinator() ReaderOption {
	return func(c *readerConfig) {
		c.combinator = true
	}
}

// NewReader returns a new lisp.Reader.
func NewReader(opts ...ReaderOption) lisp.Reader {
	var cfg readerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.combinator {
		return regexparser.NewReader()
	}
	return rdparser.NewReader()
}
