// Copyright © 2026 The sexp authors

// Package formatter provides source code formatting for sexp files.  Source
// is parsed into expressions whose locations record where each line break
// fell, and the printer reproduces those breaks with normalized spacing and
// rule-based indentation.
package formatter

import (
	"bytes"
	"strings"

	"github.com/sexplang/sexp/parser/rdparser"
	"github.com/sexplang/sexp/parser/token"
)

// Format formats sexp source code. If cfg is nil, DefaultConfig() is used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats sexp source code, using filename for error messages.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := token.NewScanner(filename, bytes.NewReader(source))
	exprs, err := rdparser.New(s).ParseProgram()
	if err != nil {
		return nil, err
	}

	pr := newPrinter(cfg)
	pr.writeTopLevel(exprs)

	result := pr.buf.String()
	if len(result) > 0 {
		result = strings.TrimRight(result, "\n") + "\n"
	}
	return []byte(result), nil
}
