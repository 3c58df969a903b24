// Copyright © 2026 The sexp authors

// Package repl implements an interactive read-eval-print loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/sexplang/sexp/diagnostic"
	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser"
)

// SourceName is the name given to expressions read by the REPL.
const SourceName = "repl"

type config struct {
	stdin       io.ReadCloser
	stderr      io.Writer
	historyFile string
	envConfig   []lisp.Config
	color       diagnostic.ColorMode
}

func newConfig(opts ...Option) *config {
	config := &config{
		historyFile: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option configures a REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file that input history is saved to.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithEnvConfig adds interpreter configuration used by RunRepl.
func WithEnvConfig(cfg ...lisp.Config) Option {
	return func(c *config) {
		c.envConfig = append(c.envConfig, cfg...)
	}
}

// WithColor sets the color mode of rendered errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// RunRepl runs a simple repl in a new interpreter.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	envOpts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	env, err := lisp.NewEnv(append(envOpts, cfg.envConfig...)...)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl which evaluates input in the default namespace
// of env.  Input continues on following lines, behind the cont prompt, until
// its parentheses balance.
func RunEnv(env *lisp.Env, prompt, cont string, opts ...Option) error {
	if env.Runtime.Reader == nil {
		return errors.New("REPL environment has no reader")
	}
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	ensureHistoryFilePermissions(cfg.historyFile)

	rlCfg := &readline.Config{
		Stdout:            env.Runtime.Stderr,
		Stderr:            env.Runtime.Stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewFromConfig(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := &session{
		env:      env,
		renderer: &diagnostic.Renderer{Color: cfg.color},
	}
	for {
		if s.pending() {
			rl.SetPrompt(cont)
		} else {
			rl.SetPrompt(prompt)
		}
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			continue
		}
		if err != nil {
			return nil
		}
		s.input(line)
	}
}

// session holds input which has not yet formed complete expressions.
type session struct {
	env      *lisp.Env
	renderer *diagnostic.Renderer
	buf      strings.Builder
}

func (s *session) pending() bool {
	return s.buf.Len() > 0
}

// input adds a line of text and evaluates the buffered text once it parses.
func (s *session) input(line string) {
	if !s.pending() && strings.TrimSpace(line) == "" {
		return
	}
	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	text := s.buf.String()
	exprs, err := s.env.Runtime.Reader.Read(SourceName, strings.NewReader(text))
	if incomplete(err) {
		return
	}
	s.buf.Reset()
	w := s.env.Runtime.Stderr
	if err != nil {
		s.renderError(w, err, text)
		return
	}
	for _, expr := range exprs {
		val, err := s.env.Eval(expr, s.env.User)
		if err != nil {
			s.renderError(w, err, text)
			return
		}
		fmt.Fprintln(w, val) //nolint:errcheck // best-effort REPL output
	}
}

func (s *session) renderError(w io.Writer, err error, text string) {
	s.renderer.SourceReader = diagnostic.Sources(map[string]string{SourceName: text})
	_ = s.renderer.RenderError(w, err)
}

// incomplete reports whether err means the input ended inside a list.
func incomplete(err error) bool {
	switch lisp.ErrorCode(err) {
	case lisp.CodeUnmatchedParen, lisp.CodeUnexpectedEOF:
		return true
	}
	return false
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sexp_history")
}

// ensureHistoryFilePermissions creates the history file if necessary and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // user history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
