// Copyright © 2026 The sexp authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sexplang/sexp/lisp"
	"github.com/sexplang/sexp/parser"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (DocCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env *lisp.Env
}

// WithEnv injects a fully configured Env, so that an embedding program can
// document the native functions it registers.
func WithEnv(env *lisp.Env) Option {
	return func(c *cmdConfig) { c.env = env }
}

// envConfig returns the interpreter configuration selected by flags, the
// config file and environment variables.  The returned function releases
// the evaluation context.
func envConfig(stderr io.Writer) ([]lisp.Config, context.CancelFunc, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		return nil, nil, fmt.Errorf("log-level: %w", err)
	}
	var readerOpts []parser.ReaderOption
	if viper.GetBool("combinator") {
		readerOpts = append(readerOpts, parser.WithCombinator())
	}
	ctx, cancel := context.WithCancel(context.Background())
	if timeout := viper.GetDuration("timeout"); timeout > 0 {
		cancel()
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	}
	config := []lisp.Config{
		lisp.WithReader(parser.NewReader(readerOpts...)),
		lisp.WithStderr(stderr),
		lisp.WithLogLevel(level),
		lisp.WithMaximumEvalDepth(viper.GetInt("max-depth")),
		lisp.WithMaximumPhysicalStackHeight(viper.GetInt("max-height")),
		lisp.WithMaxSteps(viper.GetInt64("max-steps")),
		lisp.WithContext(ctx),
	}
	return config, cancel, nil
}

// newEnv returns an interpreter configured by envConfig.
func newEnv(stderr io.Writer) (*lisp.Env, context.CancelFunc, error) {
	config, cancel, err := envConfig(stderr)
	if err != nil {
		return nil, nil, err
	}
	env, err := lisp.NewEnv(config...)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return env, cancel, nil
}
