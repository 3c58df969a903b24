// Copyright © 2026 The sexp authors

package formatter

import "strings"

// IndentStyle determines how arguments in an s-expression are indented.
type IndentStyle int

const (
	// IndentAlign indents subsequent lines to align with the first argument.
	IndentAlign IndentStyle = iota
	// IndentBody indents all subforms at bracket column + indent size.
	IndentBody
	// IndentSpecial indents N header args aligned, rest at bracket + indent size.
	IndentSpecial
)

// IndentRule specifies the indentation behavior for a particular form.
type IndentRule struct {
	Style      IndentStyle
	HeaderArgs int // for IndentSpecial: args before the "body"
}

// Config holds formatting configuration.
type Config struct {
	IndentSize    int                    // spaces per indent level (default: 2)
	MaxBlankLines int                    // max consecutive blank lines (default: 1)
	Rules         map[string]*IndentRule // form name -> rule
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentSize:    2,
		MaxBlankLines: 1,
		Rules:         DefaultRules(),
	}
}

// DefaultRules returns the default indent rules for the special forms.
func DefaultRules() map[string]*IndentRule {
	return map[string]*IndentRule{
		// name, parameters, body
		"defn":  {Style: IndentSpecial, HeaderArgs: 2},
		"defnr": {Style: IndentSpecial, HeaderArgs: 2},
		// parameters, arguments, body
		"loop": {Style: IndentSpecial, HeaderArgs: 2},

		"fn":        {Style: IndentSpecial, HeaderArgs: 1},
		"namespace": {Style: IndentSpecial, HeaderArgs: 1},
		"if":        {Style: IndentSpecial, HeaderArgs: 1},
		"const":     {Style: IndentSpecial, HeaderArgs: 1},
		"let":       {Style: IndentSpecial, HeaderArgs: 1},
		"set":       {Style: IndentSpecial, HeaderArgs: 1},

		"do": {Style: IndentBody},
	}
}

// RuleFor returns the indent rule for the given form name.  Names without a
// rule align with the first argument, except that names whose last segment
// starts with "def" get defn-style indent.
func (c *Config) RuleFor(name string) *IndentRule {
	if r, ok := c.Rules[name]; ok {
		return r
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	if strings.HasPrefix(name, "def") {
		return &IndentRule{Style: IndentSpecial, HeaderArgs: 2}
	}
	return &IndentRule{Style: IndentAlign}
}
